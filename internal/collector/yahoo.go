package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"TickerLens/internal/normalizer"
)

const (
	yahooQueryURL = "https://query1.finance.yahoo.com"
	yahooRootURL  = "https://finance.yahoo.com"
	yahooNewsMax  = 10
)

// YahooFetcher implements Fetcher using the Yahoo Finance public endpoints.
// History is required; quote info and news are best-effort.
type YahooFetcher struct {
	BaseURL string // chart and quote API host
	NewsURL string // ticker news stream host
	Client  *http.Client
	Now     func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooQueryURL,
		NewsURL: yahooRootURL,
		Client:  newHTTPClient(proxyURL),
		Now:     time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the v8 chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       map[string]any `json:"meta"`
			Timestamp  []int64        `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooQuote struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
	} `json:"quoteResponse"`
}

// yahooNewsStream is the ticker news stream. Articles come in the nested content shape.
type yahooNewsStream struct {
	Data struct {
		TickerStream struct {
			Stream []json.RawMessage `json:"stream"`
		} `json:"tickerStream"`
	} `json:"data"`
}

// Fetch returns one year of daily history, the quote info map and recent news.
func (f *YahooFetcher) Fetch(ctx context.Context, symbol string) (*normalizer.RawResponse, error) {
	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	hist, meta, err := f.fetchChart(ctx, symbol, now.Add(-normalizer.HistoryWindow), now)
	if err != nil {
		return nil, err
	}
	raw := &normalizer.RawResponse{History: hist, Info: meta}

	if info, err := f.fetchQuote(ctx, symbol); err != nil {
		log.Printf("[WARN] yahoo quote %s: %v, using chart meta", symbol, err)
	} else {
		if _, ok := info["exchangeTimezoneName"]; !ok && meta["exchangeTimezoneName"] != nil {
			info["exchangeTimezoneName"] = meta["exchangeTimezoneName"]
		}
		raw.Info = info
	}

	news, err := f.fetchNews(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] yahoo news %s: %v", symbol, err)
	}
	raw.News = news
	return raw, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, from, to time.Time) (normalizer.RawHistory, map[string]any, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(from.Unix(), 10))
	q.Set("period2", strconv.FormatInt(to.Unix(), 10))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(symbol), q.Encode())

	var chart yahooChart
	status, err := f.getJSON(ctx, u, &chart)
	if chart.Chart.Error != nil {
		return normalizer.RawHistory{}, nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if err != nil {
		return normalizer.RawHistory{}, nil, err
	}
	if status != http.StatusOK {
		return normalizer.RawHistory{}, nil, fmt.Errorf("yahoo chart: status %d", status)
	}
	if len(chart.Chart.Result) == 0 {
		return normalizer.RawHistory{}, nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	hist := normalizer.RawHistory{Timestamps: result.Timestamp}
	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		hist.Open, hist.High, hist.Low, hist.Close, hist.Volume = quote.Open, quote.High, quote.Low, quote.Close, quote.Volume
	} else if len(result.Timestamp) > 0 {
		return normalizer.RawHistory{}, nil, fmt.Errorf("yahoo: %d timestamps without quote data", len(result.Timestamp))
	}
	return hist, result.Meta, nil
}

func (f *YahooFetcher) fetchQuote(ctx context.Context, symbol string) (map[string]any, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", f.BaseURL, url.QueryEscape(symbol))
	var quote yahooQuote
	status, err := f.getJSON(ctx, u, &quote)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status %d", status)
	}
	if len(quote.QuoteResponse.Result) == 0 || quote.QuoteResponse.Result[0] == nil {
		return nil, fmt.Errorf("no quote returned")
	}
	return quote.QuoteResponse.Result[0], nil
}

func (f *YahooFetcher) fetchNews(ctx context.Context, symbol string) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("queryRef", "latestNews")
	q.Set("serviceKey", "ncp_fin")
	u := fmt.Sprintf("%s/xhr/ncp?%s", f.NewsURL, q.Encode())
	body := map[string]any{
		"serviceConfig": map[string]any{"snippetCount": yahooNewsMax, "s": []string{symbol}},
	}
	var stream yahooNewsStream
	status, err := f.doJSON(ctx, http.MethodPost, u, body, &stream)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("status %d", status)
	}
	news := make([]json.RawMessage, 0, len(stream.Data.TickerStream.Stream))
	for _, item := range stream.Data.TickerStream.Stream {
		if isSponsored(item) {
			continue
		}
		news = append(news, item)
	}
	return news, nil
}

// isSponsored reports whether a stream item is an ad placement rather than an article.
func isSponsored(item json.RawMessage) bool {
	var probe struct {
		Ad json.RawMessage `json:"ad"`
	}
	if err := json.Unmarshal(item, &probe); err != nil {
		return false
	}
	ad := strings.TrimSpace(string(probe.Ad))
	return ad != "" && ad != "null" && ad != "[]" && ad != "{}" && ad != "false" && ad != `""`
}

func (f *YahooFetcher) getJSON(ctx context.Context, u string, out any) (int, error) {
	return f.doJSON(ctx, http.MethodGet, u, nil, out)
}

// doJSON decodes the body into out regardless of status, so API error envelopes are visible.
// A non-nil in is sent as the JSON request body.
func (f *YahooFetcher) doJSON(ctx context.Context, method, u string, in, out any) (int, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("yahoo encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("yahoo read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
		}
		return resp.StatusCode, fmt.Errorf("yahoo decode: %w", err)
	}
	return resp.StatusCode, nil
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
