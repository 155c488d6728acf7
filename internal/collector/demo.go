package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"TickerLens/internal/normalizer"
)

// DemoFetcher returns deterministic synthetic data for a fixed set of symbols.
// It is used for offline runs and tests; unknown symbols fail like a bad ticker would.
type DemoFetcher struct {
	Prices map[string]float64 // symbol -> latest close
	Days   int
	Now    func() time.Time
}

// NewDemoFetcher creates a DemoFetcher preloaded with a few well-known tickers.
func NewDemoFetcher() *DemoFetcher {
	return &DemoFetcher{
		Prices: map[string]float64{
			"AAPL":  227.50,
			"MSFT":  431.20,
			"GOOGL": 178.35,
			"NVDA":  135.10,
			"SPY":   585.00,
		},
		Days: 250,
		Now:  time.Now,
	}
}

func (d *DemoFetcher) Name() string { return "demo" }

func (d *DemoFetcher) Fetch(_ context.Context, symbol string) (*normalizer.RawResponse, error) {
	price, ok := d.Prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no data found for symbol %s, it may be delisted", symbol)
	}
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}
	hist := generateDemoHistory(price, d.Days, now)
	closes := hist.Close
	last := *closes[len(closes)-1]

	hi, lo := math.Inf(-1), math.Inf(1)
	for i := range closes {
		hi = math.Max(hi, *hist.High[i])
		lo = math.Min(lo, *hist.Low[i])
	}
	return &normalizer.RawResponse{
		History: hist,
		Info: map[string]any{
			"currentPrice":     last,
			"marketCap":        last * 15_000_000_000,
			"trailingPE":       28.4,
			"fiftyTwoWeekHigh": hi,
			"fiftyTwoWeekLow":  lo,
			"volume":           48_000_000.0,
			"averageVolume":    52_500_000.0,
		},
		News: demoNews(symbol, now),
	}, nil
}

func generateDemoHistory(latest float64, days int, now time.Time) normalizer.RawHistory {
	if days <= 0 {
		days = 1
	}
	wobble := func(i int) float64 { return 1 + 0.01*math.Sin(float64(i)/5) }
	h := normalizer.RawHistory{}
	day := now.Truncate(24 * time.Hour)
	for i := 0; i < days; i++ {
		// Gentle upward drift with a wobble, ending exactly at latest.
		back := float64(days - 1 - i)
		c := latest * (1 - back*0.0008) * wobble(i) / wobble(days-1)
		o, hi, lo, v := c*0.998, c*1.006, c*0.993, 40_000_000+float64(i%7)*1_500_000
		h.Timestamps = append(h.Timestamps, day.AddDate(0, 0, -(days-1-i)).Unix())
		h.Open = append(h.Open, &o)
		h.High = append(h.High, &hi)
		h.Low = append(h.Low, &lo)
		h.Close = append(h.Close, &c)
		h.Volume = append(h.Volume, &v)
	}
	return h
}

// demoNews emits one article in each known provider shape plus one that is filtered out.
func demoNews(symbol string, now time.Time) []json.RawMessage {
	flat, _ := json.Marshal(map[string]any{
		"title":               symbol + " shares edge higher ahead of earnings",
		"publisher":           "Demo Wire",
		"link":                "https://example.com/news/" + symbol + "/earnings",
		"providerPublishTime": now.Add(-6 * time.Hour).Unix(),
		"summary":             "Analysts expect steady revenue growth for " + symbol + ".",
	})
	nested, _ := json.Marshal(map[string]any{
		"content": map[string]any{
			"title":        symbol + " announces product update",
			"provider":     map[string]any{"displayName": "Demo Times"},
			"canonicalUrl": map[string]any{"url": "https://example.com/news/" + symbol + "/product"},
			"pubDate":      now.Add(-30 * time.Hour).UTC().Format(time.RFC3339),
			"summary":      "The company detailed new features at its annual event.",
		},
	})
	headlineOnly, _ := json.Marshal(map[string]any{
		"title":     symbol + " mentioned in market roundup",
		"publisher": "Demo Wire",
	})
	return []json.RawMessage{flat, nested, headlineOnly}
}
