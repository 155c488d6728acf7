package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"TickerLens/internal/model"
	"TickerLens/internal/normalizer"
)

// Collector fetches and normalizes symbols one at a time.
type Collector struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Now: time.Now}
}

// FetchRecord performs a single best-effort fetch of symbol. It never returns nil:
// any provider or normalization error, or a panic, yields a failed record.
func (c *Collector) FetchRecord(ctx context.Context, symbol string) (rec *model.StockRecord) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] fetch %s panicked: %v", symbol, r)
			rec = model.FailedRecord(symbol, fmt.Sprintf("unexpected provider failure: %v", r))
		}
	}()

	if symbol == "" {
		return model.FailedRecord(symbol, "empty symbol")
	}
	raw, err := c.Fetcher.Fetch(ctx, symbol)
	if err != nil {
		log.Printf("[ERROR] fetch %s from %s: %v", symbol, c.Fetcher.Name(), err)
		return model.FailedRecord(symbol, err.Error())
	}
	rec, err = normalizer.Normalize(symbol, raw, c.now())
	if err != nil {
		log.Printf("[ERROR] normalize %s: %v", symbol, err)
		return model.FailedRecord(symbol, err.Error())
	}
	log.Printf("[INFO] %s: %d bars, %d news articles", symbol, len(rec.History), len(rec.News))
	return rec
}

// Collect fetches symbols sequentially in input order. One failure does not stop the rest.
func (c *Collector) Collect(ctx context.Context, symbols []string) *model.ComparisonSet {
	set := model.NewComparisonSet()
	for _, s := range symbols {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if _, seen := set.Get(s); seen {
			continue
		}
		set.Add(c.FetchRecord(ctx, s))
	}
	return set
}

func (c *Collector) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// ParseSymbols splits free-text input on whitespace and commas into upper-cased symbols.
func ParseSymbols(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.ToUpper(strings.TrimSpace(f)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
