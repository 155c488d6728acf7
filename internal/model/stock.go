package model

import (
	"strings"
	"time"
)

// StockRecord is the normalized result of fetching one symbol.
// A failed record carries only Symbol, Success=false and Error.
type StockRecord struct {
	Symbol      string
	Metrics     Metrics
	History     []OHLCV
	News        []NewsItem
	PriceChange float64        // percent, first to last close in History
	Location    *time.Location // listing exchange timezone; nil is UTC
	Success     bool
	Error       string
}

// FailedRecord builds the failure shape for symbol.
func FailedRecord(symbol, msg string) *StockRecord {
	return &StockRecord{Symbol: symbol, Success: false, Error: msg}
}

// ComparisonSet holds one record per symbol and remembers input order.
type ComparisonSet struct {
	symbols []string
	records map[string]*StockRecord
}

// NewComparisonSet creates an empty set.
func NewComparisonSet() *ComparisonSet {
	return &ComparisonSet{records: make(map[string]*StockRecord)}
}

// Add stores rec. A symbol already present keeps its first record.
func (c *ComparisonSet) Add(rec *StockRecord) {
	if rec == nil {
		return
	}
	if _, ok := c.records[rec.Symbol]; ok {
		return
	}
	c.symbols = append(c.symbols, rec.Symbol)
	c.records[rec.Symbol] = rec
}

// Get returns the record for symbol.
func (c *ComparisonSet) Get(symbol string) (*StockRecord, bool) {
	if rec, ok := c.records[symbol]; ok {
		return rec, true
	}
	rec, ok := c.records[strings.ToUpper(strings.TrimSpace(symbol))]
	return rec, ok
}

// Symbols returns symbols in input order.
func (c *ComparisonSet) Symbols() []string {
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Len returns the number of symbols in the set.
func (c *ComparisonSet) Len() int { return len(c.symbols) }

// Records returns all records in input order.
func (c *ComparisonSet) Records() []*StockRecord {
	out := make([]*StockRecord, 0, len(c.symbols))
	for _, s := range c.symbols {
		out = append(out, c.records[s])
	}
	return out
}

// Succeeded returns successful records in input order.
func (c *ComparisonSet) Succeeded() []*StockRecord {
	var out []*StockRecord
	for _, s := range c.symbols {
		if rec := c.records[s]; rec.Success {
			out = append(out, rec)
		}
	}
	return out
}

// Failed returns failed records in input order.
func (c *ComparisonSet) Failed() []*StockRecord {
	var out []*StockRecord
	for _, s := range c.symbols {
		if rec := c.records[s]; !rec.Success {
			out = append(out, rec)
		}
	}
	return out
}
