// Package normalizer maps raw, loosely structured provider payloads onto model.StockRecord.
package normalizer

import (
	"encoding/json"
	"errors"
)

var (
	// ErrMalformedHistory is returned when history columns disagree in length.
	ErrMalformedHistory = errors.New("malformed price history")
	// ErrMalformedNews is returned when a news payload matches neither known shape.
	ErrMalformedNews = errors.New("malformed news payload")
)

// RawHistory is a columnar daily series as providers return it.
// Price and volume cells are nil where the provider had no value.
type RawHistory struct {
	Timestamps []int64    `json:"timestamp"`
	Open       []*float64 `json:"open"`
	High       []*float64 `json:"high"`
	Low        []*float64 `json:"low"`
	Close      []*float64 `json:"close"`
	Volume     []*float64 `json:"volume"`
}

// RawResponse is everything a provider returned for one symbol, still uninterpreted.
type RawResponse struct {
	History RawHistory        `json:"history"`
	Info    map[string]any    `json:"info"`
	News    []json.RawMessage `json:"news"`
}
