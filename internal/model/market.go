package model

import "time"

// OHLCV represents a single daily price bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// NewsItem is a normalized news article, independent of the provider's payload shape.
type NewsItem struct {
	Title       string
	Publisher   string
	Link        string
	PublishedAt time.Time // zero when the provider gave no usable timestamp
	Summary     string
}
