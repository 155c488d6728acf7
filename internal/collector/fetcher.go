package collector

import (
	"context"

	"TickerLens/internal/normalizer"
)

//go:generate mockgen -package=collector_test -destination=mock_fetcher_test.go -source=fetcher.go Fetcher

// Fetcher retrieves the raw provider payload for one symbol.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (*normalizer.RawResponse, error)
	Name() string
}
