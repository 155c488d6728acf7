package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
)

// Normalize builds a successful StockRecord from raw. Any error means the whole
// fetch failed; callers must not use a partial record.
func Normalize(symbol string, raw *RawResponse, now time.Time) (*model.StockRecord, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("empty symbol")
	}
	if raw == nil {
		return nil, errors.New("empty provider response")
	}
	history, err := ExtractHistory(raw.History, now)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	news, err := NewsItems(raw.News)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	return &model.StockRecord{
		Symbol:      symbol,
		Metrics:     ExtractMetrics(raw.Info),
		History:     history,
		News:        news,
		PriceChange: calculator.PriceChangePercent(history),
		Location:    ExchangeLocation(raw.Info),
		Success:     true,
	}, nil
}
