package normalizer

import (
	"fmt"
	"time"

	"TickerLens/internal/model"
)

// HistoryWindow is the trailing window kept by ExtractHistory.
const HistoryWindow = 365 * 24 * time.Hour

// ExtractHistory converts a columnar series into bars inside [now-HistoryWindow, now].
// Provider order is preserved. Rows without a close are skipped; every derived
// figure is computed from closes.
func ExtractHistory(raw RawHistory, now time.Time) ([]model.OHLCV, error) {
	n := len(raw.Timestamps)
	for name, col := range map[string][]*float64{
		"open": raw.Open, "high": raw.High, "low": raw.Low, "close": raw.Close,
	} {
		if len(col) != n {
			return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrMalformedHistory, name, len(col), n)
		}
	}
	if raw.Volume != nil && len(raw.Volume) != n {
		return nil, fmt.Errorf("%w: volume has %d rows, want %d", ErrMalformedHistory, len(raw.Volume), n)
	}

	start := now.Add(-HistoryWindow)
	bars := make([]model.OHLCV, 0, n)
	for i, ts := range raw.Timestamps {
		t := time.Unix(ts, 0).UTC()
		if t.Before(start) || t.After(now) {
			continue
		}
		if raw.Close[i] == nil {
			continue
		}
		bar := model.OHLCV{
			Time:  t,
			Open:  value(raw.Open[i]),
			High:  value(raw.High[i]),
			Low:   value(raw.Low[i]),
			Close: value(raw.Close[i]),
		}
		if raw.Volume != nil {
			bar.Volume = value(raw.Volume[i])
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
