package calculator

import (
	"errors"
	"math"

	"TickerLens/internal/model"
)

// TradingDays52w is the number of daily bars in a 52-week lookback.
const TradingDays52w = 252

// HighLow scans the most recent lookback bars and returns the highest high and lowest low.
// A lookback <= 0 scans everything.
func HighLow(bars []model.OHLCV, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	start := 0
	if lookback > 0 && len(bars) > lookback {
		start = len(bars) - lookback
	}
	high, low = math.Inf(-1), math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}

// RangePosition returns where current sits between low and high, clamped to 0..1.
func RangePosition(current, high, low float64) (float64, error) {
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	if high == low {
		return 0.5, nil
	}
	return math.Min(1, math.Max(0, (current-low)/(high-low))), nil
}
