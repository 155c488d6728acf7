package calculator

import "TickerLens/internal/model"

// PriceChangePercent returns the percent move from the first to the last close.
// An empty window, a single bar or a zero starting close yields 0.
func PriceChangePercent(bars []model.OHLCV) float64 {
	if len(bars) < 2 {
		return 0
	}
	first := bars[0].Close
	if first == 0 {
		return 0
	}
	return (bars[len(bars)-1].Close - first) / first * 100
}

// RebasedPoint is one close re-expressed as percent change from the first close.
type RebasedPoint struct {
	Bar     model.OHLCV
	Percent float64
}

// Rebase re-expresses every close as (close[t]-close[0])/close[0]*100.
// It returns nil when bars is empty or the first close is 0.
func Rebase(bars []model.OHLCV) []RebasedPoint {
	if len(bars) == 0 || bars[0].Close == 0 {
		return nil
	}
	base := bars[0].Close
	out := make([]RebasedPoint, len(bars))
	for i, b := range bars {
		out[i] = RebasedPoint{Bar: b, Percent: (b.Close - base) / base * 100}
	}
	return out
}
