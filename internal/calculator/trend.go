package calculator

import (
	"errors"

	"TickerLens/internal/model"
)

// Default lookbacks used by the digest.
const (
	RSIPeriod = 14
	SMAPeriod = 50
)

// ErrInsufficientHistory means there are fewer bars than the lookback needs.
var ErrInsufficientHistory = errors.New("not enough history")

// SMA averages the closes of the last period bars.
func SMA(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, ErrInsufficientHistory
	}
	sum := 0.0
	for _, b := range bars[len(bars)-period:] {
		sum += b.Close
	}
	return sum / float64(period), nil
}

// RSI is the Wilder-smoothed relative strength index of the closes, 0..100.
// It needs period+1 bars. A window with no losses is 100.
func RSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, ErrInsufficientHistory
	}

	var gain, loss float64
	for i := 1; i < len(bars); i++ {
		up, down := 0.0, 0.0
		if d := bars[i].Close - bars[i-1].Close; d > 0 {
			up = d
		} else {
			down = -d
		}
		if i <= period {
			// seed with a plain average
			gain += up / float64(period)
			loss += down / float64(period)
			continue
		}
		gain = (gain*float64(period-1) + up) / float64(period)
		loss = (loss*float64(period-1) + down) / float64(period)
	}

	if loss == 0 {
		return 100, nil
	}
	return 100 - 100/(1+gain/loss), nil
}

// Deviation is how far current sits above (positive) or below ref, in percent.
func Deviation(current, ref float64) float64 {
	if ref == 0 {
		return 0
	}
	return (current - ref) / ref * 100
}
