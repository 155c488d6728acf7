package normalizer

import (
	"math"

	"TickerLens/internal/model"
)

// metricKeys lists the info keys tried for each metric, in order.
// The first set of names comes from the ticker info map, the second from the v7 quote API.
var metricKeys = map[model.Metric][]string{
	model.MetricCurrentPrice:  {"currentPrice", "regularMarketPrice"},
	model.MetricMarketCap:     {"marketCap"},
	model.MetricPERatio:       {"trailingPE"},
	model.Metric52WeekHigh:    {"fiftyTwoWeekHigh"},
	model.Metric52WeekLow:     {"fiftyTwoWeekLow"},
	model.MetricVolume:        {"volume", "regularMarketVolume"},
	model.MetricAverageVolume: {"averageVolume", "averageDailyVolume3Month"},
	model.MetricDividendYield: {"dividendYield", "trailingAnnualDividendYield"},
}

// ExtractMetrics reads the fixed metric set from a flat info map.
// Missing or non-numeric fields become model.Unavailable; nothing defaults to zero.
func ExtractMetrics(info map[string]any) model.Metrics {
	m := model.NewMetrics()
	for _, name := range model.MetricNames {
		for _, key := range metricKeys[name] {
			if v, ok := numeric(info[key]); ok {
				m[name] = model.Available(v)
				break
			}
		}
	}
	return m
}

func numeric(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case interface{ Float64() (float64, error) }: // json.Number
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
