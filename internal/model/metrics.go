package model

import "math"

// Metric names a company metric shown in the key-metrics table.
type Metric string

const (
	MetricCurrentPrice  Metric = "Current Price"
	MetricMarketCap     Metric = "Market Cap"
	MetricPERatio       Metric = "PE Ratio"
	Metric52WeekHigh    Metric = "52-Week High"
	Metric52WeekLow     Metric = "52-Week Low"
	MetricVolume        Metric = "Volume"
	MetricAverageVolume Metric = "Average Volume"
	MetricDividendYield Metric = "Dividend Yield"
)

// MetricNames is the fixed display order of all metrics.
var MetricNames = []Metric{
	MetricCurrentPrice,
	MetricMarketCap,
	MetricPERatio,
	Metric52WeekHigh,
	Metric52WeekLow,
	MetricVolume,
	MetricAverageVolume,
	MetricDividendYield,
}

// MetricValue is an optional number. Valid is false when the provider had no usable value.
type MetricValue struct {
	Value float64
	Valid bool
}

// Available wraps v. NaN and infinities are treated as unavailable.
func Available(v float64) MetricValue {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return MetricValue{}
	}
	return MetricValue{Value: v, Valid: true}
}

// Unavailable returns the explicit "no value" marker.
func Unavailable() MetricValue { return MetricValue{} }

// Metrics maps every Metric to its value. Keys are always present.
type Metrics map[Metric]MetricValue

// NewMetrics returns a Metrics with every key set to Unavailable.
func NewMetrics() Metrics {
	m := make(Metrics, len(MetricNames))
	for _, name := range MetricNames {
		m[name] = Unavailable()
	}
	return m
}

// Get returns the value for name, Unavailable if the key is missing.
func (m Metrics) Get(name Metric) MetricValue {
	if m == nil {
		return Unavailable()
	}
	return m[name]
}
