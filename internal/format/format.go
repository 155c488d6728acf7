// Package format renders metric values and timestamps for display.
// Every function here is total: unrenderable input becomes NotAvailable.
package format

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"TickerLens/internal/model"
)

// NotAvailable is rendered for missing or unrenderable values.
const NotAvailable = "N/A"

const displayLayout = "2006-01-02 15:04"

var isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// LargeNumber renders v as a dollar amount scaled to B, M or K with two decimals.
func LargeNumber(v any) string {
	n, ok := toFloat(v)
	if !ok {
		return NotAvailable
	}
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", n/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("$%.2fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("$%.2fK", n/1_000)
	default:
		return fmt.Sprintf("$%.2f", n)
	}
}

// Timestamp renders epoch seconds, time.Time or a "YYYY-MM-DDTHH:MM:SSZ" string
// as "YYYY-MM-DD HH:MM". Epoch seconds and time.Time are shown in local time;
// ISO strings keep their own wall clock.
func Timestamp(v any) string {
	switch t := v.(type) {
	case string:
		if !isoPattern.MatchString(t) {
			return NotAvailable
		}
		parsed, err := time.Parse("2006-01-02T15:04:05Z", t)
		if err != nil {
			return NotAvailable
		}
		return parsed.Format(displayLayout)
	case time.Time:
		if t.IsZero() {
			return NotAvailable
		}
		return t.Local().Format(displayLayout)
	case *time.Time:
		if t == nil {
			return NotAvailable
		}
		return Timestamp(*t)
	}
	n, ok := toFloat(v)
	if !ok {
		return NotAvailable
	}
	sec, frac := math.Modf(n)
	return time.Unix(int64(sec), int64(frac*1e9)).Local().Format(displayLayout)
}

// Metric renders a metric value the way the metrics table shows it.
func Metric(name model.Metric, v model.MetricValue) string {
	if !v.Valid {
		return NotAvailable
	}
	switch name {
	case model.MetricPERatio, model.MetricDividendYield:
		return fmt.Sprintf("%.2f", v.Value)
	default:
		return LargeNumber(v)
	}
}

// Percent renders a signed percentage with two decimals.
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%+.2f%%", p)
}

func toFloat(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int8:
		n = float64(x)
	case int16:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint8:
		n = float64(x)
	case uint16:
		n = float64(x)
	case uint32:
		n = float64(x)
	case uint64:
		n = float64(x)
	case model.MetricValue:
		if !x.Valid {
			return 0, false
		}
		n = x.Value
	case *float64:
		if x == nil {
			return 0, false
		}
		n = *x
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
