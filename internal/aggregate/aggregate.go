// Package aggregate merges per-symbol records into cross-symbol comparison views.
// Ordering always follows input symbol order and model.MetricNames, never values.
package aggregate

import (
	"time"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
)

// Point is one rebased close.
type Point struct {
	Time    time.Time
	Percent float64
}

// Series is a symbol's closes rebased to percent change from its first close.
type Series struct {
	Symbol string
	Points []Point
}

// Final returns the last rebased value, 0 for an empty series.
func (s Series) Final() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Percent
}

// MetricsRow is one metric across all table columns.
type MetricsRow struct {
	Metric model.Metric
	Values []model.MetricValue // parallel to MetricsTable.Columns
}

// MetricsTable is a side-by-side view: one row per metric, one column per symbol.
type MetricsTable struct {
	Columns []string
	Rows    []MetricsRow
}

// Column returns the values for symbol in metric order, nil if symbol is not a column.
func (t MetricsTable) Column(symbol string) []model.MetricValue {
	idx := -1
	for i, c := range t.Columns {
		if c == symbol {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]model.MetricValue, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Values[idx]
	}
	return out
}

// Failure is a symbol whose fetch failed, surfaced apart from the comparison.
type Failure struct {
	Symbol string
	Error  string
}

// Comparison bundles everything a multi-symbol view needs.
type Comparison struct {
	Series   []Series
	Table    MetricsTable
	Failures []Failure
}

// NormalizedSeries rebases every successful symbol that has usable history.
// Symbols with empty history, or a zero first close, are left out.
func NormalizedSeries(set *model.ComparisonSet) []Series {
	var out []Series
	for _, rec := range set.Succeeded() {
		rebased := calculator.Rebase(rec.History)
		if len(rebased) == 0 {
			continue
		}
		s := Series{Symbol: rec.Symbol, Points: make([]Point, len(rebased))}
		for i, p := range rebased {
			s.Points[i] = Point{Time: p.Bar.Time, Percent: p.Percent}
		}
		out = append(out, s)
	}
	return out
}

// BuildMetricsTable lays the fixed metrics out against every successful symbol.
// Failed symbols get no column at all.
func BuildMetricsTable(set *model.ComparisonSet) MetricsTable {
	recs := set.Succeeded()
	t := MetricsTable{
		Columns: make([]string, len(recs)),
		Rows:    make([]MetricsRow, len(model.MetricNames)),
	}
	for i, rec := range recs {
		t.Columns[i] = rec.Symbol
	}
	for r, name := range model.MetricNames {
		row := MetricsRow{Metric: name, Values: make([]model.MetricValue, len(recs))}
		for c, rec := range recs {
			row.Values[c] = rec.Metrics.Get(name)
		}
		t.Rows[r] = row
	}
	return t
}

// Compare builds series, table and the list of failures for set.
func Compare(set *model.ComparisonSet) Comparison {
	cmp := Comparison{
		Series: NormalizedSeries(set),
		Table:  BuildMetricsTable(set),
	}
	for _, rec := range set.Failed() {
		cmp.Failures = append(cmp.Failures, Failure{Symbol: rec.Symbol, Error: rec.Error})
	}
	return cmp
}
