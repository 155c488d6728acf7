package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TickerLens/internal/model"
)

func record(symbol string, price float64, closes ...float64) *model.StockRecord {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	m := model.NewMetrics()
	m[model.MetricCurrentPrice] = model.Available(price)
	rec := &model.StockRecord{Symbol: symbol, Metrics: m, Success: true}
	for i, c := range closes {
		rec.History = append(rec.History, model.OHLCV{Time: start.AddDate(0, 0, i), Close: c})
	}
	return rec
}

func TestNormalizedSeries_FlatAndDoubling(t *testing.T) {
	set := model.NewComparisonSet()
	set.Add(record("FLAT", 10, 10, 10, 10))
	set.Add(record("DBL", 40, 20, 30, 40))

	series := NormalizedSeries(set)
	require.Len(t, series, 2)
	require.Equal(t, "FLAT", series[0].Symbol)
	for _, p := range series[0].Points {
		require.Equal(t, 0.0, p.Percent)
	}
	require.Equal(t, "DBL", series[1].Symbol)
	require.InDelta(t, 100.0, series[1].Final(), 1e-9)
	require.InDelta(t, 50.0, series[1].Points[1].Percent, 1e-9)
}

func TestCompare_OneFailureAmongThree(t *testing.T) {
	set := model.NewComparisonSet()
	set.Add(record("MSFT", 430, 400, 440))
	set.Add(model.FailedRecord("ZZZZ", "No data found"))
	set.Add(record("AAPL", 225, 200, 180))

	cmp := Compare(set)
	require.Equal(t, []string{"MSFT", "AAPL"}, cmp.Table.Columns)
	require.Len(t, cmp.Table.Rows, len(model.MetricNames))
	for i, row := range cmp.Table.Rows {
		require.Equal(t, model.MetricNames[i], row.Metric)
		require.Len(t, row.Values, 2)
	}
	require.Equal(t, 430.0, cmp.Table.Rows[0].Values[0].Value)
	require.Equal(t, 225.0, cmp.Table.Rows[0].Values[1].Value)

	require.Len(t, cmp.Series, 2)
	require.InDelta(t, 10.0, cmp.Series[0].Final(), 1e-9)
	require.InDelta(t, -10.0, cmp.Series[1].Final(), 1e-9)

	require.Equal(t, []Failure{{Symbol: "ZZZZ", Error: "No data found"}}, cmp.Failures)
}

func TestCompare_EmptyHistoryStaysInTable(t *testing.T) {
	set := model.NewComparisonSet()
	empty := &model.StockRecord{Symbol: "NEW", Metrics: model.NewMetrics(), Success: true}
	set.Add(empty)
	set.Add(record("OLD", 5, 1, 2))

	cmp := Compare(set)
	require.Equal(t, []string{"NEW", "OLD"}, cmp.Table.Columns)
	require.Len(t, cmp.Series, 1)
	require.Equal(t, "OLD", cmp.Series[0].Symbol)

	col := cmp.Table.Column("NEW")
	require.Len(t, col, len(model.MetricNames))
	for _, v := range col {
		require.False(t, v.Valid)
	}
	require.Nil(t, cmp.Table.Column("MISSING"))
	require.Empty(t, cmp.Failures)
}

func TestBuildMetricsTable_NilMetricsAreUnavailable(t *testing.T) {
	set := model.NewComparisonSet()
	set.Add(&model.StockRecord{Symbol: "X", Success: true})
	table := BuildMetricsTable(set)
	for _, row := range table.Rows {
		require.False(t, row.Values[0].Valid)
	}
}
