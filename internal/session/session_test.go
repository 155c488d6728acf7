package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TickerLens/internal/insight"
	"TickerLens/internal/model"
)

func testSet() *model.ComparisonSet {
	set := model.NewComparisonSet()
	m := model.NewMetrics()
	m[model.MetricCurrentPrice] = model.Available(100)
	set.Add(&model.StockRecord{Symbol: "AAPL", Metrics: m, Success: true, PriceChange: 5})
	return set
}

func logs(t *testing.T) map[string]Log {
	t.Helper()
	sq, err := NewSQLiteLog()
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]Log{"memory": NewMemoryLog(), "sqlite": sq}
}

func TestLog_AppendOnlyOrder(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	for name, l := range logs(t) {
		t.Run(name, func(t *testing.T) {
			entries, err := l.Entries(ctx)
			require.NoError(t, err)
			require.Empty(t, entries)

			require.NoError(t, l.Append(ctx, Entry{Question: "q1", Answer: "a1", AskedAt: at}))
			require.NoError(t, l.Append(ctx, Entry{Question: "q2", Answer: "a2", AskedAt: at.Add(time.Minute)}))

			entries, err = l.Entries(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			require.Equal(t, "q1", entries[0].Question)
			require.Equal(t, "a2", entries[1].Answer)
			require.True(t, entries[1].AskedAt.Equal(at.Add(time.Minute)))
		})
	}
}

func TestSQLiteLog_IsPrivatePerInstance(t *testing.T) {
	ctx := context.Background()
	a, err := NewSQLiteLog()
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSQLiteLog()
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Append(ctx, Entry{Question: "only in a", Answer: "x"}))
	entries, err := b.Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSession_AskRecordsSuccessOnly(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryLog())
	require.NotEmpty(t, s.ID)

	var gotContext string
	answerer := insight.AnswerFunc(func(_ context.Context, contextText, _ string) (string, error) {
		gotContext = contextText
		return "It rose 5%.", nil
	})
	reply, success := s.Ask(ctx, answerer, testSet(), " How did AAPL do? ")
	require.True(t, success)
	require.Equal(t, "It rose 5%.", reply)
	require.Contains(t, gotContext, "Symbol: AAPL")

	failing := insight.AnswerFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("timeout")
	})
	reply, success = s.Ask(ctx, failing, testSet(), "And MSFT?")
	require.False(t, success)
	require.Contains(t, reply, "Error generating insight")

	reply, success = s.Ask(ctx, insight.Unconfigured{}, testSet(), "Anything?")
	require.False(t, success)
	require.Contains(t, reply, "GEMINI_API_KEY")

	entries, err := s.History.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "How did AAPL do?", entries[0].Question)
}

func TestSession_AskWithoutData(t *testing.T) {
	s := New(NewMemoryLog())
	set := model.NewComparisonSet()
	set.Add(model.FailedRecord("BAD", "nope"))
	reply, ok := s.Ask(context.Background(), insight.Unconfigured{}, set, "why?")
	require.False(t, ok)
	require.Contains(t, reply, "No stock data")
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := NewManager(NewSQLiteLogFactory())
	defer m.Close()

	s1, err := m.Get(1)
	require.NoError(t, err)
	again, err := m.Get(1)
	require.NoError(t, err)
	require.Same(t, s1, again)

	s2, err := m.Get(2)
	require.NoError(t, err)
	require.NotEqual(t, s1.ID, s2.ID)

	require.NoError(t, s1.History.Append(context.Background(), Entry{Question: "q", Answer: "a"}))
	entries, err := s2.History.Entries(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestManager_FactoryError(t *testing.T) {
	m := NewManager(func() (Log, error) { return nil, errors.New("disk full") })
	_, err := m.Get(7)
	require.Error(t, err)
}
