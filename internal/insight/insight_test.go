package insight_test

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"TickerLens/internal/insight"
	"TickerLens/internal/model"
)

func sampleRecord(symbol string) *model.StockRecord {
	m := model.NewMetrics()
	m[model.MetricCurrentPrice] = model.Available(227.5)
	m[model.MetricMarketCap] = model.Available(3.4e12)
	m[model.MetricVolume] = model.Available(48e6)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &model.StockRecord{
		Symbol:      symbol,
		Metrics:     m,
		PriceChange: 12.5,
		Success:     true,
		News: []model.NewsItem{
			{Title: "Oldest", Publisher: "A", PublishedAt: base},
			{Title: "Undated", Publisher: "B"},
			{Title: "Newest", Publisher: "C", PublishedAt: base.Add(72 * time.Hour)},
			{Title: "Middle", Publisher: "D", PublishedAt: base.Add(24 * time.Hour)},
		},
	}
}

func TestBuildContext_Fields(t *testing.T) {
	t.Parallel()

	text := insight.BuildContext(sampleRecord("AAPL"))
	require.Contains(t, text, "Symbol: AAPL")
	require.Contains(t, text, "Price change (1y): +12.50%")
	require.Contains(t, text, "Current price: $227.50")
	require.Contains(t, text, "Market cap: $3400.00B")
	require.Contains(t, text, "PE ratio: N/A")
	require.Contains(t, text, "Volume: $48.00M")

	require.Contains(t, text, "- Newest")
	require.Contains(t, text, "- Middle")
	require.Contains(t, text, "- Oldest")
	require.NotContains(t, text, "Undated")
	require.Less(t, strings.Index(text, "Newest"), strings.Index(text, "Middle"))
}

func TestBuildComparisonContext_SkipsFailures(t *testing.T) {
	t.Parallel()

	set := model.NewComparisonSet()
	set.Add(sampleRecord("AAPL"))
	set.Add(model.FailedRecord("ZZZZ", "not found"))
	set.Add(sampleRecord("MSFT"))

	text := insight.BuildComparisonContext(set)
	require.Contains(t, text, "Symbol: AAPL")
	require.Contains(t, text, "Symbol: MSFT")
	require.NotContains(t, text, "ZZZZ")
	require.Less(t, strings.Index(text, "AAPL"), strings.Index(text, "MSFT"))
}

func TestBuildComparisonContext_Bounded(t *testing.T) {
	t.Parallel()

	set := model.NewComparisonSet()
	for i := 0; i < 100; i++ {
		set.Add(sampleRecord(fmt.Sprintf("S%03d", i)))
	}
	text := insight.BuildComparisonContext(set)
	require.Equal(t, insight.MaxContextLength, len([]rune(text)))
	require.True(t, strings.HasSuffix(text, "[truncated]"))
}

func TestRecentNews(t *testing.T) {
	t.Parallel()

	got := insight.RecentNews(sampleRecord("X").News, 10)
	titles := make([]string, len(got))
	for i, n := range got {
		titles[i] = n.Title
	}
	require.Equal(t, []string{"Newest", "Middle", "Oldest", "Undated"}, titles)
}

func TestAsk_PassesContextUnmodified(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	a := NewMockAnswerer(ctrl)
	a.EXPECT().Answer(gomock.Any(), "ctx text", "Is it up?").Return("Yes, +12.5%.", nil)

	got, err := insight.Ask(t.Context(), a, "ctx text", "  Is it up? ")
	require.NoError(t, err)
	require.Equal(t, "Yes, +12.5%.", got)
}

func TestAsk_FailureKinds(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	a := NewMockAnswerer(ctrl)
	a.EXPECT().Answer(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("503 unavailable"))

	_, err := insight.Ask(t.Context(), a, "ctx", "why?")
	require.ErrorIs(t, err, insight.ErrGeneration)
	require.Contains(t, insight.FailureMessage(err), "Error generating insight")
	require.Contains(t, insight.FailureMessage(err), "503 unavailable")

	_, err = insight.Ask(t.Context(), insight.Unconfigured{}, "ctx", "why?")
	require.ErrorIs(t, err, insight.ErrMissingCredential)
	require.NotErrorIs(t, err, insight.ErrGeneration)
	require.Contains(t, insight.FailureMessage(err), "GEMINI_API_KEY")

	_, err = insight.Ask(t.Context(), nil, "ctx", "why?")
	require.ErrorIs(t, err, insight.ErrMissingCredential)

	_, err = insight.Ask(t.Context(), insight.Unconfigured{}, "ctx", "   ")
	require.ErrorIs(t, err, insight.ErrEmptyQuestion)

	require.Empty(t, insight.FailureMessage(nil))
}

func TestNewGeminiAnswerer_MissingKey(t *testing.T) {
	t.Parallel()

	_, err := insight.NewGeminiAnswerer(t.Context(), " ", "", 0)
	require.ErrorIs(t, err, insight.ErrMissingCredential)
}

func TestNewShareCard(t *testing.T) {
	t.Parallel()

	card := insight.NewShareCard(sampleRecord("AAPL"))
	require.Equal(t, "+12.50%", card.Change)
	require.True(t, card.Positive)
	require.Contains(t, card.Text, "$AAPL")
	require.Contains(t, card.Text, "Price: $227.50")
	require.Len(t, card.Links, 3)

	u, err := url.Parse(card.Links[0].URL)
	require.NoError(t, err)
	require.Equal(t, card.Text, u.Query().Get("text"))
}
