// Package insight turns normalized records into text for a question-answering
// service and talks to that service.
package insight

import (
	"fmt"
	"sort"
	"strings"

	"TickerLens/internal/format"
	"TickerLens/internal/model"
)

const (
	// MaxContextLength bounds every context block, in runes.
	MaxContextLength = 4000
	// MaxHeadlines is how many recent headlines go into a symbol block.
	MaxHeadlines = 3

	maxHeadlineLength = 160
	truncationMarker  = "\n[truncated]"
)

// BuildContext summarizes one record for the question-answering service.
// Failed records produce a one-line note instead of data.
func BuildContext(rec *model.StockRecord) string {
	if rec == nil {
		return ""
	}
	return bound(symbolBlock(rec))
}

// BuildComparisonContext concatenates the blocks of every successful record in set.
func BuildComparisonContext(set *model.ComparisonSet) string {
	var b strings.Builder
	for i, rec := range set.Succeeded() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(symbolBlock(rec))
	}
	return bound(b.String())
}

func symbolBlock(rec *model.StockRecord) string {
	if !rec.Success {
		return fmt.Sprintf("Symbol: %s\nData unavailable: %s\n", rec.Symbol, rec.Error)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\n", rec.Symbol)
	fmt.Fprintf(&b, "Price change (1y): %s\n", format.Percent(rec.PriceChange))
	fmt.Fprintf(&b, "Current price: %s\n", format.LargeNumber(rec.Metrics.Get(model.MetricCurrentPrice)))
	fmt.Fprintf(&b, "Market cap: %s\n", format.LargeNumber(rec.Metrics.Get(model.MetricMarketCap)))
	fmt.Fprintf(&b, "PE ratio: %s\n", format.Metric(model.MetricPERatio, rec.Metrics.Get(model.MetricPERatio)))
	fmt.Fprintf(&b, "Volume: %s\n", format.LargeNumber(rec.Metrics.Get(model.MetricVolume)))

	headlines := RecentNews(rec.News, MaxHeadlines)
	if len(headlines) > 0 {
		b.WriteString("Recent headlines:\n")
		for _, n := range headlines {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", clip(n.Title, maxHeadlineLength), n.Publisher, format.Timestamp(n.PublishedAt))
		}
	}
	return b.String()
}

// RecentNews returns up to limit items, newest first. Items without a timestamp sort last.
func RecentNews(items []model.NewsItem, limit int) []model.NewsItem {
	sorted := make([]model.NewsItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PublishedAt, sorted[j].PublishedAt
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func bound(s string) string {
	r := []rune(s)
	if len(r) <= MaxContextLength {
		return s
	}
	keep := MaxContextLength - len([]rune(truncationMarker))
	return string(r[:keep]) + truncationMarker
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
