package notifier

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/tabwriter"
	"time"

	"TickerLens/internal/aggregate"
	"TickerLens/internal/calculator"
	"TickerLens/internal/format"
	"TickerLens/internal/insight"
	"TickerLens/internal/model"
	"TickerLens/internal/session"
)

// MaxNewsItems is how many headlines a record card shows.
const MaxNewsItems = 5

// FormatRecord renders one symbol as a card: change, metrics and the latest headlines.
func FormatRecord(rec *model.StockRecord) string {
	if !rec.Success {
		return FormatFailure(rec.Symbol, rec.Error)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> %s (1Y)\n\n", changeIcon(rec.PriceChange), esc(rec.Symbol), format.Percent(rec.PriceChange)))
	b.WriteString(metricsBlock(rec))
	if len(rec.News) > 0 {
		b.WriteString("\n")
		b.WriteString(newsBlock(rec.News, MaxNewsItems))
	}
	return b.String()
}

// FormatNews renders up to limit headlines for rec.
func FormatNews(rec *model.StockRecord, limit int) string {
	if !rec.Success {
		return FormatFailure(rec.Symbol, rec.Error)
	}
	if len(rec.News) == 0 {
		return fmt.Sprintf("No recent news for <b>%s</b>.", esc(rec.Symbol))
	}
	return fmt.Sprintf("<b>%s</b>\n", esc(rec.Symbol)) + newsBlock(rec.News, limit)
}

// FormatFailure renders a fetch failure with the usual causes.
func FormatFailure(symbol, errMsg string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("❌ Could not fetch data for <b>%s</b>\n", esc(symbol)))
	if errMsg != "" {
		b.WriteString(fmt.Sprintf("<i>%s</i>\n", esc(errMsg)))
	}
	b.WriteString("\nCheck that the ticker is correct and listed, then try again.")
	return b.String()
}

// FormatComparison renders the metrics table, rebased changes and failures.
func FormatComparison(cmp aggregate.Comparison) string {
	var b strings.Builder
	if len(cmp.Table.Columns) > 0 {
		b.WriteString("📊 <b>Comparison</b>\n")
		b.WriteString(tableBlock(cmp.Table))
	}
	if len(cmp.Series) > 0 {
		b.WriteString("\n<b>1Y change (rebased)</b>\n")
		for _, s := range cmp.Series {
			b.WriteString(fmt.Sprintf("%s %s %s\n", changeIcon(s.Final()), esc(s.Symbol), format.Percent(s.Final())))
		}
	}
	if len(cmp.Failures) > 0 {
		b.WriteString("\n⚠️ <b>Failed</b>\n")
		for _, f := range cmp.Failures {
			b.WriteString(fmt.Sprintf("• %s: %s\n", esc(f.Symbol), esc(f.Error)))
		}
	}
	if b.Len() == 0 {
		return "No symbols to compare."
	}
	return b.String()
}

// FormatDigest renders the scheduled watchlist report, adding each symbol's
// position in its 52-week range plus RSI and moving-average deviation when the
// history is long enough.
func FormatDigest(set *model.ComparisonSet, cmp aggregate.Comparison, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗞 <b>TickerLens digest</b> | %s\n\n", now.Format("2006-01-02")))
	recs := set.Succeeded()
	if len(recs) > 0 {
		b.WriteString("<b>52-week position</b>\n")
		for _, rec := range recs {
			b.WriteString(rangeLine(rec))
		}
		b.WriteString("\n")
	}
	b.WriteString(FormatComparison(cmp))
	return b.String()
}

func rangeLine(rec *model.StockRecord) string {
	hi, lo, err := calculator.HighLow(rec.History, calculator.TradingDays52w)
	if err != nil {
		return fmt.Sprintf("• %s: no history\n", esc(rec.Symbol))
	}
	cur := rec.History[len(rec.History)-1].Close
	if v := rec.Metrics.Get(model.MetricCurrentPrice); v.Valid {
		cur = v.Value
	}
	pos, err := calculator.RangePosition(cur, hi, lo)
	if err != nil {
		return fmt.Sprintf("• %s: no range\n", esc(rec.Symbol))
	}
	line := fmt.Sprintf("• %s: %.0f%% (%s – %s)", esc(rec.Symbol), pos*100, format.LargeNumber(lo), format.LargeNumber(hi))
	if rsi, err := calculator.RSI(rec.History, calculator.RSIPeriod); err == nil {
		line += fmt.Sprintf(" | RSI%d %.0f", calculator.RSIPeriod, rsi)
	}
	if sma, err := calculator.SMA(rec.History, calculator.SMAPeriod); err == nil {
		line += fmt.Sprintf(" | SMA%d %s", calculator.SMAPeriod, format.Percent(calculator.Deviation(cur, sma)))
	}
	return line + "\n"
}

// FormatHistory renders a session's chat log, oldest first.
func FormatHistory(entries []session.Entry) string {
	if len(entries) == 0 {
		return "No questions asked yet. Try /ask AAPL | How did it do this year?"
	}
	var b strings.Builder
	b.WriteString("💬 <b>Chat history</b>\n")
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("\n<b>%d. %s</b>\n%s\n", i+1, esc(e.Question), esc(e.Answer)))
	}
	return b.String()
}

// FormatShareCard renders a share card with its links.
func FormatShareCard(card insight.ShareCard) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> %s\n\n", changeIcon(boolSign(card.Positive)), esc(card.Symbol), esc(card.Change)))
	b.WriteString(esc(card.Text))
	b.WriteString("\n\n")
	for _, l := range card.Links {
		b.WriteString(fmt.Sprintf("<a href=\"%s\">Share on %s</a>\n", html.EscapeString(l.URL), esc(l.Network)))
	}
	return b.String()
}

// HelpText lists the bot commands.
func HelpText() string {
	return strings.Join([]string{
		"<b>TickerLens</b> commands:",
		"/quote AAPL - metrics, 1Y change and news",
		"/compare AAPL MSFT GOOGL - side-by-side comparison",
		"/news AAPL - latest headlines",
		"/csv AAPL - 1Y daily history as CSV",
		"/share AAPL - shareable summary",
		"/ask AAPL MSFT | question - ask about the data",
		"/history - questions asked in this chat",
		"",
		"Sending plain symbols (e.g. <code>AAPL, MSFT</code>) compares them.",
	}, "\n")
}

func metricsBlock(rec *model.StockRecord) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, m := range model.MetricNames {
		fmt.Fprintf(w, "%s\t%s\n", m, format.Metric(m, rec.Metrics.Get(m)))
	}
	w.Flush()
	return "<pre>" + esc(buf.String()) + "</pre>\n"
}

func tableBlock(t aggregate.MetricsTable) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Metric\t%s\t\n", strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = format.Metric(row.Metric, v)
		}
		fmt.Fprintf(w, "%s\t%s\t\n", row.Metric, strings.Join(cells, "\t"))
	}
	w.Flush()
	return "<pre>" + esc(buf.String()) + "</pre>\n"
}

func newsBlock(items []model.NewsItem, limit int) string {
	var b strings.Builder
	b.WriteString("📰 <b>News</b>\n")
	for _, n := range insight.RecentNews(items, limit) {
		b.WriteString(fmt.Sprintf("• <a href=\"%s\">%s</a>\n  <i>%s · %s</i>\n",
			html.EscapeString(n.Link), esc(n.Title), esc(n.Publisher), format.Timestamp(n.PublishedAt)))
	}
	return b.String()
}

func changeIcon(change float64) string {
	if change < 0 {
		return "🔴"
	}
	return "🟢"
}

func boolSign(positive bool) float64 {
	if positive {
		return 1
	}
	return -1
}

func esc(s string) string { return html.EscapeString(s) }
