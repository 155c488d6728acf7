package insight

import (
	"fmt"
	"net/url"

	"TickerLens/internal/format"
	"TickerLens/internal/model"
)

// ShareLink is a prefilled social share URL.
type ShareLink struct {
	Network string
	URL     string
}

// ShareCard is a short shareable summary of one record.
type ShareCard struct {
	Symbol   string
	Change   string
	Positive bool
	Text     string
	Links    []ShareLink
}

// NewShareCard builds the share text and links for rec.
func NewShareCard(rec *model.StockRecord) ShareCard {
	change := format.Percent(rec.PriceChange)
	text := fmt.Sprintf("📈 $%s Stock Update:\n• %s change\n• Price: %s\n• Market Cap: %s\n#stocks #investing #finance",
		rec.Symbol,
		change,
		format.LargeNumber(rec.Metrics.Get(model.MetricCurrentPrice)),
		format.LargeNumber(rec.Metrics.Get(model.MetricMarketCap)),
	)
	escaped := url.QueryEscape(text)
	return ShareCard{
		Symbol:   rec.Symbol,
		Change:   change,
		Positive: rec.PriceChange >= 0,
		Text:     text,
		Links: []ShareLink{
			{Network: "X", URL: "https://twitter.com/intent/tweet?text=" + escaped},
			{Network: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?quote=" + escaped},
			{Network: "LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?text=" + escaped},
		},
	}
}
