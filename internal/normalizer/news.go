package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TickerLens/internal/model"
)

const (
	defaultPublisher = "Unknown"
	defaultLink      = "#"
)

// NewsPayload is one raw article in either known provider shape.
// Construct it with ParseNewsPayload; the rest of the system only sees model.NewsItem.
type NewsPayload interface {
	item() model.NewsItem
}

// FlatNewsPayload is the older shape with every field at the top level.
type FlatNewsPayload struct {
	Title               string  `json:"title"`
	Publisher           string  `json:"publisher"`
	Link                string  `json:"link"`
	ProviderPublishTime float64 `json:"providerPublishTime"`
	Summary             string  `json:"summary"`
}

func (p FlatNewsPayload) item() model.NewsItem {
	it := model.NewsItem{
		Title:     p.Title,
		Publisher: p.Publisher,
		Link:      p.Link,
		Summary:   p.Summary,
	}
	if p.ProviderPublishTime > 0 {
		it.PublishedAt = time.Unix(int64(p.ProviderPublishTime), 0).UTC()
	}
	return it
}

// NestedNewsPayload is the newer shape that wraps the article in a content object.
type NestedNewsPayload struct {
	Content struct {
		Title    string `json:"title"`
		Provider struct {
			DisplayName string `json:"displayName"`
		} `json:"provider"`
		CanonicalURL struct {
			URL string `json:"url"`
		} `json:"canonicalUrl"`
		PubDate string `json:"pubDate"`
		Summary string `json:"summary"`
	} `json:"content"`
}

func (p NestedNewsPayload) item() model.NewsItem {
	c := p.Content
	it := model.NewsItem{
		Title:     c.Title,
		Publisher: c.Provider.DisplayName,
		Link:      c.CanonicalURL.URL,
		Summary:   c.Summary,
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(c.PubDate)); err == nil {
		it.PublishedAt = t.UTC()
	}
	return it
}

// ParseNewsPayload decides which shape raw is and decodes it.
// An object with a "content" object is nested; any other object is flat.
func ParseNewsPayload(raw json.RawMessage) (NewsPayload, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedNews)
	}
	if content, ok := probe["content"]; ok && bytes.HasPrefix(bytes.TrimSpace(content), []byte("{")) {
		var p NestedNewsPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: nested: %v", ErrMalformedNews, err)
		}
		return p, nil
	}
	var p FlatNewsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: flat: %v", ErrMalformedNews, err)
	}
	return p, nil
}

// NormalizeNews converts a parsed payload into a NewsItem.
// ok is false when the title or summary is empty; such items are dropped, not reported.
func NormalizeNews(p NewsPayload) (model.NewsItem, bool) {
	it := p.item()
	it.Title = strings.TrimSpace(it.Title)
	it.Summary = strings.TrimSpace(it.Summary)
	if it.Title == "" || it.Summary == "" {
		return model.NewsItem{}, false
	}
	it.Publisher = strings.TrimSpace(it.Publisher)
	if it.Publisher == "" {
		it.Publisher = defaultPublisher
	}
	it.Link = strings.TrimSpace(it.Link)
	if it.Link == "" {
		it.Link = defaultLink
	}
	return it, true
}

// NewsItems parses and filters a provider news list, keeping provider order.
func NewsItems(raw []json.RawMessage) ([]model.NewsItem, error) {
	items := make([]model.NewsItem, 0, len(raw))
	for i, r := range raw {
		p, err := ParseNewsPayload(r)
		if err != nil {
			return nil, fmt.Errorf("article %d: %w", i, err)
		}
		if it, ok := NormalizeNews(p); ok {
			items = append(items, it)
		}
	}
	return items, nil
}
