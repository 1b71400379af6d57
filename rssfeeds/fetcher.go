package rssfeeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"newsdigest/config"
	"newsdigest/types"

	"github.com/mmcdole/gofeed"
)

// FeedReader retrieves a feed and returns its leading entries in feed-listed order
type FeedReader interface {
	Fetch(ctx context.Context, feedURL string) ([]types.Entry, error)
}

// Reader is the gofeed-backed FeedReader
type Reader struct {
	parser     *gofeed.Parser
	maxEntries int
}

// NewReader returns a Reader that keeps at most maxEntries per feed.
// A nil client gets one bounded by config.DefaultFeedTimeout; gofeed's own has no timeout.
func NewReader(maxEntries int, client *http.Client) *Reader {
	if client == nil {
		client = &http.Client{Timeout: config.DefaultFeedTimeout}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	return &Reader{parser: parser, maxEntries: maxEntries}
}

// Fetch retrieves and parses an RSS/Atom/JSON feed. Only the first maxEntries
// items are returned, in the order the feed lists them.
func (r *Reader) Fetch(ctx context.Context, feedURL string) ([]types.Entry, error) {
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}
	return entriesFromFeed(feed, r.maxEntries), nil
}

func entriesFromFeed(feed *gofeed.Feed, maxCount int) []types.Entry {
	count := len(feed.Items)
	if maxCount > 0 && maxCount < count {
		count = maxCount
	}

	entries := make([]types.Entry, 0, count)
	for _, item := range feed.Items[:count] {
		if item == nil {
			continue
		}
		// gofeed maps RSS <description> and Atom <summary> to Description,
		// and the first content:encoded / <content> block to Content.
		entries = append(entries, types.Entry{
			Title:   strings.TrimSpace(item.Title),
			Link:    strings.TrimSpace(item.Link),
			Summary: item.Description,
			Content: item.Content,
		})
	}
	return entries
}
