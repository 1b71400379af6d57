package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DateLayout is the format of NewsItem.Date.
const DateLayout = "2006-01-02 15:04"

// Entry is a single article reference pulled from a feed, prior to enrichment
type Entry struct {
	Title   string
	Link    string
	Summary string
	Content string
}

// RawText returns the entry body used for summarization, preferring the summary field
func (e Entry) RawText() string {
	if e.Summary != "" {
		return e.Summary
	}
	return e.Content
}

// NewsItem is the unit of persisted data. Link is the deduplication key.
type NewsItem struct {
	Title     string  `json:"title"`
	Link      string  `json:"link"`
	Image     string  `json:"image"`
	Summary   string  `json:"summary"`
	Date      string  `json:"date"`
	Timestamp float64 `json:"timestamp"`
}

// Archive is the persisted history, most recent first
type Archive []NewsItem

// Links returns the link of every item in archive order
func (a Archive) Links() []string {
	links := make([]string, 0, len(a))
	for _, item := range a {
		links = append(links, item.Link)
	}
	return links
}

// Stamp fills Date and Timestamp from the capture time t
func (n *NewsItem) Stamp(t time.Time) {
	n.Date = t.Local().Format(DateLayout)
	n.Timestamp = float64(t.UnixNano()) / float64(time.Second)
}

// GenerateID creates a short, stable ID from a link
func GenerateID(link string) string {
	hash := sha256.Sum256([]byte(link))
	return hex.EncodeToString(hash[:])[:16]
}
