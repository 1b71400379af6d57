package rssfeeds

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from an HTML fragment once. Character entities are decoded,
// so escaped markup comes back as literal text. Line breaks are kept; runs of spaces
// within a line and blank lines are collapsed.
func PlainText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if !strings.ContainsAny(raw, "<&") {
		return collapseSpace(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseSpace(raw)
	}
	doc.Find("script, style, noscript").Remove()
	return collapseSpace(doc.Text())
}

// Clip returns the first n characters (runes) of s
func Clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// RuneLen counts characters rather than bytes
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

func collapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
