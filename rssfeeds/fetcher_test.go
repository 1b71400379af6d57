package rssfeeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newsdigest/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssDoc(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"` +
		` xmlns:content="http://purl.org/rss/1.0/modules/content/"><channel><title>T</title>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<item><title> Story %d </title><link>https://example.com/%d</link>`+
			`<description><![CDATA[<p>Summary %d</p>]]></description>`+
			`<content:encoded><![CDATA[<p>Body %d</p>]]></content:encoded></item>`, i, i, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReaderFetchBoundsEntries(t *testing.T) {
	srv := serve(t, rssDoc(5))

	entries, err := NewReader(3, srv.Client()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("Story %d", i+1), e.Title)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i+1), e.Link)
		assert.Contains(t, e.Summary, fmt.Sprintf("Summary %d", i+1))
		assert.Contains(t, e.Content, fmt.Sprintf("Body %d", i+1))
	}
}

func TestReaderFetchFewerThanLimit(t *testing.T) {
	srv := serve(t, rssDoc(2))

	entries, err := NewReader(3, nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReaderAtomContentWithoutSummary(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>A</title>
<entry><title>Only content</title><link href="https://example.com/a"/><id>a</id>
<content type="html">&lt;p&gt;Full body&lt;/p&gt;</content></entry></feed>`

	srv := serve(t, atom)

	entries, err := NewReader(3, nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com/a", entries[0].Link)
	assert.Empty(t, entries[0].Summary)
	assert.Contains(t, entries[0].RawText(), "Full body")
}

func TestReaderFetchFailures(t *testing.T) {
	malformed := serve(t, "this is not a feed")
	_, err := NewReader(3, nil).Fetch(context.Background(), malformed.URL)
	assert.Error(t, err)

	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()
	_, err = NewReader(3, nil).Fetch(context.Background(), url)
	assert.Error(t, err)
}

func TestReaderFetchHangingFeedTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	start := time.Now()
	_, err := NewReader(3, &http.Client{Timeout: 100 * time.Millisecond}).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewReaderDefaultClientHasTimeout(t *testing.T) {
	r := NewReader(3, nil)
	require.NotNil(t, r.parser.Client)
	assert.Equal(t, config.DefaultFeedTimeout, r.parser.Client.Timeout)
}
