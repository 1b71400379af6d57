package rssfeeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsdigest/logger"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const maxPageBytes = 5 << 20

var (
	errNoImage = errors.New("no og:image meta tag")
	errNotHTML = errors.New("response is not HTML")
)

// ImageResolver finds a representative image for an article. It never fails:
// implementations substitute a placeholder when nothing can be extracted.
type ImageResolver interface {
	Resolve(ctx context.Context, articleURL string) string
}

// ImageOptions configures an OGImageResolver
type ImageOptions struct {
	Timeout     time.Duration
	UserAgent   string
	Placeholder string
	// ReadabilityFallback lets go-readability pick a lead image when og:image is absent.
	ReadabilityFallback bool
}

// OGImageResolver reads the og:image meta tag of an article page
type OGImageResolver struct {
	client *http.Client
	opts   ImageOptions
	log    *logger.Logger
}

// NewOGImageResolver returns a resolver. A nil client gets one bounded by opts.Timeout.
func NewOGImageResolver(opts ImageOptions, client *http.Client, log *logger.Logger) *OGImageResolver {
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &OGImageResolver{client: client, opts: opts, log: log}
}

// Resolve returns the article's og:image URL, or the placeholder on any failure.
func (r *OGImageResolver) Resolve(ctx context.Context, articleURL string) string {
	image, err := r.lookup(ctx, articleURL)
	if err != nil {
		logger.FromContext(ctx, r.log).Warn("image extraction failed, using placeholder", "url", articleURL, "error", err)
		return r.opts.Placeholder
	}
	return image
}

func (r *OGImageResolver) lookup(ctx context.Context, articleURL string) (string, error) {
	if articleURL == "" {
		return "", errors.New("article URL is empty")
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", err
	}
	if r.opts.UserAgent != "" {
		req.Header.Set("User-Agent", r.opts.UserAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return "", errNotHTML
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}

	if image := OGImage(body); image != "" {
		return image, nil
	}

	if r.opts.ReadabilityFallback {
		pageURL, _ := url.Parse(articleURL)
		article, err := readability.FromReader(bytes.NewReader(body), pageURL)
		if err == nil && strings.TrimSpace(article.Image) != "" {
			return strings.TrimSpace(article.Image), nil
		}
	}
	return "", errNoImage
}

// OGImage returns the content of the first <meta property="og:image"> in page, or "".
func OGImage(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	content, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// isHTML treats a missing Content-Type as HTML.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
