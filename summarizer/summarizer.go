// Package summarizer turns article text into a short localized summary. Summarize never
// fails: when the text-generation backend is unavailable it falls back to a local excerpt.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdigest/logger"
	"newsdigest/rssfeeds"
)

const (
	// MinInputChars is the length below which text is returned unchanged
	MinInputChars = 50
	// MaxInputChars bounds the text submitted to the backend
	MaxInputChars = 2000
	// ExcerptChars is the length of the fallback excerpt, before the ellipsis
	ExcerptChars = 100
	Ellipsis     = "..."
)

const promptTemplate = "Summarize the following news article as a single concise paragraph in %s, " +
	"in a professional tone, in no more than 100 characters:\n\n%s"

// ErrEmptyCompletion is returned by backends that answer with no text
var ErrEmptyCompletion = errors.New("backend returned an empty completion")

// Backend generates text for a prompt
type Backend interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	Name() string
}

// Options tune a Summarizer
type Options struct {
	MaxTokens int
	Timeout   time.Duration
	Language  string
}

// Summarizer wraps a Backend with input bounding and the excerpt fallback
type Summarizer struct {
	backend Backend
	opts    Options
	log     *logger.Logger
}

func New(backend Backend, opts Options, log *logger.Logger) *Summarizer {
	if log == nil {
		log = logger.Discard()
	}
	if opts.Language == "" {
		opts.Language = "Simplified Chinese"
	}
	return &Summarizer{backend: backend, opts: opts, log: log}
}

// Summarize extracts plain text from raw (an HTML fragment or plain text) and returns
// a generated summary of it. Extracted text shorter than MinInputChars is returned
// as is; when generation fails the result is an excerpt of the extracted text.
func (s *Summarizer) Summarize(ctx context.Context, raw string) string {
	text := rssfeeds.PlainText(raw)
	if rssfeeds.RuneLen(text) < MinInputChars {
		return text
	}

	summary, err := s.generate(ctx, rssfeeds.Clip(text, MaxInputChars))
	if err != nil {
		logger.FromContext(ctx, s.log).Warn("summary generation failed, using excerpt",
			"backend", s.backendName(), "error", err)
		return Excerpt(text)
	}
	return summary
}

func (s *Summarizer) generate(ctx context.Context, text string) (string, error) {
	if s.backend == nil {
		return "", errors.New("no summarization backend configured")
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	out, err := s.backend.Complete(ctx, fmt.Sprintf(promptTemplate, s.opts.Language, text), s.opts.MaxTokens)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}

func (s *Summarizer) backendName() string {
	if s.backend == nil {
		return "none"
	}
	return s.backend.Name()
}

// Excerpt is the deterministic fallback: the first ExcerptChars characters plus an ellipsis
func Excerpt(text string) string {
	return rssfeeds.Clip(text, ExcerptChars) + Ellipsis
}
