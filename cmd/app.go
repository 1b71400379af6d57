package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"newsdigest/config"
	"newsdigest/logger"
	"newsdigest/notify"
	"newsdigest/orchestrator"
	"newsdigest/rssfeeds"
	"newsdigest/storage"
	"newsdigest/summarizer"
)

// app holds the wired collaborators for one process
type app struct {
	store    storage.ArchiveStore
	notifier notify.Notifier
	pipeline *orchestrator.Pipeline
	log      *logger.Logger
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	store, err := storage.New(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("initializing %s store: %w", cfg.Store.Backend, err)
	}

	backend, err := summarizer.NewBackend(cfg.Summarizer, nil)
	if err != nil {
		closeQuietly(store)
		return nil, err
	}
	if cfg.Summarizer.APIKey == "" {
		log.Warn("no summarization API key configured, summaries will fall back to excerpts", "provider", cfg.Summarizer.Provider)
	}

	notifier, err := notify.New(cfg.Kafka, log)
	if err != nil {
		log.Warn("kafka notifications disabled", "brokers", cfg.Kafka.Brokers, "error", err)
		notifier = notify.NopNotifier{}
	}

	deps := orchestrator.Deps{
		Store:  store,
		Reader: rssfeeds.NewReader(cfg.EntriesPerFeed, &http.Client{Timeout: cfg.FeedTimeout}),
		Images: rssfeeds.NewOGImageResolver(rssfeeds.ImageOptions{
			Timeout:             cfg.Image.Timeout,
			UserAgent:           cfg.Image.UserAgent,
			Placeholder:         cfg.Image.Placeholder,
			ReadabilityFallback: cfg.Image.ReadabilityFallback,
		}, nil, log),
		Summarizer: summarizer.New(backend, summarizer.Options{
			MaxTokens: cfg.Summarizer.MaxTokens,
			Timeout:   cfg.Summarizer.Timeout,
			Language:  cfg.Summarizer.Language,
		}, log),
		Notifier: notifier,
		Logger:   log,
	}

	return &app{
		store:    store,
		notifier: notifier,
		pipeline: orchestrator.FromConfig(cfg, deps),
		log:      log,
	}, nil
}

func (a *app) Close() {
	if err := a.notifier.Close(); err != nil {
		a.log.Warn("closing notifier", "error", err)
	}
	closeQuietly(a.store)
}

// closeQuietly closes stores that hold connections
func closeQuietly(store storage.ArchiveStore) {
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
}
