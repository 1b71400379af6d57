// Package orchestrator runs one ingestion pass: load the archive, poll every feed,
// enrich entries not seen before, merge them ahead of the archive and persist.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"newsdigest/config"
	"newsdigest/deduplication"
	"newsdigest/logger"
	"newsdigest/notify"
	"newsdigest/rssfeeds"
	"newsdigest/storage"
	"newsdigest/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TextSummarizer produces a summary from an entry's raw HTML or text body. It extracts
// the plain text itself and has no error return: implementations substitute their own fallback.
type TextSummarizer interface {
	Summarize(ctx context.Context, raw string) string
}

// Report describes the outcome of a single run
type Report struct {
	RunID       string `json:"run_id"`
	FeedsPolled int    `json:"feeds_polled"`
	FeedsFailed int    `json:"feeds_failed"`
	Candidates  int    `json:"candidates"`
	Duplicates  int    `json:"duplicates"`
	NewItems    int    `json:"new_items"`
	ArchiveSize int    `json:"archive_size"`
	Saved       bool   `json:"saved"`
}

// Deps are the collaborators a Pipeline drives
type Deps struct {
	Store      storage.ArchiveStore
	Reader     rssfeeds.FeedReader
	Images     rssfeeds.ImageResolver
	Summarizer TextSummarizer
	Notifier   notify.Notifier
	Logger     *logger.Logger
}

// Options tune a Pipeline. Zero values take the package defaults.
type Options struct {
	Feeds         []config.FeedConfig
	ArchiveLimit  int
	EnrichWorkers int
	// Now stamps enriched items; defaults to time.Now
	Now func() time.Time
}

// Pipeline is safe to reuse across runs but not to run concurrently against the same store.
type Pipeline struct {
	deps  Deps
	feeds []config.FeedConfig
	limit int
	// workers bounds concurrent enrichment; 1 keeps it sequential
	workers int
	now     func() time.Time
}

func New(deps Deps, opts Options) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NopNotifier{}
	}
	if opts.ArchiveLimit <= 0 {
		opts.ArchiveLimit = config.DefaultArchiveLimit
	}
	if opts.EnrichWorkers <= 0 {
		opts.EnrichWorkers = config.DefaultEnrichWorkers
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		deps:    deps,
		feeds:   opts.Feeds,
		limit:   opts.ArchiveLimit,
		workers: opts.EnrichWorkers,
		now:     opts.Now,
	}
}

// FromConfig wires a Pipeline from the loaded configuration
func FromConfig(cfg *config.Config, deps Deps) *Pipeline {
	return New(deps, Options{
		Feeds:         cfg.Feeds,
		ArchiveLimit:  cfg.ArchiveLimit,
		EnrichWorkers: cfg.EnrichWorkers,
	})
}

// Run executes one pass. Only Load and Save failures are returned; feed, image,
// summary and notification failures are logged and absorbed.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	log := p.deps.Logger.With("run_id", report.RunID)
	ctx = logger.NewContext(ctx, log)
	started := time.Now()

	archive, err := p.deps.Store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load archive: %w", err)
	}
	report.ArchiveSize = len(archive)
	log.Info("archive loaded", "items", len(archive))

	known := deduplication.FromArchive(archive)
	accepted := p.collect(ctx, log, known, &report)

	items := p.enrich(ctx, log, accepted)
	report.NewItems = len(items)
	if len(items) == 0 {
		log.Info("no new items, archive left untouched", "duration", time.Since(started))
		return report, nil
	}

	merged := Merge(items, archive, p.limit)
	if err := p.deps.Store.Save(ctx, merged); err != nil {
		return report, fmt.Errorf("failed to save archive: %w", err)
	}
	report.Saved = true
	report.ArchiveSize = len(merged)
	log.Info("archive updated", "new_items", len(items), "archive_size", len(merged), "duration", time.Since(started))

	if err := p.deps.Notifier.Publish(ctx, report.RunID, items); err != nil {
		log.Warn("failed to publish new items", "count", len(items), "error", err)
	}
	return report, nil
}

// collect polls feeds in configured order and returns the entries whose link is new,
// in discovery order. known is updated as entries are accepted.
func (p *Pipeline) collect(ctx context.Context, log *logger.Logger, known *deduplication.LinkSet, report *Report) []types.Entry {
	var accepted []types.Entry
	for _, feed := range p.feeds {
		report.FeedsPolled++

		entries, err := p.deps.Reader.Fetch(ctx, feed.URL)
		if err != nil {
			report.FeedsFailed++
			log.Warn("feed fetch failed, skipping", "feed", feed.Name, "url", feed.URL, "error", err)
			continue
		}
		log.Debug("feed fetched", "feed", feed.Name, "entries", len(entries))

		for _, entry := range entries {
			report.Candidates++
			if entry.Link == "" {
				log.Warn("entry has no link, skipping", "feed", feed.Name, "title", entry.Title)
				continue
			}
			if !known.Add(entry.Link) {
				report.Duplicates++
				continue
			}
			accepted = append(accepted, entry)
		}
	}
	return accepted
}

// enrich builds a NewsItem for every entry. Results keep the order of entries
// regardless of how many workers run.
func (p *Pipeline) enrich(ctx context.Context, log *logger.Logger, entries []types.Entry) []types.NewsItem {
	if len(entries) == 0 {
		return nil
	}

	items := make([]types.NewsItem, len(entries))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			items[i] = p.enrichOne(ctx, log, entry)
			return nil
		})
	}
	_ = g.Wait()
	return items
}

func (p *Pipeline) enrichOne(ctx context.Context, log *logger.Logger, entry types.Entry) types.NewsItem {
	title := entry.Title
	if title == "" {
		title = entry.Link
	}

	log.Debug("enriching entry", "title", title, "link", entry.Link)
	item := types.NewsItem{
		Title:   title,
		Link:    entry.Link,
		Image:   p.deps.Images.Resolve(ctx, entry.Link),
		Summary: p.deps.Summarizer.Summarize(ctx, entry.RawText()),
	}
	item.Stamp(p.now())
	return item
}

// Merge places newItems ahead of archive and keeps at most limit items, dropping
// the oldest from the tail. Neither input is modified. A non-positive limit keeps everything.
func Merge(newItems []types.NewsItem, archive types.Archive, limit int) types.Archive {
	merged := make(types.Archive, 0, len(newItems)+len(archive))
	merged = append(merged, newItems...)
	merged = append(merged, archive...)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
