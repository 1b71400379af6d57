// Package storage persists the archive as a single JSON document on local disk, S3 or Redis.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"newsdigest/config"
	"newsdigest/types"
)

// ArchiveStore loads and saves the whole archive. Save replaces any prior content.
type ArchiveStore interface {
	Load(ctx context.Context) (types.Archive, error)
	Save(ctx context.Context, archive types.Archive) error
}

// New builds the store selected by cfg.Backend
func New(ctx context.Context, cfg config.StoreConfig) (ArchiveStore, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Path), nil
	case config.BackendS3:
		return NewS3Store(ctx, cfg.S3)
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}

// Encode renders the archive as indented JSON with non-ASCII and HTML characters kept verbatim
func Encode(archive types.Archive) ([]byte, error) {
	if archive == nil {
		archive = types.Archive{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return nil, fmt.Errorf("encoding archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a persisted document. Empty content is an empty archive.
func Decode(data []byte) (types.Archive, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return types.Archive{}, nil
	}

	var archive types.Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	if archive == nil {
		archive = types.Archive{}
	}
	return archive, nil
}
