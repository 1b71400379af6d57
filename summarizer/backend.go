package summarizer

import (
	"errors"
	"fmt"
	"net/http"

	"newsdigest/config"
)

// ErrMissingAPIKey is returned by every call of a backend built without credentials
var ErrMissingAPIKey = errors.New("summarization API key is not set")

// NewBackend builds the backend selected by cfg.Provider. A nil client gets one with cfg.Timeout.
func NewBackend(cfg config.SummarizerConfig, client *http.Client) (Backend, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, client), nil
	case config.ProviderCohere:
		return NewCohere(cfg.APIKey, cfg.Model, client), nil
	default:
		return nil, fmt.Errorf("unknown summarization provider: %q (valid: openai, cohere)", cfg.Provider)
	}
}
