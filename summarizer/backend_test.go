package summarizer

import (
	"testing"

	"newsdigest/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend(t *testing.T) {
	cfg := config.Default().Summarizer
	cfg.Model = "gpt-4o-mini"

	b, err := NewBackend(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, b)
	assert.Equal(t, "openai:gpt-4o-mini", b.Name())

	cfg.Provider = config.ProviderCohere
	cfg.Model = "command-r"
	b, err = NewBackend(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Cohere{}, b)

	cfg.Provider = "llama"
	_, err = NewBackend(cfg, nil)
	assert.Error(t, err)
}
