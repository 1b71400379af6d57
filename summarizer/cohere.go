package summarizer

import (
	"context"
	"fmt"
	"net/http"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// Cohere implements Backend using the Cohere Chat API
// SDK: github.com/cohere-ai/cohere-go/v2
type Cohere struct {
	client *cohereclient.Client
	model  string
	hasKey bool
}

func NewCohere(apiKey, model string, httpClient *http.Client) *Cohere {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &Cohere{client: client, model: model, hasKey: apiKey != ""}
}

func (c *Cohere) Name() string { return "cohere:" + c.model }

func (c *Cohere) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.hasKey {
		return "", ErrMissingAPIKey
	}

	req := &cohere.ChatRequest{
		Message: prompt,
		Model:   cohere.String(c.model),
	}
	if maxTokens > 0 {
		req.MaxTokens = cohere.Int(maxTokens)
	}

	resp, err := c.client.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyCompletion
	}
	return resp.Text, nil
}
