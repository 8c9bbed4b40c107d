// Package gemini adapts the Google Gemini API to the ports.Generator
// contract. One Client serves an entire credential pool; per-secret SDK
// clients are created lazily and cached for the lifetime of the process.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/bnema/microcosmos/internal/domain"
)

const DefaultModel = "gemini-1.5-flash"

type Client struct {
	model string

	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewClient(model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Client{
		model:   model,
		clients: make(map[string]*genai.Client),
	}
}

// Generate runs one prompt against the model using the given API key.
// Provider failures come back classified so the caller can decide whether
// the key or the call is at fault.
func (c *Client) Generate(ctx context.Context, secret, prompt string) (string, error) {
	client, err := c.clientFor(ctx, secret)
	if err != nil {
		return "", domain.WrapProviderError(err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", domain.WrapProviderError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty response", c.model)
	}
	return text, nil
}

func (c *Client) clientFor(ctx context.Context, secret string) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[secret]; ok {
		return client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  secret,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	c.clients[secret] = client
	return client, nil
}
