// Package exa calls the Exa search API (api.exa.ai) and adapts its
// responses to the ports.SearchProvider contract.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/microcosmos/internal/domain"
)

const defaultEndpoint = "https://api.exa.ai/search"

type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithHTTP overrides the endpoint and HTTP client, for tests and
// for callers that need a different timeout.
func NewClientWithHTTP(apiKey, endpoint string, client *http.Client) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{apiKey: apiKey, endpoint: endpoint, client: client}
}

// Search posts a query to Exa and returns at most limit results. An empty
// result list is a valid answer, not an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, errors.New("exa: API key is missing")
	}
	if limit <= 0 {
		limit = 5
	}

	body := map[string]any{
		"query":      query,
		"numResults": limit,
		"type":       "auto",
		"contents": map[string]any{
			"highlights": true,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa http %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title      string   `json:"title"`
			URL        string   `json:"url"`
			Highlights []string `json:"highlights"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: strings.Join(r.Highlights, " "),
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
