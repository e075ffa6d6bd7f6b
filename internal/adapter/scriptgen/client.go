package scriptgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reelcast/orchestrator/internal/domain"
)

// Client is the HTTP script-generation client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a script-generation client with a call-level timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Generator = (*Client)(nil)

type generateRequest struct {
	Topic    string           `json:"topic"`
	Context  []snippetPayload `json:"context"`
	MinWords int              `json:"min_words"`
	MaxWords int              `json:"max_words"`
}

type snippetPayload struct {
	Text       string `json:"text"`
	PostedAt   string `json:"posted_at"`
	VIPKeyword string `json:"vip_keyword,omitempty"`
}

type generateResponse struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// Generate calls the remote service with the topic and retrieved context.
func (c *Client) Generate(ctx context.Context, topic string, snippets []domain.Snippet) (*ScriptResult, error) {
	payload := generateRequest{
		Topic:    topic,
		MinWords: 75,
		MaxWords: 80,
	}
	for _, sn := range snippets {
		payload.Context = append(payload.Context, snippetPayload{
			Text:       sn.Text,
			PostedAt:   sn.PostedAt.Format(time.RFC3339),
			VIPKeyword: sn.VIPKeyword,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scripts/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("script service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("script service returned %d: %s", resp.StatusCode, string(data))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	text := strings.TrimSpace(out.Text)
	wordCount := out.WordCount
	if wordCount == 0 && text != "" {
		wordCount = len(strings.Fields(text))
	}
	return &ScriptResult{Text: text, WordCount: wordCount}, nil
}

// Ping checks the service health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("script service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("script service health returned %d", resp.StatusCode)
	}
	return nil
}
