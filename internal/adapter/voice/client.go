// Package voice provides the audio-synthesis collaborator client.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AudioResult is a synthesized narration.
type AudioResult struct {
	Data      []byte
	SizeBytes int
}

// Synthesizer defines the audio-synthesis operations the pipeline needs.
type Synthesizer interface {
	// Synthesize renders text to an audio buffer. outputName is the
	// service-side name for the clip.
	Synthesize(ctx context.Context, text, outputName string) (*AudioResult, error)

	// Ping checks that the service answers.
	Ping(ctx context.Context) error
}

// Client is the HTTP text-to-speech client.
type Client struct {
	baseURL    string
	apiKey     string
	voiceID    string
	httpClient *http.Client
}

// voiceSettings tunes the synthesized delivery. Values follow the
// presenter's configured expressive profile.
type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"use_speaker_boost"`
}

// NewClient creates a text-to-speech client with a call-level timeout.
func NewClient(baseURL, apiKey, voiceID string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		voiceID: voiceID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Synthesizer = (*Client)(nil)

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	OutputName    string        `json:"output_name"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize calls the remote TTS endpoint and returns the raw audio bytes.
func (c *Client) Synthesize(ctx context.Context, text, outputName string) (*AudioResult, error) {
	payload := synthesizeRequest{
		Text:       text,
		ModelID:    "multilingual_v2",
		OutputName: outputName,
		VoiceSettings: voiceSettings{
			Stability:       0.45,
			SimilarityBoost: 0.95,
			Style:           1.0,
			SpeakerBoost:    true,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("voice service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voice service returned %d: %s", resp.StatusCode, string(data))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	return &AudioResult{Data: data, SizeBytes: len(data)}, nil
}

// Ping verifies the API key against the account endpoint.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/user", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("voice service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("voice service health returned %d", resp.StatusCode)
	}
	return nil
}
