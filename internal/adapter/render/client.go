package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/reelcast/orchestrator/internal/domain"
)

// Client is the HTTP rendering-service client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	// downloadClient gets a longer timeout: finished artifacts are tens of
	// megabytes.
	downloadClient *http.Client
}

// NewClient creates a rendering-service client with a call-level timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		downloadClient: &http.Client{
			Timeout: 2 * timeout,
		},
	}
}

var _ Renderer = (*Client)(nil)

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Api-Key", c.apiKey)
}

type createAssetRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

type createAssetResponse struct {
	ID string `json:"id"`
}

// CreateAsset registers the asset with its base64 payload.
func (c *Client) CreateAsset(ctx context.Context, name string, kind domain.AssetKind, data []byte) (string, error) {
	body, err := json.Marshal(createAssetRequest{
		Name: name,
		Type: string(kind),
		Data: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("create asset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("create asset returned %d: %s", resp.StatusCode, string(data))
	}

	var out createAssetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("create asset returned empty id")
	}
	return out.ID, nil
}

// UploadAsset sends the binary as a multipart file upload.
func (c *Client) UploadAsset(ctx context.Context, assetID, name string, kind domain.AssetKind, data []byte) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/assets/%s/upload", c.baseURL, assetID), &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("upload asset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload asset returned %d: %s", resp.StatusCode, string(data))
	}
	return nil
}

type submitJobRequest struct {
	Type            string     `json:"type"`
	StartKeyframeID string     `json:"start_keyframe_id"`
	AudioID         string     `json:"audio_id"`
	VideoInputs     jobsInputs `json:"generated_video_inputs"`
}

type jobsInputs struct {
	TextPrompt  string `json:"text_prompt"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspect_ratio"`
	DurationMS  int    `json:"duration_ms"`
}

type submitJobResponse struct {
	AssetID string `json:"asset_id"`
}

// SubmitJob submits a render job referencing both synchronized assets.
func (c *Client) SubmitJob(ctx context.Context, req JobRequest) (string, error) {
	body, err := json.Marshal(submitJobRequest{
		Type:            "video",
		StartKeyframeID: req.ImageAssetID,
		AudioID:         req.AudioAssetID,
		VideoInputs: jobsInputs{
			TextPrompt:  req.Prompt,
			Resolution:  req.Resolution,
			AspectRatio: req.AspectRatio,
			DurationMS:  req.DurationMS,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submit job request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("submit job returned %d: %s", resp.StatusCode, string(data))
	}

	var out submitJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.AssetID == "" {
		return "", fmt.Errorf("submit job returned empty id")
	}
	return out.AssetID, nil
}

type jobStatusEntry struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Asset  struct {
		URL string `json:"url"`
	} `json:"asset"`
}

// JobStatus fetches the job's current state. The service reports jobs
// through its asset listing endpoint.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*JobState, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/assets?type=video&ids=%s", c.baseURL, jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("job status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job status returned %d: %s", resp.StatusCode, string(data))
	}

	var entries []jobStatusEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(entries) == 0 {
		return &JobState{Status: domain.JobStatusUnknown}, nil
	}

	entry := entries[0]
	state := &JobState{ResultURL: entry.Asset.URL, Err: entry.Error}
	switch entry.Status {
	case "completed":
		state.Status = domain.JobStatusReady
	case "failed", "error":
		state.Status = domain.JobStatusFailed
	case "processing", "queued", "pending":
		state.Status = domain.JobStatusProcessing
	default:
		state.Status = domain.JobStatusUnknown
	}
	return state, nil
}

// Download fetches the finished artifact.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.downloadClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("artifact download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artifact download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}
	return data, nil
}

// Ping issues a minimal asset listing to verify connectivity and the key.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/assets?type=image&limit=1", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("render service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("render service health returned %d", resp.StatusCode)
	}
	return nil
}
