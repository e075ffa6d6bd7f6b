package render

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelcast/orchestrator/internal/domain"
)

func TestCreateAssetSendsBase64Payload(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/assets", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "asset-42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	id, err := c.CreateAsset(context.Background(), "presenter-3.png", domain.AssetKindImage, []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "asset-42", id)
	assert.Equal(t, "presenter-3.png", received["name"])
	assert.Equal(t, "image", received["type"])
	decoded, err := base64.StdEncoding.DecodeString(received["data"])
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), decoded)
}

func TestCreateAssetRejectsEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": ""})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	_, err := c.CreateAsset(context.Background(), "a.png", domain.AssetKindImage, nil)
	assert.Error(t, err)
}

func TestUploadAssetSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/assets/asset-42/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "clip.mp3", header.Filename)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	err := c.UploadAsset(context.Background(), "asset-42", "clip.mp3", domain.AssetKindAudio, []byte("mp3"))
	assert.NoError(t, err)
}

func TestSubmitJobShapesRequest(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"asset_id": "job-7"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	jobID, err := c.SubmitJob(context.Background(), JobRequest{
		ImageAssetID: "asset-img",
		AudioAssetID: "asset-aud",
		DurationMS:   20000,
		AspectRatio:  "9:16",
		Resolution:   "720p",
		Prompt:       "news presenter",
	})
	require.NoError(t, err)

	assert.Equal(t, "job-7", jobID)
	assert.Equal(t, "asset-img", received["start_keyframe_id"])
	assert.Equal(t, "asset-aud", received["audio_id"])
	inputs := received["generated_video_inputs"].(map[string]interface{})
	assert.Equal(t, "9:16", inputs["aspect_ratio"])
	assert.Equal(t, "720p", inputs["resolution"])
	assert.Equal(t, float64(20000), inputs["duration_ms"])
}

func TestJobStatusMapping(t *testing.T) {
	cases := []struct {
		remote string
		want   domain.JobStatus
	}{
		{"completed", domain.JobStatusReady},
		{"failed", domain.JobStatusFailed},
		{"error", domain.JobStatusFailed},
		{"processing", domain.JobStatusProcessing},
		{"queued", domain.JobStatusProcessing},
		{"pending", domain.JobStatusProcessing},
		{"archived", domain.JobStatusUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.remote, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "video", r.URL.Query().Get("type"))
				assert.Equal(t, "job-7", r.URL.Query().Get("ids"))
				json.NewEncoder(w).Encode([]map[string]interface{}{
					{"status": tc.remote, "asset": map[string]string{"url": "https://cdn/clip.mp4"}},
				})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret", time.Second)
			state, err := c.JobStatus(context.Background(), "job-7")
			require.NoError(t, err)
			assert.Equal(t, tc.want, state.Status)
			assert.Equal(t, "https://cdn/clip.mp4", state.ResultURL)
		})
	}
}

func TestJobStatusEmptyListingIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	state, err := c.JobStatus(context.Background(), "job-7")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusUnknown, state.Status)
	assert.Empty(t, state.ResultURL)
}

func TestDownloadReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp4-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	data, err := c.Download(context.Background(), srv.URL+"/artifact.mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4-bytes"), data)
}

func TestDownloadNon200Fails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	_, err := c.Download(context.Background(), srv.URL+"/artifact.mp4")
	assert.Error(t, err)
}
