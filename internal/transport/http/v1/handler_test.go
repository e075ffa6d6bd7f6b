package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelcast/orchestrator/internal/adapter/render"
	"github.com/reelcast/orchestrator/internal/adapter/scriptgen"
	"github.com/reelcast/orchestrator/internal/adapter/search"
	"github.com/reelcast/orchestrator/internal/adapter/voice"
	"github.com/reelcast/orchestrator/internal/config"
	"github.com/reelcast/orchestrator/internal/domain"
	"github.com/reelcast/orchestrator/internal/service"
	"github.com/reelcast/orchestrator/internal/storage"
	"github.com/reelcast/orchestrator/internal/store"
)

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(ctx context.Context, text, outputName string) (*voice.AudioResult, error) {
	return &voice.AudioResult{Data: []byte("mp3"), SizeBytes: 3}, nil
}
func (stubSynthesizer) Ping(ctx context.Context) error { return nil }

type stubRenderer struct{}

func (stubRenderer) CreateAsset(ctx context.Context, name string, kind domain.AssetKind, data []byte) (string, error) {
	return "asset-1", nil
}
func (stubRenderer) UploadAsset(ctx context.Context, assetID, name string, kind domain.AssetKind, data []byte) error {
	return nil
}
func (stubRenderer) SubmitJob(ctx context.Context, req render.JobRequest) (string, error) {
	return "job-1", nil
}
func (stubRenderer) JobStatus(ctx context.Context, jobID string) (*render.JobState, error) {
	return &render.JobState{Status: domain.JobStatusProcessing}, nil
}
func (stubRenderer) Download(ctx context.Context, url string) ([]byte, error) { return []byte("mp4"), nil }
func (stubRenderer) Ping(ctx context.Context) error                           { return nil }

type stubNotifier struct{}

func (stubNotifier) Push(ownerID string, eventType domain.EventType, event map[string]interface{}) error {
	return nil
}

func newTestServer(t *testing.T) (*echo.Echo, *search.SQLiteSearcher) {
	t.Helper()

	presentersDir := t.TempDir()
	for i := 1; i <= 9; i++ {
		path := filepath.Join(presentersDir, fmt.Sprintf("presenter-%d.png", i))
		require.NoError(t, os.WriteFile(path, []byte("png"), 0644))
	}

	searcher, err := search.NewSQLiteSearcher(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { searcher.Close() })

	cfg := &config.Config{
		SessionTTL:        30 * time.Minute,
		MaxActiveSessions: 5,
		SettleDelay:       30 * time.Second,
		InitialPollDelay:  5 * time.Minute,
		PollInterval:      30 * time.Second,
		MaxPollAttempts:   15,
		CallTimeout:       2 * time.Minute,
		SearchLimit:       3,
	}

	svc := service.New(
		store.NewMemoryStore(cfg.SessionTTL),
		searcher,
		scriptgen.NewMockGenerator(),
		stubSynthesizer{},
		stubRenderer{},
		stubNotifier{},
		storage.NewPresenters(presentersDir),
		storage.NewArtifacts(t.TempDir()),
		nil,
		cfg,
	)

	e := echo.New()
	NewHandler(svc).RegisterRoutes(e)
	return e, searcher
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedSnippet(t *testing.T, searcher *search.SQLiteSearcher, text string) {
	t.Helper()
	_, err := searcher.Add(context.Background(), domain.Snippet{Text: text})
	require.NoError(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestStartPipelineEndpoint(t *testing.T) {
	e, searcher := newTestServer(t)
	seedSnippet(t, searcher, "Vinicius renews with Real Madrid")

	rec := doJSON(e, http.MethodPost, "/v1/pipeline/start",
		`{"owner_id":"owner-1","presenter_id":3,"keyword":"Real Madrid"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp domain.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Script.Text)
	assert.False(t, resp.ExpiresAt.IsZero())
}

func TestStartPipelineEndpointRejectsInvalid(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/pipeline/start",
		`{"owner_id":"","presenter_id":0,"keyword":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error   string   `json:"error"`
		Reasons []string `json:"reasons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Reasons, 3)
}

func TestStartPipelineEndpointCapReturns429(t *testing.T) {
	e, searcher := newTestServer(t)
	seedSnippet(t, searcher, "transfer window news update")

	for i := 0; i < 5; i++ {
		rec := doJSON(e, http.MethodPost, "/v1/pipeline/start",
			fmt.Sprintf(`{"owner_id":"owner-%d","presenter_id":3,"keyword":"transfer window"}`, i))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(e, http.MethodPost, "/v1/pipeline/start",
		`{"owner_id":"owner-6","presenter_id":3,"keyword":"transfer window"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestDecideCancelEndpoint(t *testing.T) {
	e, searcher := newTestServer(t)
	seedSnippet(t, searcher, "Haaland injury update from Manchester")

	rec := doJSON(e, http.MethodPost, "/v1/pipeline/start",
		`{"owner_id":"owner-1","presenter_id":3,"keyword":"Haaland"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var started domain.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = doJSON(e, http.MethodPost, "/v1/sessions/"+started.SessionID+"/decide",
		`{"owner_id":"owner-1","decision":"cancel"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var decided domain.DecideResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decided))
	assert.True(t, decided.OK)
	assert.Equal(t, domain.SessionStateCancelled, decided.State)

	// The session is gone; a second decision is a 404.
	rec = doJSON(e, http.MethodPost, "/v1/sessions/"+started.SessionID+"/decide",
		`{"owner_id":"owner-1","decision":"cancel"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecideEndpointUnknownSession(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/sessions/VIDEO-missing/decide",
		`{"owner_id":"owner-1","decision":"approve"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionEndpoints(t *testing.T) {
	e, searcher := newTestServer(t)
	seedSnippet(t, searcher, "Juventus close to new signing")

	rec := doJSON(e, http.MethodPost, "/v1/pipeline/start",
		`{"owner_id":"owner-1","presenter_id":2,"keyword":"Juventus"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var started domain.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = doJSON(e, http.MethodGet, "/v1/sessions/"+started.SessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, domain.SessionStateAwaitingApproval, session.State)

	rec = doJSON(e, http.MethodGet, "/v1/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Sessions []sessionSummary `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, started.SessionID, list.Sessions[0].SessionID)
	assert.Greater(t, list.Sessions[0].TimeRemaining, int64(0))

	rec = doJSON(e, http.MethodGet, "/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.SessionStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Active)

	rec = doJSON(e, http.MethodDelete, "/v1/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleared))
	assert.Equal(t, 1, cleared["cleared"])
}

func TestAddSnippetEndpoint(t *testing.T) {
	e, searcher := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/snippets",
		`{"text":"Leao on the verge of a Premier League move","vip":true,"vip_keyword":"Leao"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Greater(t, body["id"], int64(0))

	snippets, err := searcher.Search(context.Background(), "Leao", 3)
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.True(t, snippets[0].VIP)
}

func TestAddSnippetEndpointRequiresText(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/snippets", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
