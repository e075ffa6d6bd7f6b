package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelcast/orchestrator/internal/adapter/render"
	"github.com/reelcast/orchestrator/internal/adapter/scriptgen"
	"github.com/reelcast/orchestrator/internal/adapter/voice"
	"github.com/reelcast/orchestrator/internal/config"
	"github.com/reelcast/orchestrator/internal/domain"
	"github.com/reelcast/orchestrator/internal/storage"
	"github.com/reelcast/orchestrator/internal/store"
)

// fakeSearcher serves canned snippets.
type fakeSearcher struct {
	mu       sync.Mutex
	snippets []domain.Snippet
	pingErr  error
	searches int
}

func (f *fakeSearcher) Search(ctx context.Context, keyword string, limit int) ([]domain.Snippet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if limit < len(f.snippets) {
		return f.snippets[:limit], nil
	}
	return f.snippets, nil
}

func (f *fakeSearcher) Add(ctx context.Context, snippet domain.Snippet) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snippets = append(f.snippets, snippet)
	return int64(len(f.snippets)), nil
}

func (f *fakeSearcher) Ping(ctx context.Context) error { return f.pingErr }

// fakeGenerator returns a fixed script.
type fakeGenerator struct {
	text    string
	words   int
	err     error
	pingErr error
	calls   int
}

func (f *fakeGenerator) Generate(ctx context.Context, topic string, snippets []domain.Snippet) (*scriptgen.ScriptResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &scriptgen.ScriptResult{Text: f.text, WordCount: f.words}, nil
}

func (f *fakeGenerator) Ping(ctx context.Context) error { return f.pingErr }

// fakeSynthesizer returns a buffer of the configured size.
type fakeSynthesizer struct {
	size    int
	err     error
	pingErr error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, outputName string) (*voice.AudioResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &voice.AudioResult{Data: make([]byte, f.size), SizeBytes: f.size}, nil
}

func (f *fakeSynthesizer) Ping(ctx context.Context) error { return f.pingErr }

// fakeRenderer drives the polling engine through a scripted sequence of
// job states.
type fakeRenderer struct {
	mu          sync.Mutex
	states      []render.JobState
	statusCalls int
	assets      int
	uploads     int
	submits     int
	artifact    []byte
	submitErr   error
	uploadErr   error
	pingErr     error
}

func (f *fakeRenderer) CreateAsset(ctx context.Context, name string, kind domain.AssetKind, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets++
	return fmt.Sprintf("asset-%s-%d", kind, f.assets), nil
}

func (f *fakeRenderer) UploadAsset(ctx context.Context, assetID, name string, kind domain.AssetKind, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return f.uploadErr
}

func (f *fakeRenderer) SubmitJob(ctx context.Context, req render.JobRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submits++
	return "job-1", nil
}

func (f *fakeRenderer) JobStatus(ctx context.Context, jobID string) (*render.JobState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var state render.JobState
	if f.statusCalls < len(f.states) {
		state = f.states[f.statusCalls]
	} else if len(f.states) > 0 {
		state = f.states[len(f.states)-1]
	} else {
		state = render.JobState{Status: domain.JobStatusProcessing}
	}
	f.statusCalls++
	return &state, nil
}

func (f *fakeRenderer) Download(ctx context.Context, url string) ([]byte, error) {
	return f.artifact, nil
}

func (f *fakeRenderer) Ping(ctx context.Context) error { return f.pingErr }

// fakeNotifier records every pushed event and signals terminal ones.
type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
	done   chan domain.EventType

	// onPush, when set, runs inside Push before the terminal signal. It
	// lets a test observe system state at delivery time.
	onPush func(eventType domain.EventType)
}

type recordedEvent struct {
	ownerID   string
	eventType domain.EventType
	event     map[string]interface{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan domain.EventType, 8)}
}

func (f *fakeNotifier) Push(ownerID string, eventType domain.EventType, event map[string]interface{}) error {
	f.mu.Lock()
	f.events = append(f.events, recordedEvent{ownerID: ownerID, eventType: eventType, event: event})
	f.mu.Unlock()

	if f.onPush != nil {
		f.onPush(eventType)
	}

	switch eventType {
	case domain.EventTypeCompleted, domain.EventTypeFailed, domain.EventTypeCancelled:
		f.done <- eventType
	}
	return nil
}

func (f *fakeNotifier) waitTerminal(t *testing.T) domain.EventType {
	t.Helper()
	select {
	case et := <-f.done:
		return et
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for terminal event")
		return ""
	}
}

func (f *fakeNotifier) byType(eventType domain.EventType) []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedEvent
	for _, ev := range f.events {
		if ev.eventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// fakeClock records requested sleeps and returns immediately.
type fakeClock struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (f *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
	return ctx.Err()
}

func (f *fakeClock) total() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum time.Duration
	for _, d := range f.sleeps {
		sum += d
	}
	return sum
}

type testEnv struct {
	svc      *Service
	store    *store.MemoryStore
	searcher *fakeSearcher
	gen      *fakeGenerator
	synth    *fakeSynthesizer
	renderer *fakeRenderer
	notifier *fakeNotifier
	clock    *fakeClock
	cfg      *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		SessionTTL:        30 * time.Minute,
		SweepInterval:     10 * time.Minute,
		MaxActiveSessions: 5,
		SettleDelay:       30 * time.Second,
		InitialPollDelay:  5 * time.Minute,
		PollInterval:      30 * time.Second,
		MaxPollAttempts:   15,
		CallTimeout:       2 * time.Minute,
		SearchLimit:       3,
	}
}

// newTestEnv builds a Service over fakes, a temp presenter directory with
// presenters 1-9 and a simulated clock.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	presentersDir := t.TempDir()
	for i := 1; i <= 9; i++ {
		path := filepath.Join(presentersDir, fmt.Sprintf("presenter-%d.png", i))
		require.NoError(t, os.WriteFile(path, []byte("png"), 0644))
	}

	env := &testEnv{
		store:    store.NewMemoryStore(30 * time.Minute),
		searcher: &fakeSearcher{},
		gen:      &fakeGenerator{text: "Here we go", words: 77},
		synth:    &fakeSynthesizer{size: 150 * 1024},
		renderer: &fakeRenderer{artifact: []byte("mp4-bytes")},
		notifier: newFakeNotifier(),
		clock:    &fakeClock{},
		cfg:      testConfig(),
	}
	env.svc = New(
		env.store,
		env.searcher,
		env.gen,
		env.synth,
		env.renderer,
		env.notifier,
		storage.NewPresenters(presentersDir),
		storage.NewArtifacts(t.TempDir()),
		nil,
		env.cfg,
	)
	env.svc.sleep = env.clock.sleep
	return env
}

// seedSnippets gives the searcher n matching snippets.
func (env *testEnv) seedSnippets(n int) {
	for i := 0; i < n; i++ {
		env.searcher.snippets = append(env.searcher.snippets, domain.Snippet{
			ID:       int64(i + 1),
			Text:     fmt.Sprintf("snippet %d about Real Madrid", i+1),
			PostedAt: time.Now(),
		})
	}
}
