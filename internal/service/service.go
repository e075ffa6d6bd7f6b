// Package service implements the generation pipeline: pre-flight
// validation, the script/audio/video stages, the approval gate and the
// render polling engine.
package service

import (
	"context"
	"log"
	"time"

	"github.com/reelcast/orchestrator/internal/adapter/notify"
	"github.com/reelcast/orchestrator/internal/adapter/render"
	"github.com/reelcast/orchestrator/internal/adapter/scriptgen"
	"github.com/reelcast/orchestrator/internal/adapter/search"
	"github.com/reelcast/orchestrator/internal/adapter/voice"
	"github.com/reelcast/orchestrator/internal/config"
	"github.com/reelcast/orchestrator/internal/domain"
	"github.com/reelcast/orchestrator/internal/policy"
	"github.com/reelcast/orchestrator/internal/storage"
	"github.com/reelcast/orchestrator/internal/store"
)

// Service owns one set of collaborator clients and the session store. Each
// component receives only what it needs; there is no ambient state.
type Service struct {
	store      store.SessionStore
	searcher   search.Searcher
	scriptGen  scriptgen.Generator
	voice      voice.Synthesizer
	render     render.Renderer
	notifier   notify.Notifier
	presenters *storage.Presenters
	artifacts  *storage.Artifacts
	policy     *policy.Engine
	config     *config.Config

	// sleep suspends for d or until ctx is cancelled. Tests swap in a
	// simulated clock.
	sleep func(ctx context.Context, d time.Duration) error
}

// New wires a Service from its collaborators.
func New(
	sessions store.SessionStore,
	searcher search.Searcher,
	scriptGen scriptgen.Generator,
	synthesizer voice.Synthesizer,
	renderer render.Renderer,
	notifier notify.Notifier,
	presenters *storage.Presenters,
	artifacts *storage.Artifacts,
	policyEngine *policy.Engine,
	cfg *config.Config,
) *Service {
	return &Service{
		store:      sessions,
		searcher:   searcher,
		scriptGen:  scriptGen,
		voice:      synthesizer,
		render:     renderer,
		notifier:   notifier,
		presenters: presenters,
		artifacts:  artifacts,
		policy:     policyEngine,
		config:     cfg,
		sleep:      sleepCtx,
	}
}

// sleepCtx blocks for d on a cancellable timer, never a bare time.Sleep.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// notify pushes a user-facing event; delivery failures are logged, never
// propagated.
func (s *Service) notify(ownerID string, eventType domain.EventType, event map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Push(ownerID, eventType, event); err != nil {
		log.Printf("WARN: failed to push %s event to %s: %v", eventType, ownerID, err)
	}
}

// Stats returns the session store aggregate view.
func (s *Service) Stats() domain.SessionStats {
	return s.store.Stats()
}

// GetSession returns a live session or nil.
func (s *Service) GetSession(sessionID string) *domain.Session {
	return s.store.Get(sessionID)
}

// ActiveSessions lists all live sessions.
func (s *Service) ActiveSessions() []*domain.Session {
	return s.store.ActiveSessions()
}

// ClearSessions drops every session. Maintenance operation.
func (s *Service) ClearSessions() int {
	return s.store.Clear()
}

// AddSnippet ingests one source snippet into the search backend.
func (s *Service) AddSnippet(ctx context.Context, snippet domain.Snippet) (int64, error) {
	return s.searcher.Add(ctx, snippet)
}
