package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/reelcast/orchestrator/internal/domain"
)

// ValidationResult is the outcome of the pre-flight resource check. All
// failing reasons are collected together, not just the first.
type ValidationResult struct {
	Valid       bool
	CapExceeded bool
	Active      int
	Errors      []string
}

// ValidateResources runs the read-only pre-flight checks before a pipeline
// run is admitted: presenter asset existence, collaborator health probes,
// the active-session cap and the admission policy.
func (s *Service) ValidateResources(ctx context.Context, req domain.StartRequest) ValidationResult {
	result := ValidationResult{Valid: true}

	if !s.presenters.Exists(req.PresenterID) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("presenter %d not available", req.PresenterID))
	}

	for _, probe := range s.healthProbes(ctx) {
		if probe.err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s service unavailable: %v", probe.name, probe.err))
		}
	}

	stats := s.store.Stats()
	result.Active = stats.Active
	if stats.Active >= s.config.MaxActiveSessions {
		result.Valid = false
		result.CapExceeded = true
		result.Errors = append(result.Errors, fmt.Sprintf("concurrent session limit reached (%d/%d)", stats.Active, s.config.MaxActiveSessions))
	}

	if s.policy != nil {
		decision, reason, err := s.policy.Evaluate(ctx, map[string]interface{}{
			"keyword":      req.Keyword,
			"presenter_id": req.PresenterID,
			"owner_id":     req.OwnerID,
		})
		if err != nil {
			log.Printf("WARN: policy evaluation failed: %v", err)
		} else if decision == "block" {
			result.Valid = false
			if reason == "" {
				reason = "request blocked by admission policy"
			}
			result.Errors = append(result.Errors, reason)
		}
	}

	return result
}

type probeResult struct {
	name string
	err  error
}

// healthProbes pings the four collaborators concurrently.
func (s *Service) healthProbes(ctx context.Context) []probeResult {
	probeCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()

	probes := []struct {
		name string
		ping func(context.Context) error
	}{
		{"search", s.searcher.Ping},
		{"script", s.scriptGen.Ping},
		{"voice", s.voice.Ping},
		{"render", s.render.Ping},
	}

	results := make([]probeResult, len(probes))
	var wg sync.WaitGroup
	for i, probe := range probes {
		wg.Add(1)
		go func(i int, name string, ping func(context.Context) error) {
			defer wg.Done()
			results[i] = probeResult{name: name, err: ping(probeCtx)}
		}(i, probe.name, probe.ping)
	}
	wg.Wait()
	return results
}
