package service

import (
	"context"
	"log"

	"github.com/reelcast/orchestrator/internal/domain"
	"github.com/reelcast/orchestrator/internal/store"
)

// StartPipeline validates the request, runs the script stage and parks the
// session at the approval gate. No generation cost is incurred before the
// approval decision.
func (s *Service) StartPipeline(ctx context.Context, req domain.StartRequest) (*domain.StartResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	validation := s.ValidateResources(ctx, req)
	if !validation.Valid {
		if validation.CapExceeded {
			return nil, &domain.ConcurrencyLimitError{Active: validation.Active, Cap: s.config.MaxActiveSessions}
		}
		return nil, &domain.ValidationError{Reasons: validation.Errors}
	}

	script, err := s.runScriptStage(ctx, req.Keyword)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:          store.NewSessionID("VIDEO"),
		State:       domain.SessionStateAwaitingApproval,
		PresenterID: req.PresenterID,
		Keyword:     req.Keyword,
		Script:      script,
		OwnerID:     req.OwnerID,
	}
	if !s.store.Create(session) {
		return nil, errSessionCreate
	}

	log.Printf("INFO: pipeline started: %s | %s", session.ID, req.Keyword)
	s.notify(req.OwnerID, domain.EventTypeApprovalRequired, map[string]interface{}{
		"session_id":     session.ID,
		"script":         script.Text,
		"word_count":     script.WordCount,
		"optimal_length": script.OptimalLength,
		"source_count":   script.SourceCount,
		"expires_at":     session.ExpiresAt,
	})

	return &domain.StartResponse{
		SessionID: session.ID,
		Script:    script,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Decide applies a human decision to a pending session. Approve hands the
// session to the asynchronous generation run; reject and regenerate rebuild
// the script in place under the same session id; cancel deletes the session
// before any generation cost is incurred.
func (s *Service) Decide(ctx context.Context, sessionID string, req domain.DecideRequest) (*domain.DecideResponse, error) {
	if !req.Decision.Valid() {
		return nil, &domain.ValidationError{Reasons: []string{"decision must be one of approve, reject, regenerate, cancel"}}
	}

	session := s.store.Get(sessionID)
	if session == nil {
		return nil, &domain.NotFoundError{SessionID: sessionID}
	}
	if req.OwnerID != "" && session.OwnerID != req.OwnerID {
		// Do not leak another owner's session.
		return nil, &domain.NotFoundError{SessionID: sessionID}
	}
	if session.State != domain.SessionStateAwaitingApproval {
		return nil, &domain.ValidationError{Reasons: []string{"session is not awaiting approval"}}
	}

	switch req.Decision {
	case domain.DecisionApprove:
		return s.approve(session)
	case domain.DecisionReject, domain.DecisionRegenerate:
		return s.regenerate(ctx, session, req.Decision)
	case domain.DecisionCancel:
		return s.cancel(session)
	}
	return nil, &domain.ValidationError{Reasons: []string{"unknown decision"}}
}

func (s *Service) approve(session *domain.Session) (*domain.DecideResponse, error) {
	s.store.Update(session.ID, func(sess *domain.Session) {
		sess.State = domain.SessionStateApproved
	})
	log.Printf("INFO: script approved: %s", session.ID)

	// The paid stages run detached from the request; once they start there
	// is no cancellation primitive, the run either completes or fails.
	run := *session
	go s.runApproved(&run)

	return &domain.DecideResponse{
		OK:        true,
		SessionID: session.ID,
		State:     domain.SessionStateApproved,
	}, nil
}

// runApproved executes the audio and video stages sequentially. The video
// stage depends on the audio artifact, so the two never run concurrently.
// The session is always deleted before the terminal event goes out, so a
// recipient reacting to it never observes the stale session.
func (s *Service) runApproved(session *domain.Session) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: [%s] generation run panicked: %v", session.ID, r)
			s.store.Delete(session.ID)
			s.notify(session.OwnerID, domain.EventTypeFailed, map[string]interface{}{
				"session_id":    session.ID,
				"error":         "internal error during generation",
				"cost_incurred": true,
			})
		}
	}()

	s.notify(session.OwnerID, domain.EventTypeStageProgress, map[string]interface{}{
		"session_id": session.ID,
		"stage":      "audio",
	})

	audio, err := s.runAudioStage(ctx, session)
	if err != nil {
		s.fail(session, err)
		return
	}
	log.Printf("INFO: [%s] audio generated: %d KB, ~%ds", session.ID, audio.SizeKB, audio.EstimatedS)
	s.notify(session.OwnerID, domain.EventTypeStageProgress, map[string]interface{}{
		"session_id":           session.ID,
		"stage":                "video",
		"audio_size_kb":        audio.SizeKB,
		"estimated_duration_s": audio.EstimatedS,
	})

	result, err := s.runVideoStage(ctx, session, audio)
	if err != nil {
		s.fail(session, err)
		return
	}

	log.Printf("INFO: [%s] generation completed: %s", session.ID, result.FileName)
	s.store.Delete(session.ID)
	s.notify(session.OwnerID, domain.EventTypeCompleted, map[string]interface{}{
		"session_id":     session.ID,
		"generation_id":  result.GenerationID,
		"audio_asset_id": result.AudioAssetID,
		"image_asset_id": result.ImageAssetID,
		"file_name":      result.FileName,
		"size_bytes":     result.SizeBytes,
		"caption_path":   result.CaptionPath,
		"cost_incurred":  true,
	})
}

// fail reports a terminal run failure. Cost has been incurred by this point:
// the failure can only happen once the paid stages started.
func (s *Service) fail(session *domain.Session, err error) {
	log.Printf("ERROR: [%s] generation failed: %v", session.ID, err)
	s.store.Delete(session.ID)
	s.notify(session.OwnerID, domain.EventTypeFailed, map[string]interface{}{
		"session_id":    session.ID,
		"error":         err.Error(),
		"cost_incurred": true,
	})
}

// regenerate re-runs the script stage for the same keyword and returns the
// session to the approval gate, keeping its id.
func (s *Service) regenerate(ctx context.Context, session *domain.Session, decision domain.Decision) (*domain.DecideResponse, error) {
	s.store.Update(session.ID, func(sess *domain.Session) {
		sess.State = domain.SessionStateRegenerating
	})
	log.Printf("INFO: regenerating script (%s): %s | %s", decision, session.ID, session.Keyword)

	script, err := s.runScriptStage(ctx, session.Keyword)
	if err != nil {
		// A session must never be left stuck in a non-terminal state.
		s.store.Delete(session.ID)
		s.notify(session.OwnerID, domain.EventTypeFailed, map[string]interface{}{
			"session_id":    session.ID,
			"error":         err.Error(),
			"cost_incurred": false,
		})
		return nil, err
	}

	ok := s.store.Update(session.ID, func(sess *domain.Session) {
		sess.Script = script
		sess.State = domain.SessionStateAwaitingApproval
	})
	if !ok {
		return nil, &domain.NotFoundError{SessionID: session.ID}
	}

	s.notify(session.OwnerID, domain.EventTypeApprovalRequired, map[string]interface{}{
		"session_id":     session.ID,
		"script":         script.Text,
		"word_count":     script.WordCount,
		"optimal_length": script.OptimalLength,
		"regenerated":    true,
	})

	return &domain.DecideResponse{
		OK:        true,
		SessionID: session.ID,
		State:     domain.SessionStateAwaitingApproval,
		Script:    &script,
	}, nil
}

func (s *Service) cancel(session *domain.Session) (*domain.DecideResponse, error) {
	s.store.Delete(session.ID)
	log.Printf("INFO: generation cancelled: %s", session.ID)
	s.notify(session.OwnerID, domain.EventTypeCancelled, map[string]interface{}{
		"session_id":    session.ID,
		"cost_incurred": false,
	})
	return &domain.DecideResponse{
		OK:        true,
		SessionID: session.ID,
		State:     domain.SessionStateCancelled,
	}, nil
}
