package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/reelcast/orchestrator/internal/adapter/render"
	"github.com/reelcast/orchestrator/internal/domain"
)

// presenterPrompt steers the rendered performance. The render service
// applies it to every job.
const presenterPrompt = `CHARACTER: young sports news presenter, warm and direct, casual crew-neck shirt, natural professional look.
PERFORMANCE: starts neutral with a subtle smile looking straight at camera, energy builds gradually, expressive eyebrows and light hand gestures on key points, finishes with an inviting look.
DELIVERY: conversational, passionate but controlled, smooth transitions between ideas.
FRAMING: vertical 9:16, chest up, eye-level, subject centered throughout. Soft warm lighting, realistic street background.
SYNC: mouth and expressions start exactly on the audio, no abrupt cuts, emotion rises naturally.`

const (
	jobDurationMS  = 20000
	jobAspectRatio = "9:16"
	jobResolution  = "720p"
)

type assetSyncResult struct {
	kind domain.AssetKind
	id   string
	err  error
}

// runVideoStage turns the presenter image and the synthesized audio into a
// downloaded video artifact: parallel asset upload, settle wait, job
// submission, bounded polling with a single rescue check, then download
// and persistence.
func (s *Service) runVideoStage(ctx context.Context, session *domain.Session, audio *domain.AudioResult) (*domain.VideoResult, error) {
	imageData, err := s.presenters.Load(session.PresenterID)
	if err != nil {
		return nil, &domain.ExternalServiceError{Stage: "image", Err: err}
	}

	// Fan out the two uploads; both must succeed before the job can
	// reference them.
	results := make(chan assetSyncResult, 2)
	go func() {
		id, err := s.syncAsset(ctx, s.presenters.Name(session.PresenterID), domain.AssetKindImage, imageData)
		results <- assetSyncResult{kind: domain.AssetKindImage, id: id, err: err}
	}()
	go func() {
		id, err := s.syncAsset(ctx, audio.FileName+".mp3", domain.AssetKindAudio, audio.Data)
		results <- assetSyncResult{kind: domain.AssetKindAudio, id: id, err: err}
	}()

	var imageAssetID, audioAssetID string
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			return nil, &domain.ExternalServiceError{Stage: string(res.kind) + "_upload", Err: res.err}
		}
		switch res.kind {
		case domain.AssetKindImage:
			imageAssetID = res.id
		case domain.AssetKindAudio:
			audioAssetID = res.id
		}
	}

	log.Printf("INFO: [%s] assets registered, image=%s audio=%s", session.ID, imageAssetID, audioAssetID)

	// The service needs processing time before freshly uploaded assets are
	// safe to reference in a job submission. External constraint, not
	// optional.
	log.Printf("INFO: [%s] waiting %s for asset settling", session.ID, s.config.SettleDelay)
	if err := s.sleep(ctx, s.config.SettleDelay); err != nil {
		return nil, err
	}

	submitCtx, cancelSubmit := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancelSubmit()
	jobID, err := s.render.SubmitJob(submitCtx, render.JobRequest{
		ImageAssetID: imageAssetID,
		AudioAssetID: audioAssetID,
		DurationMS:   jobDurationMS,
		AspectRatio:  jobAspectRatio,
		Resolution:   jobResolution,
		Prompt:       presenterPrompt,
	})
	if err != nil {
		return nil, &domain.ExternalServiceError{Stage: "render_submit", Err: err}
	}

	job := &domain.RenderJob{
		JobID:        jobID,
		ImageAssetID: imageAssetID,
		AudioAssetID: audioAssetID,
		Status:       domain.JobStatusProcessing,
	}
	log.Printf("INFO: [%s] render job submitted: %s", session.ID, jobID)

	resultURL, err := s.pollJob(ctx, session.ID, job)
	if err != nil {
		return nil, err
	}

	return s.downloadArtifact(ctx, session, job, resultURL)
}

// syncAsset registers one remote asset and uploads its binary.
func (s *Service) syncAsset(ctx context.Context, name string, kind domain.AssetKind, data []byte) (string, error) {
	createCtx, cancelCreate := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancelCreate()
	assetID, err := s.render.CreateAsset(createCtx, name, kind, data)
	if err != nil {
		return "", fmt.Errorf("failed to create %s asset: %w", kind, err)
	}

	uploadCtx, cancelUpload := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancelUpload()
	if err := s.render.UploadAsset(uploadCtx, assetID, name, kind, data); err != nil {
		return "", fmt.Errorf("failed to upload %s asset: %w", kind, err)
	}
	return assetID, nil
}

// pollJob waits the initial render time, then polls on a fixed interval up
// to the attempt budget. An explicit failure aborts immediately; exhaustion
// is followed by exactly one rescue check before giving up with the job id
// attached for manual recovery.
func (s *Service) pollJob(ctx context.Context, sessionID string, job *domain.RenderJob) (string, error) {
	log.Printf("INFO: [%s] waiting %s before first status check", sessionID, s.config.InitialPollDelay)
	if err := s.sleep(ctx, s.config.InitialPollDelay); err != nil {
		return "", err
	}

	for job.Attempts < s.config.MaxPollAttempts {
		state, err := s.jobStatus(ctx, job.JobID)
		if err != nil {
			// Network errors are not retried; only "still processing" is.
			return "", &domain.ExternalServiceError{Stage: "render_poll", Err: err}
		}

		if state.Status == domain.JobStatusReady && state.ResultURL != "" {
			job.Status = domain.JobStatusReady
			job.ResultURL = state.ResultURL
			log.Printf("INFO: [%s] render job ready after %d polls", sessionID, job.Attempts)
			return state.ResultURL, nil
		}
		if state.Status == domain.JobStatusFailed {
			job.Status = domain.JobStatusFailed
			return "", &domain.ExternalServiceError{Stage: "render", Err: errors.New(state.Err)}
		}

		job.Attempts++
		log.Printf("INFO: [%s] job still processing, attempt %d/%d", sessionID, job.Attempts, s.config.MaxPollAttempts)
		if err := s.sleep(ctx, s.config.PollInterval); err != nil {
			return "", err
		}
	}

	// Rescue attempt: the job may have completed just after the last
	// scheduled poll.
	log.Printf("WARN: [%s] poll budget exhausted, trying one direct fetch", sessionID)
	state, err := s.jobStatus(ctx, job.JobID)
	if err == nil && state.ResultURL != "" {
		job.Status = domain.JobStatusReady
		job.ResultURL = state.ResultURL
		log.Printf("INFO: [%s] render job rescued on final check", sessionID)
		return state.ResultURL, nil
	}

	log.Printf("ERROR: [%s] render job %s not completed after %d attempts", sessionID, job.JobID, job.Attempts)
	return "", &domain.TimeoutExhaustedError{JobID: job.JobID, Attempts: job.Attempts}
}

func (s *Service) jobStatus(ctx context.Context, jobID string) (*render.JobState, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()
	return s.render.JobStatus(callCtx, jobID)
}

// downloadArtifact fetches the finished video, validates it and persists it
// with a caption sidecar.
func (s *Service) downloadArtifact(ctx context.Context, session *domain.Session, job *domain.RenderJob, url string) (*domain.VideoResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, 2*s.config.CallTimeout)
	defer cancel()

	data, err := s.render.Download(callCtx, url)
	if err != nil {
		return nil, &domain.ExternalServiceError{Stage: "download", Err: err}
	}
	if len(data) == 0 {
		return nil, &domain.EmptyArtifactError{URL: url}
	}

	fileName, path, err := s.artifacts.SaveVideo(data)
	if err != nil {
		return nil, &domain.ExternalServiceError{Stage: "persist", Err: err}
	}
	log.Printf("INFO: [%s] artifact saved: %s (%d bytes)", session.ID, path, len(data))

	result := &domain.VideoResult{
		GenerationID: job.JobID,
		ImageAssetID: job.ImageAssetID,
		AudioAssetID: job.AudioAssetID,
		FileName:     fileName,
		Path:         path,
		SizeBytes:    len(data),
		ResultURL:    url,
	}

	// The caption sidecar is best effort; a write failure never fails the run.
	caption := buildCaption(session.Script.Text, session.Keyword)
	if captionPath, err := s.artifacts.SaveCaption(fileName, caption); err != nil {
		log.Printf("WARN: [%s] failed to write caption: %v", session.ID, err)
	} else {
		result.CaptionPath = captionPath
	}

	return result, nil
}

// buildCaption produces a short social caption from the narration opening.
func buildCaption(script, keyword string) string {
	opening := script
	if len(opening) > 80 {
		opening = opening[:80] + "..."
	}
	return fmt.Sprintf("%s\n\nWhat do you think about %s?\n\n#Football #TransferNews #BreakingNews", opening, keyword)
}
