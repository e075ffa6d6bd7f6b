// Package render provides the remote video-rendering collaborator client:
// asset registry, job submission/status and artifact download.
package render

import (
	"context"

	"github.com/reelcast/orchestrator/internal/domain"
)

// JobRequest describes one render job submission.
type JobRequest struct {
	ImageAssetID string
	AudioAssetID string
	DurationMS   int
	AspectRatio  string
	Resolution   string
	Prompt       string
}

// JobState is one observed status of a render job.
type JobState struct {
	Status    domain.JobStatus
	ResultURL string
	Err       string
}

// Renderer defines the rendering-service operations the pipeline needs.
type Renderer interface {
	// CreateAsset registers a remote asset and returns its id.
	CreateAsset(ctx context.Context, name string, kind domain.AssetKind, data []byte) (string, error)

	// UploadAsset uploads the binary for a previously created asset.
	UploadAsset(ctx context.Context, assetID, name string, kind domain.AssetKind, data []byte) error

	// SubmitJob submits a render job referencing both assets and returns
	// the job id.
	SubmitJob(ctx context.Context, req JobRequest) (string, error)

	// JobStatus fetches the current state of a job.
	JobStatus(ctx context.Context, jobID string) (*JobState, error)

	// Download fetches the finished artifact bytes from its result URL.
	Download(ctx context.Context, url string) ([]byte, error)

	// Ping checks that the service answers.
	Ping(ctx context.Context) error
}
