package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed request. It is raised before any
// session is created and carries every failing reason, not just the first.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// NotFoundError reports an unknown or expired session id.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found or expired", e.SessionID)
}

// ConcurrencyLimitError reports that the active-session cap is reached.
type ConcurrencyLimitError struct {
	Active int
	Cap    int
}

func (e *ConcurrencyLimitError) Error() string {
	return fmt.Sprintf("concurrent session limit reached (%d/%d)", e.Active, e.Cap)
}

// ExternalServiceError wraps a collaborator failure with the stage it
// happened in. Stage errors are never retried by the stage itself.
type ExternalServiceError struct {
	Stage string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// TimeoutExhaustedError reports that polling attempts ran out without the
// job resolving. It carries the job id so the artifact can be rescued
// manually.
type TimeoutExhaustedError struct {
	JobID    string
	Attempts int
}

func (e *TimeoutExhaustedError) Error() string {
	return fmt.Sprintf("render job not completed after %d attempts, job id for manual recovery: %s", e.Attempts, e.JobID)
}

// EmptyArtifactError reports a downloaded payload with zero length.
type EmptyArtifactError struct {
	URL string
}

func (e *EmptyArtifactError) Error() string {
	return fmt.Sprintf("downloaded artifact is empty: %s", e.URL)
}
