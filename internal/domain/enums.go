// Package domain defines the core domain models for the pipeline orchestrator.
package domain

// SessionState represents the approval state of a generation session.
type SessionState string

const (
	SessionStateAwaitingApproval SessionState = "AWAITING_APPROVAL"
	SessionStateApproved         SessionState = "APPROVED"
	SessionStateRejected         SessionState = "REJECTED"
	SessionStateRegenerating     SessionState = "REGENERATING"
	SessionStateCancelled        SessionState = "CANCELLED"
	SessionStateExpired          SessionState = "EXPIRED"
)

// JobStatus represents the status of a remote render job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusReady      JobStatus = "READY"
	JobStatusFailed     JobStatus = "FAILED"
	JobStatusUnknown    JobStatus = "UNKNOWN"
)

// Decision represents a human decision on a pending session.
type Decision string

const (
	DecisionApprove    Decision = "approve"
	DecisionReject     Decision = "reject"
	DecisionRegenerate Decision = "regenerate"
	DecisionCancel     Decision = "cancel"
)

// Valid reports whether d is one of the four known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionRegenerate, DecisionCancel:
		return true
	}
	return false
}

// AssetKind represents the kind of a remote render asset.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindAudio AssetKind = "audio"
)

// EventType represents the type of a progress event pushed to the requester.
type EventType string

const (
	EventTypeApprovalRequired EventType = "approval_required"
	EventTypeStageProgress    EventType = "stage_progress"
	EventTypeCompleted        EventType = "completed"
	EventTypeFailed           EventType = "failed"
	EventTypeCancelled        EventType = "cancelled"
)
