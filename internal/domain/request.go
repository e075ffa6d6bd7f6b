package domain

import (
	"fmt"
	"regexp"
	"time"
)

// keywordPattern restricts keywords to letters, digits, spaces, hyphens,
// underscores and dots.
var keywordPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.]+$`)

// StartRequest asks the orchestrator to begin a generation pipeline.
type StartRequest struct {
	OwnerID     string `json:"owner_id"`
	PresenterID int    `json:"presenter_id"`
	Keyword     string `json:"keyword"`
}

// Validate checks the request shape. All failing reasons are collected, not
// just the first one.
func (r StartRequest) Validate() error {
	var reasons []string
	if r.OwnerID == "" {
		reasons = append(reasons, "owner_id is required")
	}
	if r.PresenterID < 1 || r.PresenterID > 9 {
		reasons = append(reasons, fmt.Sprintf("presenter_id must be between 1 and 9, got %d", r.PresenterID))
	}
	if len(r.Keyword) < 2 {
		reasons = append(reasons, "keyword must be at least 2 characters")
	} else if len(r.Keyword) > 50 {
		reasons = append(reasons, "keyword must be at most 50 characters")
	} else if !keywordPattern.MatchString(r.Keyword) {
		reasons = append(reasons, "keyword may only contain letters, digits, spaces, hyphens, underscores and dots")
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// StartResponse is returned once a session reaches the approval gate.
type StartResponse struct {
	SessionID string    `json:"session_id"`
	Script    Script    `json:"script"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DecideRequest carries a human decision on a pending session.
type DecideRequest struct {
	OwnerID  string   `json:"owner_id"`
	Decision Decision `json:"decision"`
}

// DecideResponse acknowledges a decision.
type DecideResponse struct {
	OK        bool         `json:"ok"`
	SessionID string       `json:"session_id"`
	State     SessionState `json:"state"`
	Script    *Script      `json:"script,omitempty"`
}
