package domain

import "time"

// Session is one pending or in-flight generation request awaiting or past
// the human approval gate. Sessions live only in memory and expire after a
// fixed TTL.
type Session struct {
	ID          string       `json:"session_id"`
	State       SessionState `json:"state"`
	PresenterID int          `json:"presenter_id"`
	Keyword     string       `json:"keyword"`
	Script      Script       `json:"script"`
	OwnerID     string       `json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// TimeRemaining returns how long the session has before expiry.
func (s *Session) TimeRemaining(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

// Script is the narration payload produced by the script stage.
type Script struct {
	Text        string `json:"text"`
	WordCount   int    `json:"word_count"`
	SourceCount int    `json:"source_count"`
	// OptimalLength is true only within the 75-80 word band the narration
	// contract targets. Scripts outside the band are still deliverable;
	// rejection is a human decision at the approval gate.
	OptimalLength bool `json:"optimal_length"`
	// EstimatedDuration is the script-stage estimate in seconds
	// (word count / 4). The audio stage computes its own estimate with a
	// different constant; the two are intentionally independent.
	EstimatedDuration int  `json:"estimated_duration_s"`
	Refusal           bool `json:"refusal,omitempty"`
}

// ScriptWordsPerSecond is the speaking-rate constant used for the
// script-stage duration estimate.
const ScriptWordsPerSecond = 4

// OptimalWordCount reports whether n falls in the optimal narration band.
func OptimalWordCount(n int) bool {
	return n >= 75 && n <= 80
}

// AcceptableWordCount reports whether n falls in the wider acceptable band.
// Scripts outside it are flagged to the approver but never auto-rejected.
func AcceptableWordCount(n int) bool {
	return n >= 70 && n <= 85
}

// SessionStats is the aggregate view over the session store.
type SessionStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	ExpiringSoon int `json:"expiring_soon"`
	Expired      int `json:"expired"`
}

// Snippet is one ranked piece of source material returned by context search.
type Snippet struct {
	ID         int64     `json:"id,omitempty"`
	Text       string    `json:"text"`
	PostedAt   time.Time `json:"posted_at"`
	VIP        bool      `json:"vip,omitempty"`
	VIPKeyword string    `json:"vip_keyword,omitempty"`
}
