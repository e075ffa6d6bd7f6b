package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/reelcast/orchestrator/internal/domain"
)

// GetSession returns one live session.
func (h *Handler) GetSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	session := h.service.GetSession(sessionID)
	if session == nil {
		return errorResponse(c, &domain.NotFoundError{SessionID: sessionID})
	}
	return c.JSON(http.StatusOK, session)
}

type sessionSummary struct {
	SessionID     string              `json:"session_id"`
	State         domain.SessionState `json:"state"`
	Keyword       string              `json:"keyword"`
	PresenterID   int                 `json:"presenter_id"`
	TimeRemaining int64               `json:"time_remaining_ms"`
}

// ListSessions returns all live sessions with their remaining lifetime.
func (h *Handler) ListSessions(c echo.Context) error {
	now := time.Now()
	sessions := h.service.ActiveSessions()

	summaries := make([]sessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, sessionSummary{
			SessionID:     session.ID,
			State:         session.State,
			Keyword:       session.Keyword,
			PresenterID:   session.PresenterID,
			TimeRemaining: session.TimeRemaining(now).Milliseconds(),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sessions": summaries})
}

// ClearSessions drops every session. Maintenance operation.
func (h *Handler) ClearSessions(c echo.Context) error {
	cleared := h.service.ClearSessions()
	return c.JSON(http.StatusOK, map[string]int{"cleared": cleared})
}

// GetStats returns the session store statistics.
func (h *Handler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Stats())
}

// AddSnippet ingests one source snippet for context search.
func (h *Handler) AddSnippet(c echo.Context) error {
	var snippet domain.Snippet
	if err := c.Bind(&snippet); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if snippet.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	id, err := h.service.AddSnippet(c.Request().Context(), snippet)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}
