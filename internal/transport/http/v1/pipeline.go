package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reelcast/orchestrator/internal/domain"
)

// StartPipeline admits a new generation request and returns the session
// parked at the approval gate.
func (h *Handler) StartPipeline(c echo.Context) error {
	var req domain.StartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	resp, err := h.service.StartPipeline(ctx, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Decide applies a human decision to a pending session.
func (h *Handler) Decide(c echo.Context) error {
	sessionID := c.Param("session_id")
	var req domain.DecideRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	resp, err := h.service.Decide(ctx, sessionID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
