// Package v1 provides the HTTP handlers for the pipeline orchestrator.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reelcast/orchestrator/internal/domain"
	"github.com/reelcast/orchestrator/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/pipeline/start", h.StartPipeline)
	e.POST("/v1/sessions/:session_id/decide", h.Decide)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.GET("/v1/sessions", h.ListSessions)
	e.DELETE("/v1/sessions", h.ClearSessions)
	e.GET("/v1/stats", h.GetStats)
	e.POST("/v1/snippets", h.AddSnippet)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps domain errors to status codes.
func errorResponse(c echo.Context, err error) error {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		capErr        *domain.ConcurrencyLimitError
		timeoutErr    *domain.TimeoutExhaustedError
		externalErr   *domain.ExternalServiceError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation failed",
			"reasons": validationErr.Reasons,
		})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &capErr):
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	case errors.As(err, &timeoutErr):
		return c.JSON(http.StatusGatewayTimeout, map[string]interface{}{
			"error":  err.Error(),
			"job_id": timeoutErr.JobID,
		})
	case errors.As(err, &externalErr):
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error": err.Error(),
			"stage": externalErr.Stage,
		})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
