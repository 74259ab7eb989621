package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/focusmode/api/middleware"
	"github.com/use-agent/focusmode/models"
)

// Simplifier is the slice of pipeline.Service the handlers need.
type Simplifier interface {
	Simplify(ctx context.Context, req models.SimplifyRequest) (*models.SimplifyResponse, error)
}

// Simplify returns a handler for POST /api/simplify.
//
// Orchestration flow:
//  1. Parse & validate request (url required).
//  2. Pipeline: fetch → extract → simplify.
//  3. Degraded AI results are still 200; stage failures go through
//     respondError.
func Simplify(svc Simplifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ── 1. Parse request ────────────────────────────────────────
		var req models.SimplifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.FailureResponse(models.ErrKindInvalidRequest, ""))
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			c.JSON(http.StatusBadRequest, models.FailureResponse(models.ErrKindInvalidRequest, ""))
			return
		}

		slog.Info("simplify request",
			"request_id", middleware.RequestID(c),
			"url", req.URL,
			"profile", req.Profile,
			"own_key", req.APIKey != "",
		)

		// ── 2. Run pipeline ─────────────────────────────────────────
		resp, err := svc.Simplify(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps a PipelineError to the correct HTTP status code and
// writes a failed SimplifyResponse. Anything else is logged and reported as
// a generic server error.
func respondError(c *gin.Context, err error) {
	var pe *models.PipelineError
	if !errors.As(err, &pe) {
		slog.Error("unexpected pipeline error",
			"request_id", middleware.RequestID(c),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, models.FailureResponse(models.ErrKindServer, ""))
		return
	}

	resp := models.FailureResponse(pe.Kind, pe.Message)
	resp.PageType = pe.PageType
	c.JSON(mapErrorToStatus(pe), resp)
}

// mapErrorToStatus translates error kinds to HTTP status codes.
func mapErrorToStatus(e *models.PipelineError) int {
	switch e.Kind {
	case models.ErrKindInvalidRequest,
		models.ErrKindInvalidURL,
		models.ErrKindFetch,
		models.ErrKindTimeout,
		models.ErrKindConnection,
		models.ErrKindHTTP,
		models.ErrKindExtraction,
		models.ErrKindMissingKey:
		return http.StatusBadRequest // 400
	case models.ErrKindUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrKindTooManyRequests:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
