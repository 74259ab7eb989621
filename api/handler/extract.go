package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/focusmode/models"
	"github.com/use-agent/focusmode/pipeline"
)

// Extractor is the slice of pipeline.Service used by Extract.
type Extractor interface {
	Extract(ctx context.Context, rawURL string, markdown bool) (*pipeline.Extraction, error)
}

// ExtractRequest is the payload for POST /api/extract.
type ExtractRequest struct {
	URL             string `json:"url"`
	IncludeMarkdown bool   `json:"include_markdown,omitempty"`
}

// Extract returns a handler for POST /api/extract: fetch and extract only,
// no AI call and no provider key needed.
func Extract(svc Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
			c.JSON(http.StatusBadRequest, models.FailureResponse(models.ErrKindInvalidRequest, ""))
			return
		}

		ex, err := svc.Extract(c.Request.Context(), req.URL, req.IncludeMarkdown)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ExtractResponse{
			Success:          true,
			Title:            ex.Title,
			OriginalText:     ex.Text,
			OriginalMarkdown: ex.Markdown,
			Metadata:         &ex.Metadata,
			Strategy:         ex.Strategy,
			UsedFallback:     ex.UsedFallback,
		})
	}
}
