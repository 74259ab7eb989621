// Package pipeline runs fetch → extract → simplify for a single URL and
// applies the degradation rule between them. It is shared by the HTTP API,
// the MCP server and the CLI.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/use-agent/focusmode/config"
	"github.com/use-agent/focusmode/extractor"
	"github.com/use-agent/focusmode/fetcher"
	"github.com/use-agent/focusmode/models"
	"github.com/use-agent/focusmode/simplifier"
)

// Extraction is a fetched and extracted article.
type Extraction struct {
	Title    string
	Text     string
	Markdown string // only when requested
	Metadata models.Metadata

	Strategy     string
	UsedFallback bool

	// SourceTokens and Tokens estimate the size of the fetched HTML and of
	// the extracted text.
	SourceTokens int
	Tokens       int
}

// Service wires the three stages together. It holds no per-request state.
type Service struct {
	fetcher    *fetcher.Fetcher
	extractor  *extractor.Extractor
	simplifier *simplifier.Simplifier
}

// New creates a Service from already constructed stages.
func New(f *fetcher.Fetcher, e *extractor.Extractor, s *simplifier.Simplifier) *Service {
	return &Service{fetcher: f, extractor: e, simplifier: s}
}

// NewFromConfig builds every stage from cfg.
func NewFromConfig(cfg *config.Config) *Service {
	return New(fetcher.New(cfg.Fetch), extractor.New(), simplifier.New(cfg.AI))
}

// Simplifier exposes the configured simplifier, for health reporting.
func (s *Service) Simplifier() *simplifier.Simplifier { return s.simplifier }

// Extract fetches rawURL and recovers its article text. Failures are
// *models.PipelineError carrying the fetch error kind, or extraction_error
// with the page type.
func (s *Service) Extract(ctx context.Context, rawURL string, markdown bool) (*Extraction, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, models.NewPipelineError(models.ErrKindInvalidRequest, models.MessageFor(models.ErrKindInvalidRequest), nil)
	}

	// ── 1. Fetch ────────────────────────────────────────────────────
	fr := s.fetcher.Fetch(ctx, rawURL)
	if !fr.Success {
		slog.Error("fetch failed",
			"error_type", fr.ErrorKind,
			"fallback_attempted", fr.FallbackAttempted,
		)
		return nil, models.NewPipelineError(fr.ErrorKind, fr.Error, nil)
	}
	slog.Info("fetched content", "used_fallback", fr.UsedFallback, "status", fr.StatusCode)

	sourceURL := fr.FinalURL
	if sourceURL == "" {
		sourceURL = rawURL
	}

	// ── 2. Extract ──────────────────────────────────────────────────
	er := s.extractor.Extract(fr.Content, sourceURL)
	if !er.Success {
		pageType := er.PageKind
		if pageType == "" {
			pageType = models.PageKindUnknown
		}
		slog.Error("extraction failed", "error_type", models.ErrKindExtraction, "page_type", pageType)

		msg := er.Error
		if msg == "" {
			msg = models.MessageFor(models.ErrKindExtraction)
		}
		return nil, &models.PipelineError{Kind: models.ErrKindExtraction, Message: msg, PageType: pageType}
	}

	ex := &Extraction{
		Title:        er.Title,
		Text:         er.Text,
		Metadata:     er.Metadata,
		Strategy:     er.Strategy,
		UsedFallback: fr.UsedFallback,
		SourceTokens: simplifier.EstimateTokens(fr.Content),
		Tokens:       simplifier.EstimateTokens(er.Text),
	}

	// ── 3. Optional Markdown ────────────────────────────────────────
	if markdown && er.ContentHTML != "" {
		md, err := s.extractor.ToMarkdown(er.ContentHTML, sourceURL)
		if err != nil {
			slog.Warn("markdown conversion failed", "url", sourceURL, "error", err)
		} else {
			ex.Markdown = md
		}
	}
	return ex, nil
}

// Simplify runs the whole flow for req.
//
// A missing provider key is an error. Any other simplification failure
// degrades: the response still succeeds, with the original text as the
// simplified text and the failure in AIError / ErrorType.
func (s *Service) Simplify(ctx context.Context, req models.SimplifyRequest) (*models.SimplifyResponse, error) {
	req.Defaults()

	ex, err := s.Extract(ctx, req.URL, req.IncludeMarkdown)
	if err != nil {
		return nil, err
	}

	// ── 4. Simplify ─────────────────────────────────────────────────
	profile := simplifier.ParseProfile(req.Profile)
	sr := s.simplifier.Simplify(ctx, ex.Text, profile, req.APIKey)

	resp := &models.SimplifyResponse{
		Success:          true,
		OriginalText:     ex.Text,
		OriginalMarkdown: ex.Markdown,
		Title:            ex.Title,
		Metadata:         &ex.Metadata,
		ColdStartWarning: sr.ColdStartHint,
	}

	if !sr.Success {
		if sr.ErrorKind == models.ErrKindMissingKey {
			return nil, models.NewPipelineError(models.ErrKindMissingKey, sr.Error, nil)
		}
		slog.Info("degrading to original content", "error_type", sr.ErrorKind)
		resp.SimplifiedText = ex.Text
		resp.Truncated = false
		resp.AIError = sr.Error
		resp.ErrorType = sr.ErrorKind
		return resp, nil
	}

	resp.SimplifiedText = sr.SimplifiedText
	resp.Truncated = sr.WasTruncated
	return resp, nil
}
