package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/focusmode/models"
	"github.com/use-agent/focusmode/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	resp   *models.SimplifyResponse
	ex     *pipeline.Extraction
	err    error
	called bool
	got    models.SimplifyRequest
}

func (f *fakeService) Simplify(_ context.Context, req models.SimplifyRequest) (*models.SimplifyResponse, error) {
	f.called = true
	f.got = req
	return f.resp, f.err
}

func (f *fakeService) Extract(_ context.Context, _ string, _ bool) (*pipeline.Extraction, error) {
	f.called = true
	return f.ex, f.err
}

func post(h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.SimplifyResponse {
	t.Helper()
	var resp models.SimplifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestSimplify_InvalidRequest(t *testing.T) {
	for _, body := range []string{"", "not json", `{"profile":"light"}`, `{"url":"   "}`} {
		svc := &fakeService{}
		w := post(Simplify(svc), body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", body, w.Code)
		}
		if resp := decodeFailure(t, w); resp.Success || resp.ErrorType != models.ErrKindInvalidRequest {
			t.Errorf("%q: resp = %+v", body, resp)
		}
		if svc.called {
			t.Errorf("%q: pipeline must not run", body)
		}
	}
}

func TestSimplify_Success(t *testing.T) {
	svc := &fakeService{resp: &models.SimplifyResponse{
		Success:        true,
		OriginalText:   "orig",
		SimplifiedText: "short",
		Title:          "T",
	}}
	w := post(Simplify(svc), `{"url":"https://example.com","api_key":"sk-user","profile":"light"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if !resp.Success || resp.SimplifiedText != "short" {
		t.Errorf("resp = %+v", resp)
	}
	if svc.got.APIKey != "sk-user" || svc.got.Profile != "light" {
		t.Errorf("request not forwarded: %+v", svc.got)
	}
	if strings.Contains(w.Body.String(), "sk-user") {
		t.Error("API key must never be echoed")
	}
}

func TestSimplify_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		kind     string
		pageType string
	}{
		{"invalid url", models.NewPipelineError(models.ErrKindInvalidURL, "bad", nil), 400, models.ErrKindInvalidURL, ""},
		{"http error", models.NewPipelineError(models.ErrKindHTTP, "HTTP error 404", nil), 400, models.ErrKindHTTP, ""},
		{"timeout", models.NewPipelineError(models.ErrKindTimeout, "slow", nil), 400, models.ErrKindTimeout, ""},
		{"missing key", models.NewPipelineError(models.ErrKindMissingKey, "no key", nil), 400, models.ErrKindMissingKey, ""},
		{"extraction", &models.PipelineError{Kind: models.ErrKindExtraction, Message: "js", PageType: models.PageKindDynamic}, 400, models.ErrKindExtraction, models.PageKindDynamic},
		{"server", models.NewPipelineError(models.ErrKindServer, "", nil), 500, models.ErrKindServer, ""},
		{"unclassified", errors.New("boom: internal detail"), 500, models.ErrKindServer, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(Simplify(&fakeService{err: tt.err}), `{"url":"https://example.com"}`)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			resp := decodeFailure(t, w)
			if resp.Success || resp.ErrorType != tt.kind || resp.PageType != tt.pageType {
				t.Errorf("resp = %+v", resp)
			}
			if resp.Error == "" {
				t.Error("error message should never be empty")
			}
			if strings.Contains(w.Body.String(), "internal detail") {
				t.Error("unclassified error detail leaked")
			}
		})
	}
}

func TestSimplify_DegradedIsOK(t *testing.T) {
	svc := &fakeService{resp: &models.SimplifyResponse{
		Success:        true,
		OriginalText:   "orig",
		SimplifiedText: "orig",
		AIError:        "API rate limit reached.",
		ErrorType:      models.ErrKindRateLimit,
	}}
	w := post(Simplify(svc), `{"url":"https://example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decode(t, w); resp.ErrorType != models.ErrKindRateLimit || resp.SimplifiedText != resp.OriginalText {
		t.Errorf("resp = %+v", resp)
	}
}

func TestExtract(t *testing.T) {
	svc := &fakeService{ex: &pipeline.Extraction{
		Title:    "Title",
		Text:     "body text",
		Markdown: "# Title",
		Strategy: "article",
		Metadata: models.Metadata{SourceURL: "https://example.com"},
	}}
	w := post(Extract(svc), `{"url":"https://example.com","include_markdown":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp models.ExtractResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.OriginalText != "body text" || resp.OriginalMarkdown != "# Title" || resp.Strategy != "article" {
		t.Errorf("resp = %+v", resp)
	}

	w = post(Extract(&fakeService{err: &models.PipelineError{Kind: models.ErrKindExtraction, Message: "x", PageType: models.PageKindPaywall}}), `{"url":"https://example.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if resp := decodeFailure(t, w); resp.PageType != models.PageKindPaywall {
		t.Errorf("page_type = %q", resp.PageType)
	}
}

func TestHealthAndIndex(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health("openrouter", time.Now().Add(-time.Minute)))
	r.GET("/", Index())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || health.Version != models.Version || health.Provider != "openrouter" {
		t.Errorf("health = %+v", health)
	}
	if health.Uptime != "1m0s" {
		t.Errorf("uptime = %q", health.Uptime)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	var index models.IndexResponse
	if err := json.Unmarshal(w.Body.Bytes(), &index); err != nil {
		t.Fatal(err)
	}
	if index.Endpoints["simplify"] != "/api/simplify" || index.Status != "running" {
		t.Errorf("index = %+v", index)
	}
}

func TestSimplify_FailureEnvelopeShape(t *testing.T) {
	w := post(Simplify(&fakeService{err: models.NewPipelineError(models.ErrKindHTTP, "HTTP error 404", nil)}), `{"url":"https://example.com"}`)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"success", "error", "error_type"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing %q in %s", key, w.Body.String())
		}
	}
	for _, key := range []string{"title", "original_text", "simplified_text"} {
		if _, ok := fields[key]; ok {
			t.Errorf("failure should not carry %q: %s", key, w.Body.String())
		}
	}
}
