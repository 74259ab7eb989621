package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/focusmode/config"
	"github.com/use-agent/focusmode/extractor"
	"github.com/use-agent/focusmode/fetcher"
	"github.com/use-agent/focusmode/models"
	"github.com/use-agent/focusmode/simplifier"
)

var articlePage = `<html><head><title>Test Article</title></head><body>
<nav>Home | About</nav>
<article>
<h2>Section</h2>
<p>` + strings.Repeat("Readable sentence about the topic. ", 10) + `</p>
<p>Second <a href="/next">paragraph</a> of the story.</p>
</article>
</body></html>`

// newTestService serves page from an origin server and answers provider
// calls with the given status and body.
func newTestService(t *testing.T, page string, aiStatus int, aiBody string, apiKey string) (*Service, string) {
	t.Helper()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if page == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(origin.Close)

	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(aiStatus)
		_, _ = w.Write([]byte(aiBody))
	}))
	t.Cleanup(ai.Close)

	f := fetcher.NewWithEngines(fetcher.NewDirectEngine("test-agent"), nil, 2*time.Second)
	s := simplifier.New(config.AIConfig{
		APIKey:          apiKey,
		Provider:        "openrouter",
		OpenRouterURL:   ai.URL,
		OpenRouterModel: "test/model",
		Timeout:         2 * time.Second,
	})
	return New(f, extractor.New(), s), origin.URL + "/story"
}

func TestSimplify_Success(t *testing.T) {
	body := `{"choices":[{"index":0,"message":{"role":"assistant","content":"1. Simple."}}]}`
	svc, url := newTestService(t, articlePage, http.StatusOK, body, "key")

	resp, err := svc.Simplify(context.Background(), models.SimplifyRequest{URL: url, IncludeMarkdown: true})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if !resp.Success || resp.SimplifiedText != "1. Simple." {
		t.Errorf("success=%v simplified=%q", resp.Success, resp.SimplifiedText)
	}
	if resp.Title != "Test Article" {
		t.Errorf("title = %q", resp.Title)
	}
	if strings.Contains(resp.OriginalText, "Home | About") {
		t.Error("navigation leaked into the original text")
	}
	if resp.AIError != "" || resp.ErrorType != "" {
		t.Errorf("unexpected ai error %q / %q", resp.AIError, resp.ErrorType)
	}
	if !strings.Contains(resp.OriginalMarkdown, "## Section") || !strings.Contains(resp.OriginalMarkdown, "/next") {
		t.Errorf("markdown = %q", resp.OriginalMarkdown)
	}
	if resp.Metadata == nil || resp.Metadata.SourceURL != url {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
}

func TestSimplify_RateLimitDegradesToOriginal(t *testing.T) {
	body := `{"error":{"message":"Rate limit exceeded","code":429}}`
	svc, url := newTestService(t, articlePage, http.StatusTooManyRequests, body, "key")

	resp, err := svc.Simplify(context.Background(), models.SimplifyRequest{URL: url})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if !resp.Success {
		t.Fatal("AI failures must not fail the request")
	}
	if resp.SimplifiedText != resp.OriginalText || resp.OriginalText == "" {
		t.Error("simplified text should equal the original text")
	}
	if resp.ErrorType != models.ErrKindRateLimit {
		t.Errorf("error_type = %q, want rate_limit", resp.ErrorType)
	}
	if resp.AIError == "" || resp.Truncated {
		t.Errorf("ai_error=%q truncated=%v", resp.AIError, resp.Truncated)
	}
}

func TestSimplify_MissingKeyFails(t *testing.T) {
	svc, url := newTestService(t, articlePage, http.StatusOK, `{}`, "")

	_, err := svc.Simplify(context.Background(), models.SimplifyRequest{URL: url})
	var pe *models.PipelineError
	if !errors.As(err, &pe) || pe.Kind != models.ErrKindMissingKey {
		t.Fatalf("err = %v, want missing_key", err)
	}
}

func TestSimplify_FetchAndExtractionFailures(t *testing.T) {
	tests := []struct {
		name         string
		page         string
		url          string
		wantKind     string
		wantPageType string
	}{
		{"empty url", articlePage, " ", models.ErrKindInvalidRequest, ""},
		{"invalid url", articlePage, "example.com", models.ErrKindInvalidURL, ""},
		{"http error", "", "", models.ErrKindHTTP, ""},
		{"thin page", "<html><body><p>Hi</p></body></html>", "", models.ErrKindExtraction, models.PageKindEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, url := newTestService(t, tt.page, http.StatusOK, `{}`, "key")
			if tt.url != "" {
				url = tt.url
			}

			_, err := svc.Simplify(context.Background(), models.SimplifyRequest{URL: url})
			var pe *models.PipelineError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want PipelineError", err)
			}
			if pe.Kind != tt.wantKind || pe.PageType != tt.wantPageType {
				t.Errorf("kind=%q page_type=%q, want %q/%q", pe.Kind, pe.PageType, tt.wantKind, tt.wantPageType)
			}
		})
	}
}

func TestExtract_WithoutMarkdown(t *testing.T) {
	svc, url := newTestService(t, articlePage, http.StatusOK, `{}`, "")

	ex, err := svc.Extract(context.Background(), url, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ex.Markdown != "" {
		t.Error("markdown should be empty unless requested")
	}
	if ex.Strategy != "article" {
		t.Errorf("strategy = %q", ex.Strategy)
	}
}

func TestSimplify_SuccessKeepsEnvelopeKeys(t *testing.T) {
	untitled := `<html><body><article><p>` +
		strings.Repeat("Plain words for a page that has no title element. ", 5) +
		`</p></article></body></html>`
	body := `{"choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`
	svc, url := newTestService(t, untitled, http.StatusOK, body, "key")

	resp, err := svc.Simplify(context.Background(), models.SimplifyRequest{URL: url})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if resp.Title != "" {
		t.Fatalf("title = %q, want empty", resp.Title)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"success", "original_text", "simplified_text", "title", "truncated", "cold_start_warning", "metadata"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("success response is missing %q: %s", key, data)
		}
	}
}
