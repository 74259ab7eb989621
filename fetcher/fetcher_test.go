package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/focusmode/models"
)

// stubEngine records calls and the deadline it was given.
type stubEngine struct {
	name     string
	page     *Page
	err      error
	calls    atomic.Int32
	deadline time.Duration
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	s.calls.Add(1)
	if dl, ok := ctx.Deadline(); ok {
		s.deadline = time.Until(dl)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func TestFetch_InvalidURL(t *testing.T) {
	primary := &stubEngine{name: "direct"}
	fallback := &stubEngine{name: "relay"}
	f := NewWithEngines(primary, fallback, time.Second)

	for _, u := range []string{"", "ftp://example.com", "example.com", "javascript:alert(1)"} {
		res := f.Fetch(context.Background(), u)
		if res.Success {
			t.Errorf("%q: expected failure", u)
		}
		if res.ErrorKind != models.ErrKindInvalidURL {
			t.Errorf("%q: kind = %q, want invalid_url", u, res.ErrorKind)
		}
	}
	if primary.calls.Load() != 0 || fallback.calls.Load() != 0 {
		t.Error("invalid URLs must not reach any engine")
	}
}

func TestFetch_DirectSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>ok</p></body></html>"))
	}))
	defer srv.Close()

	fallback := &stubEngine{name: "relay"}
	f := NewWithEngines(NewDirectEngine("FocusModeTest/1.0"), fallback, 2*time.Second)

	res := f.Fetch(context.Background(), "  "+srv.URL+"  ")
	if !res.Success {
		t.Fatalf("unexpected failure: %s (%s)", res.Error, res.ErrorKind)
	}
	if !strings.Contains(res.Content, "<p>ok</p>") {
		t.Errorf("content = %q", res.Content)
	}
	if res.UsedFallback || res.FallbackAttempted {
		t.Error("fallback should not be used")
	}
	if gotUA != "FocusModeTest/1.0" {
		t.Errorf("user agent = %q", gotUA)
	}
	if fallback.calls.Load() != 0 {
		t.Error("fallback must not run after a direct success")
	}
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>moved</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewWithEngines(NewDirectEngine("ua"), nil, 2*time.Second)
	res := f.Fetch(context.Background(), srv.URL+"/old")
	if !res.Success {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if !strings.HasSuffix(res.FinalURL, "/new") {
		t.Errorf("final URL = %q", res.FinalURL)
	}
}

func TestFetch_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><body>caf\xe9</body></html>"))
	}))
	defer srv.Close()

	f := NewWithEngines(NewDirectEngine("ua"), nil, 2*time.Second)
	res := f.Fetch(context.Background(), srv.URL)
	if !res.Success {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if !strings.Contains(res.Content, "café") {
		t.Errorf("content not decoded to UTF-8: %q", res.Content)
	}
}

func TestFetch_FallbackOnHTTPError(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer origin.Close()

	var relayedURL string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relayedURL = r.URL.Query().Get("url")
		_, _ = w.Write([]byte("<html><body>from relay</body></html>"))
	}))
	defer relay.Close()

	target := origin.URL + "/article?id=1&lang=en"
	f := NewWithEngines(NewDirectEngine("ua"), NewRelayEngine(relay.URL+"/raw"), 2*time.Second)
	res := f.Fetch(context.Background(), target)

	if !res.Success {
		t.Fatalf("expected fallback success, got %s", res.Error)
	}
	if !res.UsedFallback {
		t.Error("UsedFallback should be true")
	}
	if relayedURL != target {
		t.Errorf("relay received url=%q, want %q", relayedURL, target)
	}
	if res.FinalURL != target {
		t.Errorf("final URL = %q, want target", res.FinalURL)
	}
}

func TestFetch_BothFailReturnsOriginalError(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer origin.Close()

	relay := &stubEngine{name: "relay", err: errors.New("relay exploded with secret detail")}
	f := NewWithEngines(NewDirectEngine("ua"), relay, 2*time.Second)
	res := f.Fetch(context.Background(), origin.URL)

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.ErrorKind != models.ErrKindHTTP {
		t.Errorf("kind = %q, want http_error", res.ErrorKind)
	}
	if !strings.Contains(res.Error, "HTTP error 404") {
		t.Errorf("error should carry the original status: %q", res.Error)
	}
	if !strings.HasSuffix(res.Error, "Fallback also failed.") {
		t.Errorf("error should be marked exhausted: %q", res.Error)
	}
	if strings.Contains(res.Error, "secret detail") {
		t.Error("fallback failure detail must not surface")
	}
	if !res.FallbackAttempted || res.UsedFallback {
		t.Errorf("FallbackAttempted=%v UsedFallback=%v", res.FallbackAttempted, res.UsedFallback)
	}
	if relay.calls.Load() != 1 {
		t.Errorf("relay calls = %d, want exactly 1", relay.calls.Load())
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := NewWithEngines(NewDirectEngine("ua"), nil, 50*time.Millisecond)
	res := f.Fetch(context.Background(), srv.URL)

	if res.ErrorKind != models.ErrKindTimeout {
		t.Errorf("kind = %q, want timeout (error: %s)", res.ErrorKind, res.Error)
	}
}

func TestFetch_ConnectionErrorUsesDoubleTimeoutForFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	relay := &stubEngine{name: "relay", err: errors.New("down")}
	f := NewWithEngines(NewDirectEngine("ua"), relay, time.Second)
	res := f.Fetch(context.Background(), deadURL)

	if res.ErrorKind != models.ErrKindConnection {
		t.Errorf("kind = %q, want connection_error (error: %s)", res.ErrorKind, res.Error)
	}
	if relay.deadline <= time.Second || relay.deadline > 2*time.Second {
		t.Errorf("fallback deadline = %v, want just under 2s", relay.deadline)
	}
}

func TestRelayURL(t *testing.T) {
	e := NewRelayEngine("https://api.allorigins.win/raw")
	got := e.RelayURL("https://example.com/a b?x=1&y=2")
	want := "https://api.allorigins.win/raw?url=https%3A%2F%2Fexample.com%2Fa+b%3Fx%3D1%26y%3D2"
	if got != want {
		t.Errorf("RelayURL = %q, want %q", got, want)
	}
}
