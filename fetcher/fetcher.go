package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/use-agent/focusmode/config"
	"github.com/use-agent/focusmode/models"
)

// Result is the outcome of one Fetch call. It is never mutated after Fetch
// returns.
type Result struct {
	Success bool
	Content string
	Error   string

	// ErrorKind is one of invalid_url, timeout, connection_error,
	// http_error or fetch_error. Empty on success.
	ErrorKind string

	// UsedFallback is true when the content came from the relay.
	UsedFallback bool

	// FallbackAttempted is true whenever the relay was tried.
	FallbackAttempted bool

	StatusCode int
	FinalURL   string
}

// Fetcher retrieves raw HTML with a primary attempt followed by at most one
// fallback attempt. It never retries beyond that.
type Fetcher struct {
	primary  Engine
	fallback Engine // nil disables the fallback
	timeout  time.Duration
}

// New creates a Fetcher from configuration: a DirectEngine as primary and,
// unless disabled, a RelayEngine as fallback.
func New(cfg config.FetchConfig) *Fetcher {
	var fallback Engine
	if !cfg.DisableRelay && cfg.RelayURL != "" {
		fallback = NewRelayEngine(cfg.RelayURL)
	}
	return NewWithEngines(NewDirectEngine(cfg.UserAgent), fallback, cfg.Timeout)
}

// NewWithEngines creates a Fetcher with explicit engines. The fallback gets
// twice the primary timeout.
func NewWithEngines(primary, fallback Engine, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{primary: primary, fallback: fallback, timeout: timeout}
}

// Fetch validates targetURL and retrieves it.
//
// Flow:
//  1. Reject anything that is not http:// or https:// (no network call).
//  2. Primary engine, bounded by the configured timeout.
//  3. On any primary failure, exactly one fallback attempt with twice the
//     timeout. If that fails too, the primary error is returned, marked as
//     exhausted.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) *Result {
	targetURL = strings.TrimSpace(targetURL)
	if !IsValidURL(targetURL) {
		return &Result{
			Error:     "Invalid URL format. Please provide a valid HTTP or HTTPS URL.",
			ErrorKind: models.ErrKindInvalidURL,
		}
	}

	page, err := f.attempt(ctx, f.primary, targetURL, f.timeout)
	if err == nil {
		return pageResult(page, false)
	}

	kind, msg := f.classify(err)
	slog.Debug("primary fetch failed", "url", targetURL, "kind", kind, "error", err)

	if f.fallback == nil {
		return &Result{Error: msg, ErrorKind: kind}
	}

	page, fbErr := f.attempt(ctx, f.fallback, targetURL, 2*f.timeout)
	if fbErr == nil {
		slog.Info("fetched via fallback", "url", targetURL, "engine", page.EngineName)
		return pageResult(page, true)
	}
	slog.Debug("fallback fetch failed", "url", targetURL, "error", fbErr)

	return &Result{
		Error:             msg + " Fallback also failed.",
		ErrorKind:         kind,
		FallbackAttempted: true,
	}
}

func (f *Fetcher) attempt(ctx context.Context, eng Engine, targetURL string, timeout time.Duration) (*Page, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return eng.Fetch(attemptCtx, targetURL)
}

// classify maps a primary-attempt error to an error kind and caller message.
func (f *Fetcher) classify(err error) (string, string) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return models.ErrKindHTTP, fmt.Sprintf("HTTP error %d: The server returned an error response.", statusErr.StatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return models.ErrKindTimeout, fmt.Sprintf("Request timed out after %s.", f.timeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.ErrKindTimeout, fmt.Sprintf("Request timed out after %s.", f.timeout)
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return models.ErrKindConnection, "Connection failed: Unable to reach the server."
	}

	return models.ErrKindFetch, fmt.Sprintf("Failed to fetch content: %v", err)
}

func pageResult(page *Page, fallback bool) *Result {
	return &Result{
		Success:           true,
		Content:           page.HTML,
		UsedFallback:      fallback,
		FallbackAttempted: fallback,
		StatusCode:        page.StatusCode,
		FinalURL:          page.FinalURL,
	}
}

// IsValidURL reports whether rawURL is an http or https URL.
func IsValidURL(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}
