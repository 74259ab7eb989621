package fetcher

import (
	"context"
	"fmt"
)

// Engine is the interface that both fetch attempts implement.
type Engine interface {
	// Name returns the engine identifier ("direct" or "relay").
	Name() string

	// Fetch retrieves the page at targetURL. Deadlines come from ctx.
	Fetch(ctx context.Context, targetURL string) (*Page, error)
}

// Page is the output of a successful engine fetch.
type Page struct {
	HTML       string
	StatusCode int
	FinalURL   string
	EngineName string
}

// StatusError reports an HTTP response with status >= 400.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}
