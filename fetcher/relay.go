package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// RelayEngine fetches a page through a third-party pass-through relay that
// returns the target's raw body, e.g. https://api.allorigins.win/raw?url=...
type RelayEngine struct {
	client  *http.Client
	baseURL string
}

// NewRelayEngine creates a RelayEngine for the relay endpoint at baseURL.
func NewRelayEngine(baseURL string) *RelayEngine {
	return &RelayEngine{
		client:  &http.Client{CheckRedirect: limitRedirects},
		baseURL: baseURL,
	}
}

func (e *RelayEngine) Name() string { return "relay" }

// RelayURL returns the relay address that proxies targetURL.
func (e *RelayEngine) RelayURL(targetURL string) string {
	return e.baseURL + "?url=" + url.QueryEscape(targetURL)
}

func (e *RelayEngine) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.RelayURL(targetURL), nil)
	if err != nil {
		return nil, fmt.Errorf("relay: build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay: do request: %w", err)
	}
	defer resp.Body.Close()

	page, err := readPage(resp, e.Name())
	if err != nil {
		return nil, err
	}
	page.FinalURL = targetURL
	return page, nil
}
