package models

import "fmt"

// Error kinds surfaced in the error_type field of API responses.
const (
	ErrKindInvalidRequest  = "invalid_request"
	ErrKindInvalidURL      = "invalid_url"
	ErrKindFetch           = "fetch_error"
	ErrKindTimeout         = "timeout"
	ErrKindConnection      = "connection_error"
	ErrKindHTTP            = "http_error"
	ErrKindExtraction      = "extraction_error"
	ErrKindMissingKey      = "missing_key"
	ErrKindInvalidKey      = "invalid_key"
	ErrKindRateLimit       = "rate_limit"
	ErrKindAPI             = "api_error"
	ErrKindServer          = "server_error"
	ErrKindUnauthorized    = "unauthorized"
	ErrKindTooManyRequests = "too_many_requests"
)

// Page kinds reported by the extractor.
const (
	PageKindStatic  = "static"
	PageKindDynamic = "dynamic"
	PageKindPaywall = "paywall"
	PageKindEmpty   = "empty"
	PageKindUnknown = "unknown"
)

// Messages shown to callers when a stage does not supply its own.
var ErrorMessages = map[string]string{
	ErrKindFetch:          "Unable to fetch the webpage. Please check the URL and try again.",
	ErrKindTimeout:        "Request timed out. The server took too long to respond.",
	ErrKindConnection:     "Connection failed. Unable to reach the server. Please check your internet connection.",
	ErrKindHTTP:           "The server returned an error response. The page may not be accessible.",
	ErrKindInvalidURL:     "Please enter a valid URL starting with http:// or https://",
	ErrKindExtraction:     "Could not extract content. This page may be JavaScript-heavy or behind a paywall.",
	ErrKindMissingKey:     "Please provide your own API key to use AI simplification. You can enter it in the form or set AI_API_KEY.",
	ErrKindInvalidKey:     "Invalid API key. Please check your API key and try again.",
	ErrKindRateLimit:      "API rate limit reached. Please wait a few minutes and try again.",
	ErrKindAPI:            "AI simplification failed. Displaying original content instead.",
	ErrKindInvalidRequest: "Invalid request. Please provide a valid URL.",
	ErrKindServer:         "An unexpected server error occurred. Please try again later.",
}

// MessageFor returns the caller-facing message for kind, falling back to the
// generic fetch message.
func MessageFor(kind string) string {
	if msg, ok := ErrorMessages[kind]; ok {
		return msg
	}
	return ErrorMessages[ErrKindFetch]
}

// PipelineError is the internal error type carrying an error kind.
// It implements the error interface and supports error wrapping via Unwrap.
type PipelineError struct {
	Kind    string
	Message string
	Err     error // wrapped original error

	// PageType is set on extraction errors.
	PageType string
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(kind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}
