package models

// SimplifyResponse is the successful response for POST /api/simplify.
// Failures use ErrorResponse.
//
// OriginalText, SimplifiedText and Title are always present, even when empty. When the AI
// step failed but extraction succeeded, Success stays true, SimplifiedText
// equals OriginalText and AIError / ErrorType describe the AI failure.
type SimplifyResponse struct {
	Success bool `json:"success"`

	OriginalText     string    `json:"original_text"`
	SimplifiedText   string    `json:"simplified_text"`
	OriginalMarkdown string    `json:"original_markdown,omitempty"`
	Title            string    `json:"title"`
	Truncated        bool      `json:"truncated"`
	ColdStartWarning bool      `json:"cold_start_warning"`
	Metadata         *Metadata `json:"metadata,omitempty"`

	// AIError and ErrorType are set only when simplification degraded to
	// the original text.
	AIError   string `json:"ai_error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

// Metadata holds page-level information extracted alongside the article.
type Metadata struct {
	Description string `json:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Author      string `json:"author,omitempty"`
	Language    string `json:"language,omitempty"`
	SourceURL   string `json:"source_url"`
}

// ErrorResponse is the envelope of every failed request, from any stage or
// middleware.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`

	// PageType is set on extraction failures: dynamic, paywall or empty.
	PageType string `json:"page_type,omitempty"`
}

// FailureResponse builds a failed response. An empty message falls back to
// the caller-facing message for kind.
func FailureResponse(kind, message string) *ErrorResponse {
	if message == "" {
		message = MessageFor(kind)
	}
	return &ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorType: kind,
	}
}

// ExtractResponse is the response for POST /api/extract and the CLI extract
// command.
type ExtractResponse struct {
	Success          bool      `json:"success"`
	Title            string    `json:"title"`
	OriginalText     string    `json:"original_text"`
	OriginalMarkdown string    `json:"original_markdown,omitempty"`
	Metadata         *Metadata `json:"metadata,omitempty"`
	Strategy         string    `json:"strategy"`
	UsedFallback     bool      `json:"used_fallback"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Uptime   string `json:"uptime"`
	Version  string `json:"version"`
	Provider string `json:"provider"`
}

// IndexResponse is the response for GET /.
type IndexResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Status      string            `json:"status"`
	Endpoints   map[string]string `json:"endpoints"`
	Description string            `json:"description"`
}

// Version is reported by the index and health endpoints.
const Version = "1.0.0"
