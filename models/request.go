package models

// SimplifyRequest is the payload for POST /api/simplify.
type SimplifyRequest struct {
	// URL is the page to simplify. Required.
	URL string `json:"url"`

	// APIKey is the caller's own AI provider key. When empty the
	// server-configured key is used.
	APIKey string `json:"api_key,omitempty"`

	// Profile selects the simplification preset.
	// Allowed: "light", "medium" (default), "aggressive".
	// Unknown values fall back to "medium".
	Profile string `json:"profile,omitempty"`

	// IncludeMarkdown adds the extracted article as Markdown to the response.
	IncludeMarkdown bool `json:"include_markdown,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *SimplifyRequest) Defaults() {
	if r.Profile == "" {
		r.Profile = "medium"
	}
}
