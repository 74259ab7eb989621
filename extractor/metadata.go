package extractor

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/dyatlov/go-opengraph/opengraph"
	readability "github.com/go-shiori/go-readability"
	"github.com/use-agent/focusmode/models"
)

// Metadata collects page-level information from rawHTML. Readability supplies
// excerpt, byline, site name and language; Open Graph tags fill whatever it
// left empty. Failures are logged and never fatal.
func Metadata(rawHTML, sourceURL string) models.Metadata {
	meta := models.Metadata{SourceURL: sourceURL}

	if parsedURL, err := nurl.Parse(sourceURL); err != nil {
		slog.Debug("metadata: invalid source URL", "url", sourceURL, "error", err)
	} else if article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL); err != nil {
		slog.Debug("metadata: readability failed", "url", sourceURL, "error", err)
	} else {
		meta.Description = strings.TrimSpace(article.Excerpt)
		meta.Author = strings.TrimSpace(article.Byline)
		meta.SiteName = strings.TrimSpace(article.SiteName)
		meta.Language = strings.TrimSpace(article.Language)
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(rawHTML)); err != nil {
		slog.Debug("metadata: opengraph failed", "url", sourceURL, "error", err)
		return meta
	}
	if meta.Description == "" {
		meta.Description = strings.TrimSpace(og.Description)
	}
	if meta.SiteName == "" {
		meta.SiteName = strings.TrimSpace(og.SiteName)
	}
	if meta.Language == "" {
		meta.Language = strings.TrimSpace(og.Locale)
	}
	return meta
}
