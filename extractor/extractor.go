// Package extractor recovers the main article text from a fetched HTML page.
//
// The page is parsed once, stripped of boilerplate, then handed to an ordered
// cascade of strategies. The first strategy whose candidate clears its
// threshold wins. When too little text survives, the failure is classified as
// a dynamic page, a paywall, or simply empty.
package extractor

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/focusmode/models"
	"golang.org/x/net/html"
)

// minExtractedLen is the shortest recovered text treated as an article.
const minExtractedLen = 100

// Result is the outcome of one Extract call.
type Result struct {
	Success bool
	Title   string
	Text    string
	Error   string

	// PageKind is static on success and dynamic, paywall or empty on
	// failure. Empty only when the page could not be parsed at all.
	PageKind string

	// Strategy names the cascade step that produced Text.
	Strategy string

	// ContentHTML is the markup Text was taken from.
	ContentHTML string

	Metadata models.Metadata
}

// Extractor is safe for concurrent use.
type Extractor struct {
	md *converter.Converter
}

// New creates an Extractor with a pre-configured Markdown converter.
func New() *Extractor {
	return &Extractor{md: newMarkdownConverter()}
}

// Extract recovers the title and main text of rawHTML. sourceURL is used
// for metadata and link resolution only.
func (e *Extractor) Extract(rawHTML, sourceURL string) *Result {
	if rawHTML == "" {
		return &Result{Error: msgNoHTML, PageKind: models.PageKindEmpty}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return &Result{Error: fmt.Sprintf("Content extraction failed: %v", err)}
	}

	// ── 1. Title, before anything is removed ────────────────────────
	title := pageTitle(doc)

	// ── 2. Clutter removal ──────────────────────────────────────────
	removeClutter(doc)

	// ── 3. Strategy cascade ─────────────────────────────────────────
	var best *candidate
	for _, s := range cascade {
		if cand := s.run(doc); cand != nil {
			cand.strategy = s.name
			best = cand
			break
		}
	}

	// ── 4. Failure classification ───────────────────────────────────
	if best == nil || runeLen(best.text) < minExtractedLen {
		kind, msg := classifyFailure(rawHTML, doc)
		slog.Debug("extraction failed", "url", sourceURL, "page_kind", kind)
		return &Result{Title: title, Error: msg, PageKind: kind}
	}

	contentHTML, err := renderNodes(best.content.Nodes)
	if err != nil {
		slog.Warn("extractor: render content failed", "url", sourceURL, "error", err)
	}

	slog.Debug("extracted content", "url", sourceURL, "strategy", best.strategy, "chars", runeLen(best.text))

	return &Result{
		Success:     true,
		Title:       title,
		Text:        best.text,
		PageKind:    models.PageKindStatic,
		Strategy:    best.strategy,
		ContentHTML: contentHTML,
		Metadata:    Metadata(rawHTML, sourceURL),
	}
}

// pageTitle returns the first non-empty <title>, else the first <h1>.
func pageTitle(doc *goquery.Document) string {
	title := ""
	doc.Find("title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title = strings.TrimSpace(s.Text())
		return title == ""
	})
	if title != "" {
		return title
	}
	return flatText(doc.Find("h1").First())
}

func renderNodes(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return buf.String(), err
		}
	}
	return buf.String(), nil
}
