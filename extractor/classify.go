package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/focusmode/models"
)

// Failure messages, one per page kind.
const (
	msgNoHTML  = "No HTML content provided"
	msgDynamic = "Could not extract content. This page uses dynamic JavaScript rendering. Try a static article page instead."
	msgPaywall = "This page appears to be behind a paywall or requires login."
	msgEmpty   = "Could not extract meaningful content from this page."
)

// Dynamic-page thresholds.
const (
	scriptHeavyBodyLen = 500
	scriptHeavyCount   = 5
	spaBodyLen         = 1000
)

// classifyFailure explains why too little text was recovered. rawHTML is
// the fetched page; cleaned is the document after clutter removal. Dynamic
// rendering is checked before paywalls.
func classifyFailure(rawHTML string, cleaned *goquery.Document) (string, string) {
	if isDynamic(rawHTML) {
		return models.PageKindDynamic, msgDynamic
	}
	if isPaywalled(rawHTML, cleaned) {
		return models.PageKindPaywall, msgPaywall
	}
	return models.PageKindEmpty, msgEmpty
}

// isDynamic reports whether rawHTML looks client-rendered: many scripts over
// a thin body, or a SPA framework fingerprint over a modest body.
func isDynamic(rawHTML string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return false
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return false
	}

	bodyLen := 0
	for _, line := range textLines(body.Nodes) {
		bodyLen += runeLen(line)
	}

	scripts := strings.Count(rawHTML, "<script")
	if bodyLen < scriptHeavyBodyLen && scripts > scriptHeavyCount {
		return true
	}

	lower := strings.ToLower(rawHTML)
	return containsAny(lower, spaMarkers) && bodyLen < spaBodyLen
}

// isPaywalled reports whether any remaining element carries a paywall class
// or the raw page mentions a subscription gate.
func isPaywalled(rawHTML string, cleaned *goquery.Document) bool {
	gated := cleaned.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, cls := range strings.Fields(strings.ToLower(s.AttrOr("class", ""))) {
			if containsAny(cls, paywallClasses) {
				return true
			}
		}
		return false
	}).Length() > 0
	if gated {
		return true
	}
	return containsAny(strings.ToLower(rawHTML), paywallPhrases)
}
