package extractor

import (
	"regexp"

	"github.com/andybalholm/cascadia"
)

// Static tables driving clutter removal and failure classification. They
// are read-only after package initialisation.

// structuralTags matches elements that never carry article text.
var structuralTags = cascadia.MustCompile("nav, header, footer, aside, script, style, noscript, iframe, form")

// clutterClasses are substrings that mark a single class as boilerplate.
var clutterClasses = []string{
	"advertisement", "ad", "ads", "sidebar", "side-bar",
	"navigation", "nav", "menu", "header", "footer",
	"comment", "comments", "social", "share", "sharing",
	"related", "recommended", "popup", "modal", "banner",
}

// protectedClasses win over clutterClasses on the same element.
var protectedClasses = []string{
	"mw-content", "mw-parser-output", "mw-body", "mw-body-content",
	"content", "main", "article",
}

// clutterIDs are substrings that mark an element id as boilerplate.
var clutterIDs = []string{
	"sidebar", "header", "footer", "nav", "navigation",
	"comments", "advertisement", "ad", "social",
}

// protectedIDs win over clutterIDs on the same element.
var protectedIDs = []string{
	"mw-content-text", "bodycontent", "mw-content", "content", "main", "article",
}

var (
	complementaryRole = cascadia.MustCompile(`[role="complementary"]`)
	adLabelRe         = regexp.MustCompile(`(?i)advertisement|sidebar`)
)

// Encyclopedia layout (MediaWiki).
var (
	encyclopediaRoots  = []string{"div#mw-content-text", "div#bodyContent"}
	encyclopediaJunkRe = regexp.MustCompile(`(?i)reflist|navbox|infobox|metadata|ambox|mbox|catlinks`)
	editSection        = cascadia.MustCompile(".mw-editsection")
)

// Container patterns tried by the container strategy.
var (
	containerClassRe = regexp.MustCompile(`(?i)(article|content|post|entry|main)`)
	containerIDRe    = regexp.MustCompile(`(?i)(article|content|post|entry|main|bodyContent)`)
	storyClassRe     = regexp.MustCompile(`(?i)story|text`)
)

// spaMarkers are lower-case fingerprints of client-rendered frameworks.
var spaMarkers = []string{
	"react", "vue", "angular", "ng-app", "data-reactroot",
	"__next_data__", "__nuxt", "ember-application",
}

// paywallClasses mark subscription or login gates when found in a class.
var paywallClasses = []string{
	"paywall", "subscribe", "subscription", "premium",
	"login-required", "sign-in", "register-wall",
}

// paywallPhrases are lower-case phrases searched in the raw HTML.
var paywallPhrases = []string{
	"subscribe to continue", "login to read", "premium content",
}
