package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// removeClutter strips boilerplate from doc in place.
//
// Order:
//  1. structural tags (nav, header, footer, aside, script, style, ...)
//  2. elements with a clutter class, unless the element's own class list
//     names a protected container
//  3. elements with a clutter id, unless the id is protected
//  4. role="complementary" and ad/sidebar aria labels
//
// Protection applies to the element carrying it only. A protected container
// never shields its descendants.
func removeClutter(doc *goquery.Document) {
	doc.FindMatcher(structuralTags).Remove()

	doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isClutterClass(s.AttrOr("class", ""))
	}).Remove()

	doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isClutterID(s.AttrOr("id", ""))
	}).Remove()

	doc.FindMatcher(complementaryRole).Remove()

	doc.Find("[aria-label]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return adLabelRe.MatchString(s.AttrOr("aria-label", ""))
	}).Remove()
}

func isClutterClass(classAttr string) bool {
	classes := strings.Fields(strings.ToLower(classAttr))
	if len(classes) == 0 {
		return false
	}
	joined := strings.Join(classes, " ")
	if containsAny(joined, protectedClasses) {
		return false
	}
	for _, cls := range classes {
		if containsAny(cls, clutterClasses) {
			return true
		}
	}
	return false
}

func isClutterID(id string) bool {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" || containsAny(id, protectedIDs) {
		return false
	}
	return containsAny(id, clutterIDs)
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
