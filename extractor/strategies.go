package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Acceptance thresholds, in characters.
const (
	minParagraphLen     = 20  // encyclopedia paragraphs
	minArticleParagraph = 50  // generic paragraphs
	minParagraphCount   = 3   // paragraph strategy needs more than this many <p>
	minBlockText        = 100 // element-based strategies
	minJoinedParagraphs = 200 // paragraph-based strategies
)

// candidate is the text a strategy recovered plus the nodes it came from.
type candidate struct {
	strategy string
	text     string
	content  *goquery.Selection
}

// strategy inspects a cleaned document and returns a candidate, or nil when
// its acceptance threshold is not met.
type strategy struct {
	name string
	run  func(doc *goquery.Document) *candidate
}

// cascade is tried in order; the first accepted candidate wins.
var cascade = []strategy{
	{"encyclopedia", fromEncyclopedia},
	{"article", fromArticle},
	{"container", fromContainer},
	{"paragraphs", fromParagraphs},
	{"largest_block", fromLargestBlock},
	{"body", fromBody},
	{"document", fromDocument},
}

// fromEncyclopedia handles MediaWiki layouts. It works on a clone so the
// junk it strips is still visible to later strategies.
func fromEncyclopedia(doc *goquery.Document) *candidate {
	var root *goquery.Selection
	for _, sel := range encyclopediaRoots {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			root = found
			break
		}
	}
	if root == nil {
		return nil
	}

	clone := root.Clone()
	clone.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return encyclopediaJunkRe.MatchString(s.AttrOr("class", ""))
	}).Remove()
	clone.FindMatcher(editSection).Remove()

	paragraphs := clone.Find("p")
	if paragraphs.Length() == 0 {
		return nil
	}
	text := joinParagraphs(paragraphs, minParagraphLen)
	if runeLen(text) <= minJoinedParagraphs {
		return nil
	}
	return &candidate{text: text, content: paragraphs}
}

func fromArticle(doc *goquery.Document) *candidate {
	article := doc.Find("article").First()
	if article.Length() == 0 {
		return nil
	}
	return elementCandidate(article, minBlockText)
}

// fromContainer tries the usual main-content containers in a fixed order.
func fromContainer(doc *goquery.Document) *candidate {
	containers := []*goquery.Selection{
		doc.Find("main").First(),
		firstWithAttr(doc, "[class]", "class", func(v string) bool { return containerClassRe.MatchString(v) }),
		firstWithAttr(doc, "[id]", "id", func(v string) bool { return containerIDRe.MatchString(v) }),
		firstWithAttr(doc, "div[class]", "class", func(v string) bool { return storyClassRe.MatchString(v) }),
	}
	for _, c := range containers {
		if c.Length() == 0 {
			continue
		}
		if cand := elementCandidate(c, minBlockText); cand != nil {
			return cand
		}
	}
	return nil
}

func fromParagraphs(doc *goquery.Document) *candidate {
	paragraphs := doc.Find("p")
	if paragraphs.Length() <= minParagraphCount {
		return nil
	}
	text := joinParagraphs(paragraphs, minArticleParagraph)
	if runeLen(text) <= minJoinedParagraphs {
		return nil
	}
	return &candidate{text: text, content: paragraphs}
}

// fromLargestBlock picks the div or section with the most text. Ties keep
// the earlier element.
func fromLargestBlock(doc *goquery.Document) *candidate {
	var best *goquery.Selection
	bestText := ""
	bestLen := 0
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		text := normalizedText(s)
		if n := runeLen(text); n > bestLen {
			best, bestText, bestLen = s, text, n
		}
	})
	if best == nil || bestLen <= minBlockText {
		return nil
	}
	return &candidate{text: bestText, content: best}
}

func fromBody(doc *goquery.Document) *candidate {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	return &candidate{text: normalizedText(body), content: body.Contents()}
}

// fromDocument is the last resort for fragments without a body.
func fromDocument(doc *goquery.Document) *candidate {
	return &candidate{
		text:    strings.Join(textLines(doc.Nodes), "\n"),
		content: doc.Selection,
	}
}

func elementCandidate(sel *goquery.Selection, minLen int) *candidate {
	text := normalizedText(sel)
	if runeLen(text) <= minLen {
		return nil
	}
	return &candidate{text: text, content: sel}
}

// firstWithAttr returns the first element in document order matching
// selector whose attr value satisfies match.
func firstWithAttr(doc *goquery.Document, selector, attr string, match func(string) bool) *goquery.Selection {
	return doc.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return match(s.AttrOr(attr, ""))
	}).First()
}
