package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// textLines walks the subtree under each node and returns every non-blank
// line of every text node, trimmed and in NFC form. Script and style
// contents are skipped.
func textLines(nodes []*html.Node) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			for _, line := range strings.Split(n.Data, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, norm.NFC.String(line))
				}
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return lines
}

// normalizedText is the readable text of sel: one trimmed line per text run,
// blank lines dropped, paragraphs separated by a blank line.
func normalizedText(sel *goquery.Selection) string {
	return strings.Join(textLines(sel.Nodes), "\n\n")
}

// flatText is the NFC text of sel with all whitespace runs collapsed to a
// single space.
func flatText(sel *goquery.Selection) string {
	return norm.NFC.String(strings.Join(strings.Fields(sel.Text()), " "))
}

// runeLen counts characters, not bytes.
func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// joinParagraphs collects the flat text of every element in sel longer than
// minLen characters, separated by blank lines.
func joinParagraphs(sel *goquery.Selection, minLen int) string {
	var parts []string
	sel.Each(func(_ int, p *goquery.Selection) {
		if text := flatText(p); runeLen(text) > minLen {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}
