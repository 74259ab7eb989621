package simplifier

import (
	"regexp"
	"strings"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Truncate limits text to maxWords words, preferring paragraph boundaries.
//
//   - At or under the budget the text is returned unchanged.
//   - A single paragraph is cut to its first maxWords words, joined by
//     single spaces.
//   - Otherwise whole paragraphs are kept while the running count stays
//     within the budget. If the first paragraph alone is over budget it is
//     returned whole, however long, rather than cut mid-paragraph.
//   - If nothing fits, the text is cut by words as for a single paragraph.
func Truncate(text string, maxWords int) (string, bool) {
	if text == "" {
		return "", false
	}

	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text, false
	}

	paragraphs := paragraphBreak.Split(text, -1)
	if len(paragraphs) == 1 {
		return strings.Join(words[:maxWords], " "), true
	}

	var kept []string
	count := 0
	for i, para := range paragraphs {
		n := len(strings.Fields(para))
		if i == 0 && n > maxWords {
			return para, true
		}
		if count+n > maxWords {
			break
		}
		kept = append(kept, para)
		count += n
	}

	if len(kept) > 0 && count > 0 {
		return strings.Join(kept, "\n\n"), true
	}
	return strings.Join(words[:maxWords], " "), true
}
