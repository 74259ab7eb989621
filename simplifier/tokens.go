package simplifier

import "unicode/utf8"

// EstimateTokens is a rough token count: runes divided by three. English
// averages about four characters per token and CJK text about one and a
// half, so three over-estimates slightly for mixed content.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	if est := n / 3; est > 0 {
		return est
	}
	return 1
}
