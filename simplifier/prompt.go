package simplifier

import "strings"

const framing = "You are a text simplification assistant helping people with ADHD and autism."

var instructions = map[Profile]string{
	Light: `Rewrite the following text with minimal changes:
- Keep most of the original structure
- Simplify only complex sentences
- Use clear, straightforward language
- Preserve important details and nuance`,

	Medium: `Rewrite the following text to make it easier to understand:
- Break paragraphs into short bullet points
- Use simple, plain language
- Number any sequential steps or instructions
- Keep sentences short and clear
- Remove unnecessary details`,

	Aggressive: `Rewrite the following text with maximum simplification:
- Break everything into very short bullet points (5-10 words each)
- Use only the simplest words possible
- Number all sequential steps
- Remove all unnecessary details and examples
- Focus only on the core message
- Keep it extremely concise`,
}

// BuildPrompt frames text with the instructions for profile and ends with a
// completion cue.
func BuildPrompt(text string, profile Profile) string {
	specific, ok := instructions[profile]
	if !ok {
		specific = instructions[Medium]
	}

	var b strings.Builder
	b.WriteString(framing)
	b.WriteString("\n\n")
	b.WriteString(specific)
	b.WriteString("\n\nOriginal text:\n")
	b.WriteString(text)
	b.WriteString("\n\nSimplified version:")
	return b.String()
}
