package simplifier

// Profile selects how far the text is simplified.
type Profile string

const (
	Light      Profile = "light"
	Medium     Profile = "medium"
	Aggressive Profile = "aggressive"
)

// ParseProfile returns the named profile. Unknown values become Medium.
func ParseProfile(s string) Profile {
	switch p := Profile(s); p {
	case Light, Medium, Aggressive:
		return p
	default:
		return Medium
	}
}

// WordBudget is the truncation limit applied before the provider call.
func (p Profile) WordBudget() int {
	if p == Aggressive {
		return 1500
	}
	return 2000
}

// MaxTokens bounds the chat completion output.
func (p Profile) MaxTokens() int {
	switch p {
	case Light:
		return 2500
	case Aggressive:
		return 1500
	default:
		return 2000
	}
}

// MaxLength bounds summarisation output on the inference API.
func (p Profile) MaxLength() int {
	switch p {
	case Light:
		return 600
	case Aggressive:
		return 300
	default:
		return 500
	}
}
