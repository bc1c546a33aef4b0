package speech

import "strings"

// Per-character weights.
const (
	UppercaseWeight = 1.5
	DigitWeight     = 1.2
	ClauseWeight    = 3.0
	SentenceWeight  = 6.0
	DefaultWeight   = 1.0
)

const (
	// TitlePause is the extra weight spoken after the report title.
	TitlePause = 25.0
	// HeaderPause is the extra weight spoken after each section header.
	HeaderPause = 15.0
)

// Outro is the fixed sign-off appended by the narration service.
const Outro = " That wraps up this report."

// IntroText returns the synthetic intro the narration service reads before the
// first section.
func IntroText(title string) string {
	return title + ". "
}

// Weight returns the estimated spoken weight of text. Empty text weighs 0 and
// every other character contributes at least DefaultWeight.
func Weight(text string) float64 {
	if text == "" {
		return 0
	}
	var total float64
	for _, r := range text {
		total += RuneWeight(r)
	}
	return total
}

// RuneWeight classifies a single character. Only ASCII classes are special
// cased; every other rune falls into the default bucket.
func RuneWeight(r rune) float64 {
	switch {
	case r >= 'A' && r <= 'Z':
		return UppercaseWeight
	case r >= '0' && r <= '9':
		return DigitWeight
	case strings.ContainsRune(",;:", r):
		return ClauseWeight
	case strings.ContainsRune(".!?", r):
		return SentenceWeight
	default:
		return DefaultWeight
	}
}

// IntroWeight is the weight of the spoken title plus its trailing pause.
func IntroWeight(title string) float64 {
	return Weight(IntroText(title)) + TitlePause
}

// OutroWeight is the weight of the fixed sign-off.
func OutroWeight() float64 {
	return Weight(Outro)
}

// HeaderWeight is the weight of a spoken section header plus its pause.
func HeaderWeight(header string) float64 {
	return Weight(header) + HeaderPause
}
