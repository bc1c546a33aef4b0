package progress

import (
	"strings"
	"unicode"

	"speechsync/internal/commentary"
	"speechsync/internal/speech"
)

// Position identifies a sentence and a word within it.
type Position struct {
	Sentence int `json:"sentence"`
	Word     int `json:"word"`
}

// Sentences splits content at whitespace that follows '.', '!' or '?'.
// Blank content yields no sentences.
func Sentences(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	var (
		out   []string
		start int
	)
	runes := []rune(content)
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) && i > start && isTerminal(runes[i-1]) {
			out = append(out, string(runes[start:i]))
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Words splits a sentence on whitespace.
func Words(sentence string) []string {
	return strings.Fields(sentence)
}

// Locate finds the sentence and word being spoken once fraction of content has
// been read. Rounding past the end clamps to the last sentence and word.
func Locate(content string, fraction float64) Position {
	sentences := Sentences(content)
	if len(sentences) == 0 {
		return Position{}
	}

	weights := make([]float64, len(sentences))
	var total float64
	for i, s := range sentences {
		weights[i] = speech.Weight(s)
		total += weights[i]
	}
	target := clamp(fraction, 0, 1) * total

	idx := len(sentences) - 1
	var cumulative float64
	for i, w := range weights {
		if target < cumulative+w {
			idx = i
			break
		}
		if i < len(weights)-1 {
			cumulative += w
		}
	}

	return Position{Sentence: idx, Word: locateWord(sentences[idx], target-cumulative)}
}

func locateWord(sentence string, weightInSentence float64) int {
	words := Words(sentence)
	if weightInSentence <= 0 || len(words) == 0 {
		return 0
	}
	var cumulative float64
	for i, word := range words {
		w := speech.Weight(word)
		if i < len(words)-1 {
			w += speech.DefaultWeight
		}
		if weightInSentence < cumulative+w {
			return i
		}
		cumulative += w
	}
	return len(words) - 1
}

// Highlight is the text currently being narrated.
type Highlight struct {
	Progress Progress `json:"progress"`
	Position Position `json:"position"`
	Sentence string   `json:"sentence,omitempty"`
	Word     string   `json:"word,omitempty"`
}

// Active reports whether a section body is being read.
func (h Highlight) Active() bool {
	return h.Progress.Kind == ReadingContent
}

// Resolve expands p into the sentence and word being spoken. Outside section
// bodies only the progress is filled in.
func Resolve(p Progress, sections []commentary.Section) Highlight {
	h := Highlight{Progress: p}
	if p.Kind != ReadingContent || p.Section < 0 || p.Section >= len(sections) {
		return h
	}
	content := sections[p.Section].Content
	h.Position = Locate(content, p.Fraction)
	sentences := Sentences(content)
	if h.Position.Sentence < len(sentences) {
		h.Sentence = sentences[h.Position.Sentence]
		words := Words(h.Sentence)
		if h.Position.Word < len(words) {
			h.Word = words[h.Position.Word]
		}
	}
	return h
}
