package speech

import (
	"math"
	"testing"
)

func TestWeightCharacterClasses(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"uppercase", "A", 1.5},
		{"digit", "9", 1.2},
		{"comma", ",", 3},
		{"semicolon", ";", 3},
		{"colon", ":", 3},
		{"period", ".", 6},
		{"bang", "!", 6},
		{"question", "?", 6},
		{"lowercase", "a", 1},
		{"space", " ", 1},
		{"non-ascii letter", "É", 1},
		{"mixed", "Hi, 2.", 1.5 + 1 + 3 + 1 + 1.2 + 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Weight(tt.text)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Weight(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestWeightAtLeastLength(t *testing.T) {
	samples := []string{
		"plain words only",
		"Markets RALLIED 3.5% on Friday!",
		"ünïcödé text",
		"\t\n",
		"a",
	}
	for _, s := range samples {
		runes := len([]rune(s))
		if got := Weight(s); got < float64(runes) {
			t.Fatalf("Weight(%q) = %v, expected at least %d", s, got, runes)
		}
	}
}

func TestIntroAndOutroWeights(t *testing.T) {
	// "Test. " = T(1.5) e s t(3) .(6) space(1)
	if got, want := IntroWeight("Test"), 1.5+3+6+1+TitlePause; math.Abs(got-want) > 1e-9 {
		t.Fatalf("IntroWeight = %v, want %v", got, want)
	}
	if OutroWeight() != Weight(" That wraps up this report.") {
		t.Fatalf("OutroWeight mismatch: %v", OutroWeight())
	}
	if got := HeaderWeight(""); got != HeaderPause {
		t.Fatalf("HeaderWeight(\"\") = %v, want %v", got, HeaderPause)
	}
}
