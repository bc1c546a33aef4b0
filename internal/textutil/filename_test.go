package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"Rates Report":          "rates_report",
		"  Q3: Earnings / Risk": "q3_earnings_risk",
		"Fed's Next Move?":      "fed_s_next_move",
		"Année-2025":            "année-2025",
		"":                      DefaultBaseName,
		"!!!":                   DefaultBaseName,
	}
	for in, want := range cases {
		if got := SanitizeToken(in); got != want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAudioFileName(t *testing.T) {
	if got := AudioFileName("Market Wrap", ""); got != "market_wrap.mp3" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := AudioFileName("", ".wav"); got != "narration.wav" {
		t.Fatalf("unexpected name %q", got)
	}
}
