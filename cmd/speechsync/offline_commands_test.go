package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"speechsync/internal/commentary"
	"speechsync/internal/timeline"
)

func TestSegmentJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"segment", "--text", sampleCommentary, "--json"}, "")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	var rows []segmentRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(rows))
	}
	if rows[0].Title != commentary.KeyPoints || rows[2].Title != commentary.FutureOutlook {
		t.Fatalf("unexpected titles: %+v", rows)
	}
	if !strings.Contains(rows[1].Content, "Borrowers get a pause") {
		t.Fatalf("unexpected impact content %q", rows[1].Content)
	}
	for _, row := range rows {
		if row.Weight <= 0 {
			t.Fatalf("expected positive weight for %s", row.Title)
		}
	}
}

func TestSegmentTableReportsMode(t *testing.T) {
	out, _, err := runCLI(t, []string{"segment", "--text", "First paragraph.\n\nSecond paragraph."}, "")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	requireContains(t, out, "paragraph fallback")
	requireContains(t, out, "Second paragraph.")
}

func TestSegmentReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commentary.txt")
	if err := os.WriteFile(path, []byte(sampleCommentary), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err := runCLI(t, []string{"segment", "--file", path}, "")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	requireContains(t, out, "structured headers")
}

func TestSegmentRequiresInput(t *testing.T) {
	if _, _, err := runCLI(t, []string{"segment"}, ""); err == nil {
		t.Fatal("expected error without commentary")
	}
	if _, _, err := runCLI(t, []string{"segment", "--text", "x", "--file", "y"}, ""); err == nil {
		t.Fatal("expected error with both --text and --file")
	}
}

func TestTimelineJSONCoversDuration(t *testing.T) {
	out, _, err := runCLI(t, []string{"timeline", "--text", sampleCommentary, "--title", "Rates Report", "--duration", "60", "--json"}, "")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	var tl timeline.Timeline
	if err := json.Unmarshal([]byte(out), &tl); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(tl.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(tl.Entries))
	}
	end := tl.Entries[2].End + tl.OutroDuration
	if math.Abs(end-60) > 1e-6 {
		t.Fatalf("expected timeline to span 60s, got %f", end)
	}
	if tl.Entries[0].Start != tl.IntroDuration {
		t.Fatalf("first section should start after intro")
	}
}

func TestTimelineTable(t *testing.T) {
	out, _, err := runCLI(t, []string{"timeline", "--text", sampleCommentary, "-d", "90"}, "")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	for _, want := range []string{"Intro", "Key Points", "Impact Analysis", "Future Outlook", "Outro", "01:30.0"} {
		requireContains(t, out, want)
	}
}

func TestTimelineRejectsMissingDuration(t *testing.T) {
	if _, _, err := runCLI(t, []string{"timeline", "--text", sampleCommentary}, ""); err == nil {
		t.Fatal("expected error without --duration")
	}
}

func TestLocateIntroAndContent(t *testing.T) {
	out, _, err := runCLI(t, []string{"locate", "--text", sampleCommentary, "--duration", "60", "--at", "0"}, "")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	requireContains(t, out, "Reading:  Intro")
	if strings.Contains(out, "Sentence:") {
		t.Fatalf("intro should not report a sentence: %q", out)
	}

	tl := timeline.Build(commentary.Segment(sampleCommentary), 60, "")
	at := tl.Entries[1].ContentStart + 0.01
	out, _, err = runCLI(t, []string{"locate", "--text", sampleCommentary, "--duration", "60", "--at", strconv.FormatFloat(at, 'f', 4, 64)}, "")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	requireContains(t, out, "Impact Analysis")
	requireContains(t, out, "Sentence: 1, word 1")
	requireContains(t, out, "[")
}

func TestLocatePastEndHoldsLastSection(t *testing.T) {
	out, _, err := runCLI(t, []string{"locate", "--text", sampleCommentary, "--duration", "60", "--at", "59.9", "--json"}, "")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	var decoded struct {
		Progress struct {
			Section  int     `json:"section"`
			Fraction float64 `json:"fraction"`
		} `json:"progress"`
		Sentence string `json:"sentence"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Progress.Section != 2 || decoded.Progress.Fraction != 1 {
		t.Fatalf("expected last section fully read, got %+v", decoded.Progress)
	}
	if !strings.Contains(decoded.Sentence, "Expect one cut") {
		t.Fatalf("expected final sentence, got %q", decoded.Sentence)
	}
}

func TestLocateRejectsNegativePosition(t *testing.T) {
	if _, _, err := runCLI(t, []string{"locate", "--text", sampleCommentary, "-d", "10", "--at", "-1"}, ""); err == nil {
		t.Fatal("expected error for negative --at")
	}
}
