package audioprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"speechsync/internal/services"
)

func writeStubProbe(t *testing.T, output string) string {
	t.Helper()
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	if err := os.WriteFile(jsonPath, []byte(output), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	script := filepath.Join(dir, "ffprobe")
	body := "#!/bin/sh\ncat '" + jsonPath + "'\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return script
}

func TestResultDuration(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   float64
	}{
		{"format duration", Result{Format: Format{Duration: "42.5"}}, 42.5},
		{"stream fallback", Result{
			Format:  Format{Duration: "N/A"},
			Streams: []Stream{{CodecType: "audio", Duration: "12.0"}, {CodecType: "audio", Duration: "13.5"}},
		}, 13.5},
		{"missing", Result{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.DurationSeconds(); got != tt.want {
				t.Fatalf("DurationSeconds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultBitRate(t *testing.T) {
	if got := (Result{Format: Format{BitRate: "128000"}}).BitRate(); got != 128000 {
		t.Fatalf("BitRate = %d", got)
	}
	if got := (Result{Format: Format{BitRate: "nope"}}).BitRate(); got != 0 {
		t.Fatalf("BitRate = %d, want 0", got)
	}
}

func TestProberDuration(t *testing.T) {
	binary := writeStubProbe(t, `{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"61.250000"}}`)
	got, err := Prober{Binary: binary, TempDir: t.TempDir()}.Duration(context.Background(), []byte("ID3 audio"))
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if got != 61.25 {
		t.Fatalf("Duration = %v, want 61.25", got)
	}
}

func TestProberRejectsPayloadWithoutAudio(t *testing.T) {
	binary := writeStubProbe(t, `{"streams":[],"format":{"duration":"1.0"}}`)
	_, err := Prober{Binary: binary}.Duration(context.Background(), []byte("{}"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProberEmptyAudio(t *testing.T) {
	if _, err := (Prober{}).Duration(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestInspectMissingBinary(t *testing.T) {
	_, err := Inspect(context.Background(), filepath.Join(t.TempDir(), "missing-ffprobe"), "/tmp/x")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
