package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTool(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckReportsVersion(t *testing.T) {
	ffprobe := writeTool(t, "ffprobe", "#!/bin/sh\necho 'ffprobe version 6.1.1-3ubuntu5 Copyright (c) 2007-2023'\necho 'built with gcc 13'\n")

	results := Check(context.Background(), FFprobe(ffprobe))
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if !got.Available || got.Detail != "" {
		t.Fatalf("expected ffprobe to be available, got %#v", got)
	}
	if got.Version != "6.1.1-3ubuntu5" {
		t.Fatalf("version = %q", got.Version)
	}
	if got.Path != ffprobe || got.Name != "FFprobe" {
		t.Fatalf("unexpected status %#v", got)
	}
}

func TestCheckUnavailableTools(t *testing.T) {
	broken := writeTool(t, "ffprobe", "#!/bin/sh\nexit 1\n")
	tools := []Tool{
		FFprobe(broken),
		{Name: "Missing", Command: "clearly-not-present-binary", Optional: true},
		{Name: "Blank", Command: "  "},
	}

	results := Check(context.Background(), tools...)
	if len(results) != len(tools) {
		t.Fatalf("expected %d results, got %d", len(tools), len(results))
	}
	if results[0].Available || results[0].Detail == "" {
		t.Fatalf("expected failing binary to be unavailable, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" || !results[1].Optional {
		t.Fatalf("expected optional missing binary with detail, got %#v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected blank command to be reported, got %#v", results[2])
	}
	if Usable(context.Background(), FFprobe(broken)) {
		t.Fatal("failing binary reported usable")
	}
}

func TestCheckWithoutVersionFlag(t *testing.T) {
	present := writeTool(t, "present", "#!/bin/sh\nexit 1\n")
	if !Usable(context.Background(), Tool{Name: "Present", Command: present}) {
		t.Fatal("expected binary to be usable when no version run is requested")
	}
}

func TestParseVersion(t *testing.T) {
	tests := map[string]string{
		"ffprobe version n7.0 Copyright (c) 2007-2024\nmore": "n7.0",
		"custom-probe 2.1\n":                                 "custom-probe 2.1",
		"":                                                   "",
	}
	for in, want := range tests {
		if got := parseVersion(in); got != want {
			t.Fatalf("parseVersion(%q) = %q, want %q", in, got, want)
		}
	}
}
