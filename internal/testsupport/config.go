package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"speechsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.TTS.BaseURL = "http://127.0.0.1:0"
	cfgVal.Playback.AutoplayDelayMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTTSURL points the test config at a narration service.
func WithTTSURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.BaseURL = url
	}
}

// WithoutAudioCache disables the SQLite audio cache.
func WithoutAudioCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AudioCache.Enabled = false
	}
}

// WithStubbedFFprobe writes an ffprobe stub that reports an audio stream of
// the given length and points the config at it.
func WithStubbedFFprobe(seconds float64) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		report := fmt.Sprintf(`{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"%f"}}`, seconds)
		reportPath := filepath.Join(binDir, "ffprobe.json")
		if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
			b.t.Fatalf("write ffprobe report: %v", err)
		}
		target := filepath.Join(binDir, "ffprobe")
		script := []byte("#!/bin/sh\nif [ \"$1\" = \"-version\" ]; then echo 'ffprobe version 6.1.1-stub'; exit 0; fi\ncat '" + reportPath + "'\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.Playback.FFprobeBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}

// WriteConfig serializes the essentials of cfg to a TOML file under the
// config's base directory and returns its path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(BaseDir(cfg), "config.toml")
	content := fmt.Sprintf(`[paths]
log_dir = %q
cache_dir = %q

[tts]
base_url = %q

[playback]
autoplay_delay_ms = %d
ffprobe_binary = %q

[audio_cache]
enabled = %t
`, cfg.Paths.LogDir, cfg.Paths.CacheDir, cfg.TTS.BaseURL, cfg.Playback.AutoplayDelayMS,
		cfg.Playback.FFprobeBinary, cfg.AudioCache.Enabled)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
