package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"speechsync/internal/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected no config file, got %q", path)
	}
	if cfg.TTS.SpeakPath != "/api/tts/speak" {
		t.Fatalf("speak path = %q", cfg.TTS.SpeakPath)
	}
	if cfg.TTS.MinAudioBytes != 1000 {
		t.Fatalf("min audio bytes = %d", cfg.TTS.MinAudioBytes)
	}
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Fatalf("poll interval = %v", cfg.PollInterval())
	}
	if !cfg.Playback.Autoplay {
		t.Fatal("expected autoplay enabled by default")
	}
	if !filepath.IsAbs(cfg.Paths.LogDir) || strings.Contains(cfg.Paths.LogDir, "~") {
		t.Fatalf("log dir not expanded: %q", cfg.Paths.LogDir)
	}
	if !strings.HasSuffix(cfg.Paths.CacheDir, filepath.Join(".cache", "speechsync")) {
		t.Fatalf("cache dir = %q", cfg.Paths.CacheDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
log_dir = "~/logs"
cache_dir = "~/cache"

[tts]
base_url = "https://tts.example.com/"
speak_path = "v2/speak"
min_audio_bytes = 2048

[playback]
autoplay = false
poll_interval_ms = 250

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	home := os.Getenv("HOME")
	if cfg.Paths.LogDir != filepath.Join(home, "logs") {
		t.Fatalf("log dir = %q", cfg.Paths.LogDir)
	}
	if cfg.TTS.BaseURL != "https://tts.example.com" {
		t.Fatalf("base url = %q", cfg.TTS.BaseURL)
	}
	if cfg.TTS.SpeakPath != "/v2/speak" {
		t.Fatalf("speak path = %q", cfg.TTS.SpeakPath)
	}
	if cfg.TTS.MinAudioBytes != 2048 {
		t.Fatalf("min audio bytes = %d", cfg.TTS.MinAudioBytes)
	}
	if cfg.Playback.Autoplay {
		t.Fatal("expected autoplay disabled")
	}
	if cfg.PollInterval() != 250*time.Millisecond {
		t.Fatalf("poll interval = %v", cfg.PollInterval())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if got := cfg.AudioCachePath(); got != filepath.Join(home, "cache", "audio.db") {
		t.Fatalf("audio cache path = %q", got)
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPEECHSYNC_TTS_BASE_URL", "http://narrator:9000")
	t.Setenv("SPEECHSYNC_API_KEY", " secret ")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TTS.BaseURL != "http://narrator:9000" {
		t.Fatalf("base url = %q", cfg.TTS.BaseURL)
	}
	if cfg.TTS.APIKey != "secret" {
		t.Fatalf("api key = %q", cfg.TTS.APIKey)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[tts]\nvoice = \"alto\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad scheme", func(c *config.Config) { c.TTS.BaseURL = "ftp://host" }, "tts.base_url"},
		{"no host", func(c *config.Config) { c.TTS.BaseURL = "http://" }, "host"},
		{"negative min bytes", func(c *config.Config) { c.TTS.MinAudioBytes = -1 }, "min_audio_bytes"},
		{"zero timeout", func(c *config.Config) { c.TTS.TimeoutSeconds = 0 }, "timeout_seconds"},
		{"negative poll", func(c *config.Config) { c.Playback.PollIntervalMS = -5 }, "poll_interval_ms"},
		{"cache entries", func(c *config.Config) { c.AudioCache.MaxEntries = 0 }, "max_entries"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load sample: exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.CacheDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "a", "b") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("empty path expanded to %q", got)
	}
}
