package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	CacheDir string `toml:"cache_dir"`
}

// TTS contains configuration for the text-to-speech collaborator.
type TTS struct {
	BaseURL        string `toml:"base_url"`
	SpeakPath      string `toml:"speak_path"`
	APIKey         string `toml:"api_key"`
	MinAudioBytes  int    `toml:"min_audio_bytes"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Playback contains configuration for the playback controller.
type Playback struct {
	// PollIntervalMS is the progress poll cadence while playing.
	PollIntervalMS int `toml:"poll_interval_ms"`
	// Autoplay attempts playback once audio is ready.
	Autoplay bool `toml:"autoplay"`
	// AutoplayDelayMS waits this long after readiness before autoplaying.
	AutoplayDelayMS int `toml:"autoplay_delay_ms"`
	// RequireGesture mimics browser autoplay policy in the clock media.
	RequireGesture bool `toml:"require_gesture"`
	// FFprobeBinary measures synthesized audio duration.
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// AudioCache contains configuration for the synthesized audio cache.
type AudioCache struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for speechsync.
//
// Configuration sections by subsystem:
//   - Paths: log and cache directories
//   - TTS: narration endpoint and payload guard
//   - Playback: poll cadence and autoplay behaviour
//   - AudioCache: SQLite cache of synthesized audio
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	TTS        TTS        `toml:"tts"`
	Playback   Playback   `toml:"playback"`
	AudioCache AudioCache `toml:"audio_cache"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("speechsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AudioCachePath returns the SQLite database path for synthesized audio.
func (c *Config) AudioCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "audio.db")
}

// LogFilePath returns the file the CLI appends its logs to.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "speechsync.log")
}

// PlaybackLockPath returns the host-wide playback lock file.
func (c *Config) PlaybackLockPath() string {
	return filepath.Join(c.Paths.CacheDir, "playback.lock")
}

// PollInterval returns the progress poll cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Playback.PollIntervalMS) * time.Millisecond
}

// AutoplayDelay returns the delay before autoplay is attempted.
func (c *Config) AutoplayDelay() time.Duration {
	return time.Duration(c.Playback.AutoplayDelayMS) * time.Millisecond
}

// TTSTimeout returns the HTTP timeout for synthesis requests.
func (c *Config) TTSTimeout() time.Duration {
	return time.Duration(c.TTS.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
