package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizePlayback()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() {
	if value, ok := os.LookupEnv("SPEECHSYNC_TTS_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.TTS.BaseURL = value
	}
	c.TTS.BaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.BaseURL), "/")
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultTTSBaseURL
	}
	c.TTS.SpeakPath = strings.TrimSpace(c.TTS.SpeakPath)
	if c.TTS.SpeakPath == "" {
		c.TTS.SpeakPath = defaultTTSSpeakPath
	}
	if !strings.HasPrefix(c.TTS.SpeakPath, "/") {
		c.TTS.SpeakPath = "/" + c.TTS.SpeakPath
	}
	c.TTS.APIKey = strings.TrimSpace(c.TTS.APIKey)
	if c.TTS.APIKey == "" {
		if value, ok := os.LookupEnv("SPEECHSYNC_API_KEY"); ok {
			c.TTS.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizePlayback() {
	c.Playback.FFprobeBinary = strings.TrimSpace(c.Playback.FFprobeBinary)
	if c.Playback.FFprobeBinary == "" {
		c.Playback.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "speechsync")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/speechsync"
	}
	return filepath.Join(home, ".cache", "speechsync")
}
