package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateAudioCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTTS() error {
	parsed, err := url.Parse(c.TTS.BaseURL)
	if err != nil {
		return fmt.Errorf("tts.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("tts.base_url must use http or https, got %q", c.TTS.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("tts.base_url must include a host, got %q", c.TTS.BaseURL)
	}
	if c.TTS.MinAudioBytes < 0 {
		return errors.New("tts.min_audio_bytes must not be negative")
	}
	if c.TTS.TimeoutSeconds <= 0 {
		return errors.New("tts.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.PollIntervalMS < 0 {
		return errors.New("playback.poll_interval_ms must not be negative")
	}
	if c.Playback.AutoplayDelayMS < 0 {
		return errors.New("playback.autoplay_delay_ms must not be negative")
	}
	return nil
}

func (c *Config) validateAudioCache() error {
	if c.AudioCache.Enabled && c.AudioCache.MaxEntries <= 0 {
		return errors.New("audio_cache.max_entries must be positive when audio_cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
