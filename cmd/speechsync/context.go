package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"speechsync/internal/audiocache"
	"speechsync/internal/config"
	"speechsync/internal/logging"
	"speechsync/internal/playback"
	"speechsync/internal/services"
	"speechsync/internal/tts"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// requestContext tags ctx with a fresh correlation id and returns a logger
// carrying it.
func (c *commandContext) requestContext(ctx context.Context) (context.Context, *slog.Logger, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	return ctx, logging.WithContext(ctx, logger), nil
}

// synthesizer builds the narration source for cfg, wrapping the TTS client
// with the audio cache when enabled. The returned cleanup closes the cache.
func (c *commandContext) synthesizer(cfg *config.Config, logger *slog.Logger, useCache bool) (playback.Synthesizer, func(), error) {
	client := tts.NewClient(tts.Config{
		BaseURL:        cfg.TTS.BaseURL,
		SpeakPath:      cfg.TTS.SpeakPath,
		APIKey:         cfg.TTS.APIKey,
		MinAudioBytes:  cfg.TTS.MinAudioBytes,
		TimeoutSeconds: cfg.TTS.TimeoutSeconds,
	}, tts.WithLogger(logger))

	if !useCache || !cfg.AudioCache.Enabled {
		return client, func() {}, nil
	}
	store, err := audiocache.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return audiocache.NewSynthesizer(store, client, logger), func() { _ = store.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// offline marks commands that work purely on local text.
var offline = map[string]string{"skipConfigLoad": "true"}
