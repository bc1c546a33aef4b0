// Package config loads, normalizes, and validates speechsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SPEECHSYNC_TTS_BASE_URL. The Config type centralizes every knob the CLI and
// playback controller need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
