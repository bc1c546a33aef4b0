// Package services defines shared utilities consumed by the narration
// components and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp player and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper so failures from the TTS
//     collaborator, the audio cache and ffprobe classify consistently.
//
// Use these helpers when wiring new integrations so error handling and
// observability stay uniform.
package services
