// Package tts talks to the narration service that turns article commentary
// into audio.
//
// Client.Synthesize posts the narration text and article title as JSON and
// returns the raw audio payload. Small responses are treated as error bodies
// rather than audio, and non-2xx responses surface the server's message
// through StatusError so callers can show it to readers via UserMessage.
// Requests are never retried automatically.
package tts
