// Package playback drives narrated commentary playback and reports where the
// narrator is in the text.
//
// A Controller owns one player: it preloads audio through a Synthesizer as soon
// as commentary is loaded, hands the payload to a Media implementation, and
// optionally attempts autoplay once per commentary. While playing it maps the
// media clock onto the section timeline and delivers progress.Progress values
// in nondecreasing time order. Controllers sharing a mediabus.Bus stop each
// other so only one is audible.
//
// ClockMedia is a wall-clock Media used by the CLI and tests where no real
// audio device is involved.
package playback
