package logging

import (
	"math"
	"strings"
	"time"
)

// NarrationSampler thins per-tick narration progress logs down to section
// changes and fixed steps of playback time.
type NarrationSampler struct {
	step        float64
	lastSection string
	lastStep    int
}

// NewNarrationSampler logs at most once per step of media time (default 5s)
// within a section.
func NewNarrationSampler(step time.Duration) *NarrationSampler {
	if step <= 0 {
		step = 5 * time.Second
	}
	return &NarrationSampler{step: step.Seconds(), lastStep: -1}
}

// Sample reports whether the position at currentTime seconds inside section
// should be logged. Any move to a different step logs, so a seek backwards
// is reported too.
func (s *NarrationSampler) Sample(section string, currentTime float64) bool {
	if s == nil {
		return true
	}
	section = strings.TrimSpace(section)
	emit := false
	if section != "" && section != s.lastSection {
		s.lastSection = section
		s.lastStep = -1
		emit = true
	}
	if currentTime >= 0 && !math.IsInf(currentTime, 0) {
		if idx := int(currentTime / s.step); idx != s.lastStep {
			s.lastStep = idx
			emit = true
		}
	}
	return emit
}

// Reset forgets the last logged position, e.g. after a seek or a new narration.
func (s *NarrationSampler) Reset() {
	if s == nil {
		return
	}
	s.lastSection = ""
	s.lastStep = -1
}
