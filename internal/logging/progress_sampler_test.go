package logging

import (
	"math"
	"testing"
	"time"
)

func TestNewNarrationSampler(t *testing.T) {
	tests := []struct {
		name     string
		step     time.Duration
		wantStep float64
	}{
		{"default step for zero", 0, 5},
		{"default step for negative", -time.Second, 5},
		{"custom step", 2500 * time.Millisecond, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewNarrationSampler(tt.step)
			if s.step != tt.wantStep {
				t.Errorf("step = %v, want %v", s.step, tt.wantStep)
			}
			if s.lastStep != -1 {
				t.Errorf("lastStep = %d, want -1", s.lastStep)
			}
		})
	}
}

func TestNarrationSampler_NilSampler(t *testing.T) {
	var s *NarrationSampler
	if !s.Sample("content:1", 12) {
		t.Error("Sample on nil sampler should always return true")
	}
	s.Reset()
}

func TestNarrationSampler_SectionChange(t *testing.T) {
	s := NewNarrationSampler(5 * time.Second)

	if !s.Sample("intro:0", 0) {
		t.Error("first section should log")
	}
	if s.Sample("intro:0", 0.1) {
		t.Error("same section and step should not log again")
	}
	if !s.Sample(" header:1 ", 0.2) {
		t.Error("different section should log")
	}
	if s.lastSection != "header:1" {
		t.Errorf("lastSection = %q, want trimmed section", s.lastSection)
	}
}

func TestNarrationSampler_TimeSteps(t *testing.T) {
	s := NewNarrationSampler(5 * time.Second)

	if !s.Sample("content:1", 1) {
		t.Error("first position should log")
	}
	if s.Sample("content:1", 4.9) {
		t.Error("4.9s should not log (same step)")
	}
	if !s.Sample("content:1", 5) {
		t.Error("5s should log (new step)")
	}
	if s.Sample("content:1", 7) {
		t.Error("7s should not log (same step)")
	}
	if !s.Sample("content:1", 2) {
		t.Error("moving back a step should log")
	}
}

func TestNarrationSampler_IgnoresUnknownTime(t *testing.T) {
	s := NewNarrationSampler(5 * time.Second)
	s.Sample("content:1", 0)

	if s.Sample("content:1", -1) {
		t.Error("negative time should not log")
	}
	if s.Sample("content:1", math.Inf(1)) {
		t.Error("infinite time should not log")
	}
}

func TestNarrationSampler_Reset(t *testing.T) {
	s := NewNarrationSampler(5 * time.Second)
	s.Sample("content:2", 30)

	s.Reset()

	if s.lastSection != "" || s.lastStep != -1 {
		t.Fatalf("state not cleared: section=%q step=%d", s.lastSection, s.lastStep)
	}
	if !s.Sample("content:2", 30) {
		t.Error("should log after reset")
	}
}
