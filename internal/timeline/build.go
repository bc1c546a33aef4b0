package timeline

import (
	"math"

	"speechsync/internal/commentary"
	"speechsync/internal/speech"
)

// Entry holds the computed timestamps of one section, in seconds of audio.
type Entry struct {
	Index        int     `json:"index"`
	Start        float64 `json:"start"`
	ContentStart float64 `json:"contentStart"`
	End          float64 `json:"end"`
}

// HeaderDuration is the time spent reading the section header.
func (e Entry) HeaderDuration() float64 { return e.ContentStart - e.Start }

// Duration is the total time of the section.
func (e Entry) Duration() float64 { return e.End - e.Start }

// Timeline is the full timing layout of a narration.
type Timeline struct {
	Entries       []Entry `json:"entries"`
	Duration      float64 `json:"duration"`
	IntroDuration float64 `json:"introDuration"`
	OutroDuration float64 `json:"outroDuration"`
	TimePerWeight float64 `json:"timePerWeight"`
}

// Empty reports whether the timeline has no sections to highlight.
func (t Timeline) Empty() bool { return len(t.Entries) == 0 }

// Build lays out sections over duration seconds of narration for a report
// titled title. A degenerate input (no sections, non-positive or non-finite
// duration, zero total weight) yields an empty timeline rather than an error.
func Build(sections []commentary.Section, duration float64, title string) Timeline {
	if len(sections) == 0 || duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return Timeline{Duration: duration}
	}

	introWeight := speech.IntroWeight(title)
	outroWeight := speech.OutroWeight()

	headerWeights := make([]float64, len(sections))
	sectionWeights := make([]float64, len(sections))
	totalWeight := introWeight + outroWeight
	for i, s := range sections {
		headerWeights[i] = speech.HeaderWeight(s.Title)
		sectionWeights[i] = headerWeights[i] + speech.Weight(s.Content)
		totalWeight += sectionWeights[i]
	}
	if totalWeight <= 0 {
		return Timeline{Duration: duration}
	}

	timePerWeight := duration / totalWeight
	introDuration := introWeight * timePerWeight

	entries := make([]Entry, len(sections))
	var cumulative float64
	for i := range sections {
		start := introDuration + cumulative*timePerWeight
		cumulative += sectionWeights[i]
		entries[i] = Entry{
			Index:        i,
			Start:        start,
			ContentStart: start + headerWeights[i]*timePerWeight,
			End:          introDuration + cumulative*timePerWeight,
		}
	}

	return Timeline{
		Entries:       entries,
		Duration:      duration,
		IntroDuration: introDuration,
		OutroDuration: outroWeight * timePerWeight,
		TimePerWeight: timePerWeight,
	}
}
