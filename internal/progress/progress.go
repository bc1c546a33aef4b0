package progress

import (
	"fmt"

	"speechsync/internal/timeline"
)

// Kind tags the playback phase.
type Kind int

const (
	// Stopped means nothing is playing or no timeline is available.
	Stopped Kind = iota
	// Intro covers the spoken title before the first section.
	Intro
	// ReadingHeader covers a section header and its pause.
	ReadingHeader
	// ReadingContent covers a section body.
	ReadingContent
)

func (k Kind) String() string {
	switch k {
	case Intro:
		return "intro"
	case ReadingHeader:
		return "reading_header"
	case ReadingContent:
		return "reading_content"
	default:
		return "stopped"
	}
}

// IntroSection is the section index reported outside any section.
const IntroSection = -1

// Progress is the resolved playback position. Section and Fraction are only
// meaningful for ReadingHeader and ReadingContent.
type Progress struct {
	Kind        Kind    `json:"kind"`
	Section     int     `json:"section"`
	Fraction    float64 `json:"fraction"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}

// SectionIndex returns the active section, or IntroSection.
func (p Progress) SectionIndex() int {
	switch p.Kind {
	case ReadingHeader, ReadingContent:
		return p.Section
	default:
		return IntroSection
	}
}

// IsReadingHeader reports whether no section body is being read yet. The intro
// counts as header reading.
func (p Progress) IsReadingHeader() bool {
	return p.Kind == Intro || p.Kind == ReadingHeader
}

// ContentProgress returns the fraction of the section body read, in [0,1].
func (p Progress) ContentProgress() float64 {
	if p.Kind != ReadingContent {
		return 0
	}
	return p.Fraction
}

func (p Progress) String() string {
	switch p.Kind {
	case ReadingHeader:
		return fmt.Sprintf("header(%d)", p.Section)
	case ReadingContent:
		return fmt.Sprintf("content(%d, %.3f)", p.Section, p.Fraction)
	default:
		return p.Kind.String()
	}
}

// StoppedAt returns a Stopped progress at the given position.
func StoppedAt(currentTime, duration float64) Progress {
	return Progress{Kind: Stopped, Section: IntroSection, CurrentTime: currentTime, Duration: duration}
}

// Map resolves currentTime against tl.
//
// Positions before the intro ends are always Intro. Past the last section (the
// outro) the final section is reported fully read, keeping the mapping
// monotonic in currentTime.
func Map(currentTime float64, tl timeline.Timeline) Progress {
	base := Progress{Section: IntroSection, CurrentTime: currentTime, Duration: tl.Duration}
	if currentTime < tl.IntroDuration {
		base.Kind = Intro
		return base
	}
	if tl.Empty() {
		base.Kind = Stopped
		return base
	}

	for _, entry := range tl.Entries {
		if currentTime >= entry.Start && currentTime < entry.End {
			return within(base, entry, currentTime)
		}
	}

	last := tl.Entries[len(tl.Entries)-1]
	base.Kind = ReadingContent
	base.Section = last.Index
	base.Fraction = 1
	return base
}

func within(base Progress, entry timeline.Entry, currentTime float64) Progress {
	base.Section = entry.Index
	if currentTime < entry.ContentStart {
		base.Kind = ReadingHeader
		return base
	}
	base.Kind = ReadingContent
	span := entry.End - entry.ContentStart
	if span <= 0 {
		base.Fraction = 1
		return base
	}
	base.Fraction = clamp((currentTime-entry.ContentStart)/span, 0, 1)
	return base
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
