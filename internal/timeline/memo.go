package timeline

import (
	"slices"
	"sync"

	"speechsync/internal/commentary"
)

// Memo caches the most recent Build result and recomputes only when the
// sections, duration or title change. It is safe for concurrent use.
type Memo struct {
	mu       sync.Mutex
	valid    bool
	sections []commentary.Section
	duration float64
	title    string
	result   Timeline
	builds   int
}

// Get returns the timeline for the given inputs.
func (m *Memo) Get(sections []commentary.Section, duration float64, title string) Timeline {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.duration == duration && m.title == title && slices.Equal(m.sections, sections) {
		return m.snapshot()
	}
	m.sections = slices.Clone(sections)
	m.duration = duration
	m.title = title
	m.result = Build(sections, duration, title)
	m.valid = true
	m.builds++
	return m.snapshot()
}

func (m *Memo) snapshot() Timeline {
	out := m.result
	out.Entries = slices.Clone(m.result.Entries)
	return out
}

// Reset drops the cached result.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	m.sections = nil
	m.result = Timeline{}
}
