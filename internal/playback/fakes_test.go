package playback

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"speechsync/internal/progress"
)

type fakeMedia struct {
	mu       sync.Mutex
	duration float64
	current  float64
	playing  bool
	playErr  error
	loadErr  error
	plays    int
	pauses   int
	releases int
	observer MediaObserver
}

func newFakeMedia(duration float64) *fakeMedia {
	return &fakeMedia{duration: duration}
}

func (m *fakeMedia) Load(ctx context.Context, audio []byte) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	m.current = 0
	return m.duration, nil
}

func (m *fakeMedia) Play(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	m.playing = false
}

func (m *fakeMedia) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = seconds
}

func (m *fakeMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *fakeMedia) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases++
	m.playing = false
}

func (m *fakeMedia) Observe(o MediaObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = o
}

func (m *fakeMedia) setLoadErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *fakeMedia) setPlayErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *fakeMedia) isPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *fakeMedia) playCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// advance moves the clock and fires a time update the way a media element would.
func (m *fakeMedia) advance(t float64) {
	m.mu.Lock()
	m.current = t
	o := m.observer
	m.mu.Unlock()
	o.TimeUpdate(t)
}

// lateUpdate fires a time update for t without moving the clock, like an
// event queued before a seek and delivered after it.
func (m *fakeMedia) lateUpdate(t float64) {
	m.mu.Lock()
	o := m.observer
	m.mu.Unlock()
	o.TimeUpdate(t)
}

func (m *fakeMedia) finish() {
	m.mu.Lock()
	m.current = m.duration
	m.playing = false
	o := m.observer
	m.mu.Unlock()
	o.Ended()
}

func (m *fakeMedia) fail(err error) {
	m.mu.Lock()
	o := m.observer
	m.mu.Unlock()
	o.MediaError(err)
}

type fakeSynth struct {
	mu         sync.Mutex
	audio      []byte
	err        error
	blockFirst bool
	calls      int
	contexts   []context.Context
	dropped    []string
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{audio: bytes.Repeat([]byte{1}, 2048)}
}

func (s *fakeSynth) Synthesize(ctx context.Context, text, title string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.contexts = append(s.contexts, ctx)
	audio, err, block := s.audio, s.err, s.blockFirst
	s.mu.Unlock()

	if block && call == 1 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return audio, err
}

func (s *fakeSynth) Invalidate(_ context.Context, _, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped = append(s.dropped, title)
}

func (s *fakeSynth) invalidated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.dropped)
}

func (s *fakeSynth) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeSynth) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeSynth) context(i int) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contexts[i]
}

type progressLog struct {
	mu     sync.Mutex
	events []progress.Progress
}

func (l *progressLog) record(p progress.Progress) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, p)
}

func (l *progressLog) times() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]float64, len(l.events))
	for i, p := range l.events {
		out[i] = p.CurrentTime
	}
	return out
}

func (l *progressLog) last() progress.Progress {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return progress.Progress{}
	}
	return l.events[len(l.events)-1]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func waitState(t *testing.T, c *Controller, want State) {
	t.Helper()
	waitFor(t, "state "+want.String(), func() bool { return c.Snapshot().State == want })
}
