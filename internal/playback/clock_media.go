package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

const defaultTimeUpdateInterval = 250 * time.Millisecond

// DurationFunc measures an audio payload in seconds.
type DurationFunc func(ctx context.Context, audio []byte) (float64, error)

// ClockOptions configures a ClockMedia.
type ClockOptions struct {
	// Duration measures loaded audio. Required.
	Duration DurationFunc
	// TimeUpdateInterval is the event cadence while playing (default 250ms).
	TimeUpdateInterval time.Duration
	// RequireGesture refuses Play with ErrNotAllowed until Grant is called.
	RequireGesture bool
	// Now overrides the clock.
	Now func() time.Time
}

// ClockMedia plays audio silently by advancing a wall clock.
type ClockMedia struct {
	measure        DurationFunc
	interval       time.Duration
	requireGesture bool
	now            func() time.Time

	mu        sync.Mutex
	observer  MediaObserver
	loaded    bool
	duration  float64
	position  float64
	playing   bool
	startedAt time.Time
	granted   bool
	stop      chan struct{}
}

// NewClockMedia returns an unloaded ClockMedia.
func NewClockMedia(opts ClockOptions) *ClockMedia {
	interval := opts.TimeUpdateInterval
	if interval <= 0 {
		interval = defaultTimeUpdateInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ClockMedia{
		measure:        opts.Duration,
		interval:       interval,
		requireGesture: opts.RequireGesture,
		now:            now,
	}
}

// Grant records a user gesture, lifting the autoplay restriction.
func (m *ClockMedia) Grant() {
	m.mu.Lock()
	m.granted = true
	m.mu.Unlock()
}

func (m *ClockMedia) Observe(o MediaObserver) {
	m.mu.Lock()
	m.observer = o
	m.mu.Unlock()
}

func (m *ClockMedia) Load(ctx context.Context, audio []byte) (float64, error) {
	if m.measure == nil {
		return 0, errors.New("clock media: no duration function")
	}
	if len(audio) == 0 {
		return 0, errors.New("clock media: empty audio")
	}
	duration, err := m.measure(ctx, audio)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, errors.New("clock media: audio has no duration")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.haltLocked()
	m.loaded = true
	m.duration = duration
	m.position = 0
	return duration, nil
}

func (m *ClockMedia) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return errors.New("clock media: nothing loaded")
	}
	if m.requireGesture && !m.granted {
		return ErrNotAllowed
	}
	if m.playing {
		return nil
	}
	if m.position >= m.duration {
		m.position = 0
	}
	m.playing = true
	m.startedAt = m.now()
	stop := make(chan struct{})
	m.stop = stop
	go m.run(stop)
	return nil
}

func (m *ClockMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.haltLocked()
}

func (m *ClockMedia) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	if seconds > m.duration {
		seconds = m.duration
	}
	m.position = seconds
	if m.playing {
		m.startedAt = m.now()
	}
}

func (m *ClockMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

func (m *ClockMedia) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.haltLocked()
	m.loaded = false
	m.duration = 0
	m.position = 0
}

func (m *ClockMedia) currentLocked() float64 {
	pos := m.position
	if m.playing {
		pos += m.now().Sub(m.startedAt).Seconds()
	}
	if pos > m.duration {
		pos = m.duration
	}
	return pos
}

func (m *ClockMedia) haltLocked() {
	if !m.playing {
		return
	}
	m.position = m.currentLocked()
	m.playing = false
	close(m.stop)
	m.stop = nil
}

func (m *ClockMedia) run(stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		m.mu.Lock()
		select {
		case <-stop:
			m.mu.Unlock()
			return
		default:
		}
		current := m.currentLocked()
		ended := current >= m.duration
		if ended {
			m.haltLocked()
		}
		observer := m.observer
		m.mu.Unlock()

		if observer == nil {
			if ended {
				return
			}
			continue
		}
		if ended {
			observer.TimeUpdate(current)
			observer.Ended()
			return
		}
		observer.TimeUpdate(current)
	}
}
