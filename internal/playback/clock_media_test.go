package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fixedDuration(seconds float64) DurationFunc {
	return func(context.Context, []byte) (float64, error) { return seconds, nil }
}

type recordingObserver struct {
	mu      sync.Mutex
	updates []float64
	ended   chan struct{}
}

func (o *recordingObserver) TimeUpdate(t float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.updates = append(o.updates, t)
}

func (o *recordingObserver) Ended() { close(o.ended) }

func (o *recordingObserver) MediaError(error) {}

func TestClockMediaTracksTime(t *testing.T) {
	clock := &manualClock{now: time.Unix(1000, 0)}
	m := NewClockMedia(ClockOptions{
		Duration:           fixedDuration(30),
		Now:                clock.Now,
		TimeUpdateInterval: time.Hour,
	})
	duration, err := m.Load(context.Background(), []byte("audio"))
	if err != nil || duration != 30 {
		t.Fatalf("Load = %v, %v", duration, err)
	}
	if err := m.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	clock.Advance(4 * time.Second)
	if got := m.CurrentTime(); got != 4 {
		t.Fatalf("CurrentTime = %v, want 4", got)
	}

	m.Pause()
	clock.Advance(10 * time.Second)
	if got := m.CurrentTime(); got != 4 {
		t.Fatalf("paused CurrentTime = %v, want 4", got)
	}

	m.Seek(20)
	if err := m.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	clock.Advance(time.Minute)
	if got := m.CurrentTime(); got != 30 {
		t.Fatalf("CurrentTime past end = %v, want 30", got)
	}
	m.Release()
}

func TestClockMediaRequiresGesture(t *testing.T) {
	m := NewClockMedia(ClockOptions{Duration: fixedDuration(5), RequireGesture: true})
	if _, err := m.Load(context.Background(), []byte("audio")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Play(context.Background()); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("Play err = %v, want ErrNotAllowed", err)
	}
	m.Grant()
	if err := m.Play(context.Background()); err != nil {
		t.Fatalf("Play after grant: %v", err)
	}
	m.Release()
}

func TestClockMediaRejectsEmptyLoad(t *testing.T) {
	m := NewClockMedia(ClockOptions{Duration: fixedDuration(5)})
	if _, err := m.Load(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty audio")
	}
	if err := m.Play(context.Background()); err == nil {
		t.Fatal("expected error playing unloaded media")
	}
}

func TestClockMediaFiresEnded(t *testing.T) {
	m := NewClockMedia(ClockOptions{
		Duration:           fixedDuration(0.05),
		TimeUpdateInterval: 5 * time.Millisecond,
	})
	obs := &recordingObserver{ended: make(chan struct{})}
	m.Observe(obs)
	if _, err := m.Load(context.Background(), []byte("audio")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}

	select {
	case <-obs.ended:
	case <-time.After(2 * time.Second):
		t.Fatal("ended event not delivered")
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	for i := 1; i < len(obs.updates); i++ {
		if obs.updates[i] < obs.updates[i-1] {
			t.Fatalf("time updates out of order: %v", obs.updates)
		}
	}
	if n := len(obs.updates); n == 0 || obs.updates[n-1] != 0.05 {
		t.Fatalf("final update = %v, want 0.05", obs.updates)
	}
}

func TestControllerWithClockMediaEndsNarration(t *testing.T) {
	media := NewClockMedia(ClockOptions{
		Duration:           fixedDuration(0.08),
		TimeUpdateInterval: 5 * time.Millisecond,
	})
	log := &progressLog{}
	ctrl, err := NewController(Options{
		Synthesizer:  newFakeSynth(),
		Media:        media,
		PollInterval: 2 * time.Millisecond,
		Autoplay:     true,
		OnProgress:   log.record,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.Load("Fed Decision", sampleCommentary); err != nil {
		t.Fatalf("Load: %v", err)
	}
	waitState(t, ctrl, StateEnded)

	times := log.times()
	for i := 1; i < len(times)-1; i++ {
		if times[i] < times[i-1] {
			t.Fatalf("progress out of order: %v", times)
		}
	}
}
