package playback

import "context"

// Synthesizer turns commentary text into an audio payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, title string) ([]byte, error)
}

// Invalidator is implemented by synthesizers that can forget a payload the
// media element failed to load.
type Invalidator interface {
	Invalidate(ctx context.Context, text, title string)
}

// Media plays a loaded audio payload.
//
// Implementations deliver events to the registered MediaObserver from their
// own goroutines and never synchronously from a method call.
type Media interface {
	// Load buffers audio and blocks until enough is available to play through.
	// It returns the duration in seconds.
	Load(ctx context.Context, audio []byte) (float64, error)
	// Play starts or resumes playback. It returns ErrNotAllowed when the
	// environment refuses playback without a user gesture.
	Play(ctx context.Context) error
	Pause()
	Seek(seconds float64)
	CurrentTime() float64
	// Release frees the loaded audio. Load may be called again afterwards.
	Release()
	Observe(MediaObserver)
}

// MediaObserver receives media events.
type MediaObserver interface {
	TimeUpdate(currentTime float64)
	Ended()
	MediaError(err error)
}
