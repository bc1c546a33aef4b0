package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"speechsync/internal/commentary"
	"speechsync/internal/logging"
	"speechsync/internal/mediabus"
	"speechsync/internal/progress"
	"speechsync/internal/services"
	"speechsync/internal/timeline"
	"speechsync/internal/tts"
)

const defaultPollInterval = 100 * time.Millisecond

// Options configures a Controller.
type Options struct {
	Synthesizer Synthesizer
	Media       Media
	// Bus defaults to mediabus.Default().
	Bus    *mediabus.Bus
	Logger *slog.Logger
	// PollInterval supplements media time updates while playing. Zero uses
	// the default; a negative value disables polling.
	PollInterval  time.Duration
	Autoplay      bool
	AutoplayDelay time.Duration
	// OnState receives a snapshot after every state or message change. It may
	// be called from any goroutine.
	OnState func(Snapshot)
	// OnProgress receives positions in nondecreasing time order. It runs
	// synchronously and must not call Seek or SeekAndPlay.
	OnProgress func(progress.Progress)
}

// Snapshot is a consistent view of the controller.
type Snapshot struct {
	ID       string
	State    State
	Title    string
	Sections []commentary.Section
	Duration float64
	Progress progress.Progress
	// Message is the reader-facing error, empty when nothing needs saying.
	Message string
}

// Controller drives one narrated player.
type Controller struct {
	id            string
	synth         Synthesizer
	media         Media
	bus           *mediabus.Bus
	logger        *slog.Logger
	pollInterval  time.Duration
	autoplay      bool
	autoplayDelay time.Duration
	onState       func(Snapshot)
	onProgress    func(progress.Progress)
	unregister    func()

	mu                sync.Mutex
	state             State
	loaded            bool
	title             string
	text              string
	sections          []commentary.Section
	duration          float64
	message           string
	generation        uint64
	epoch             uint64
	hasMedia          bool
	autoplayAttempted bool
	playPending       bool
	ctx               context.Context
	cancel            context.CancelFunc
	autoplayTimer     *time.Timer
	pollStop          chan struct{}
	closed            bool
	memo              timeline.Memo

	emitMu         sync.Mutex
	deliveredEpoch uint64
	lastDelivered  float64
	sampler        *logging.NarrationSampler

	progressMu   sync.Mutex
	lastProgress progress.Progress
}

// NewController registers a new player on the bus.
func NewController(opts Options) (*Controller, error) {
	if opts.Synthesizer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "playback", "new controller", "synthesizer required", nil)
	}
	if opts.Media == nil {
		return nil, services.Wrap(services.ErrConfiguration, "playback", "new controller", "media required", nil)
	}
	bus := opts.Bus
	if bus == nil {
		bus = mediabus.Default()
	}
	poll := opts.PollInterval
	if poll == 0 {
		poll = defaultPollInterval
	}

	id := uuid.NewString()
	ctx := services.WithPlayerID(context.Background(), id)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "playback"))

	c := &Controller{
		id:            id,
		synth:         opts.Synthesizer,
		media:         opts.Media,
		bus:           bus,
		logger:        logger,
		pollInterval:  poll,
		autoplay:      opts.Autoplay,
		autoplayDelay: opts.AutoplayDelay,
		onState:       opts.OnState,
		onProgress:    opts.OnProgress,
		lastDelivered: math.Inf(-1),
		sampler:       logging.NewNarrationSampler(5 * time.Second),
		lastProgress:  progress.StoppedAt(0, 0),
	}
	c.media.Observe(observer{c: c})
	c.unregister = bus.Register(id, c.interrupt)
	return c, nil
}

// ID returns the player identifier used on the bus.
func (c *Controller) ID() string { return c.id }

// Load switches the controller to new commentary and starts preloading its
// narration. Loading the same title and commentary again is a no-op.
func (c *Controller) Load(title, text string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.loaded && c.title == title && c.text == text {
		c.mu.Unlock()
		return nil
	}
	c.resetLocked()
	c.loaded = true
	c.title = title
	c.text = text
	c.sections = commentary.Segment(text)

	if strings.TrimSpace(text) == "" {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return nil
	}

	job := c.beginPreloadLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("narration preload started",
		logging.String(logging.FieldEventType, "preload_started"),
		logging.Int("characters", len(text)),
	)
	c.notify(snap)
	go c.preload(job)
	return nil
}

// Play starts playback, preloading first when no audio is ready. Errors that
// the reader should see are also reported through Snapshot.Message.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.loaded || strings.TrimSpace(c.text) == "" {
		c.mu.Unlock()
		return ErrNoCommentary
	}
	switch c.state {
	case StatePlaying:
		c.mu.Unlock()
		return nil
	case StatePreloading:
		c.playPending = true
		c.mu.Unlock()
		return nil
	case StateIdle, StateError:
		job := c.beginPreloadLocked()
		c.playPending = true
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		go c.preload(job)
		return nil
	case StateEnded:
		c.media.Seek(0)
		c.epoch++
	}
	c.autoplayAttempted = true
	c.stopAutoplayLocked()
	gen := c.generation
	c.mu.Unlock()
	return c.startPlayback(ctx, gen, true)
}

// Pause stops playback and keeps the position.
func (c *Controller) Pause() {
	c.pause("paused")
}

// Toggle pauses when playing and plays otherwise.
func (c *Controller) Toggle(ctx context.Context) error {
	c.mu.Lock()
	playing := c.state == StatePlaying
	c.mu.Unlock()
	if playing {
		c.Pause()
		return nil
	}
	return c.Play(ctx)
}

// Seek moves the playhead. Positions outside the audio are clamped.
func (c *Controller) Seek(seconds float64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.state.CanSeek() {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("seek while %s: %w", state, ErrInvalidState)
	}
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds > c.duration {
		seconds = c.duration
	}
	c.media.Seek(seconds)
	c.epoch++
	epoch := c.epoch
	tl := c.memo.Get(c.sections, c.duration, c.title)
	c.mu.Unlock()

	c.deliver(epoch, progress.Map(seconds, tl), true)
	return nil
}

// SeekAndPlay seeks and then plays, waking a paused player.
func (c *Controller) SeekAndPlay(ctx context.Context, seconds float64) error {
	if err := c.Seek(seconds); err != nil {
		return err
	}
	return c.Play(ctx)
}

// Snapshot returns the current controller view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	snap.Progress = c.currentProgress()
	return snap
}

// Timeline returns the section timeline for the loaded audio.
func (c *Controller) Timeline() timeline.Timeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memo.Get(c.sections, c.duration, c.title)
}

// Close cancels all work, releases the media and leaves the bus.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.closed = true
	c.mu.Unlock()
	c.unregister()
}

type preloadJob struct {
	ctx        context.Context
	generation uint64
	title      string
	text       string
}

func (c *Controller) beginPreloadLocked() preloadJob {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.ctx = ctx
	c.cancel = cancel
	c.state = StatePreloading
	c.message = ""
	return preloadJob{ctx: ctx, generation: c.generation, title: c.title, text: c.text}
}

func (c *Controller) preload(job preloadJob) {
	audio, err := c.synth.Synthesize(job.ctx, job.text, job.title)
	if job.ctx.Err() != nil {
		return
	}
	if err != nil {
		c.failPreload(job, err, tts.UserMessage(err))
		return
	}

	duration, err := c.media.Load(job.ctx, audio)
	if job.ctx.Err() != nil {
		return
	}
	if err != nil {
		if inv, ok := c.synth.(Invalidator); ok {
			inv.Invalidate(job.ctx, job.text, job.title)
		}
		c.failPreload(job, err, MessageMediaError)
		return
	}

	c.mu.Lock()
	if job.generation != c.generation || c.closed {
		c.mu.Unlock()
		return
	}
	c.hasMedia = true
	c.duration = duration
	tl := c.memo.Get(c.sections, c.duration, c.title)
	c.state = StateReady
	explicit := c.playPending
	c.playPending = false
	if !explicit && c.autoplay && !c.autoplayAttempted {
		c.autoplayAttempted = true
		gen := c.generation
		c.autoplayTimer = time.AfterFunc(c.autoplayDelay, func() { c.attemptAutoplay(gen) })
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("narration ready",
		logging.String(logging.FieldEventType, "preload_ready"),
		logging.Int("audio_bytes", len(audio)),
		logging.Float64("duration_seconds", duration),
		logging.Float64("intro_seconds", tl.IntroDuration),
	)
	c.notify(snap)
	if explicit {
		_ = c.startPlayback(job.ctx, job.generation, true)
	}
}

func (c *Controller) failPreload(job preloadJob, err error, message string) {
	c.mu.Lock()
	if job.generation != c.generation || c.closed {
		c.mu.Unlock()
		return
	}
	c.state = StateError
	c.message = ""
	if c.playPending {
		c.message = message
	}
	c.playPending = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	logging.WarnWithContext(c.logger, "narration preload failed", "preload_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the tts service with speechsync doctor"),
		logging.String(logging.FieldImpact, "narration starts only after an explicit play"),
	)
	c.notify(snap)
}

func (c *Controller) attemptAutoplay(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.closed || c.state != StateReady {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	c.mu.Unlock()
	_ = c.startPlayback(ctx, gen, false)
}

func (c *Controller) startPlayback(ctx context.Context, gen uint64, explicit bool) error {
	err := c.media.Play(ctx)

	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		if err == nil {
			c.media.Pause()
		}
		return ErrClosed
	}
	if err != nil {
		blocked := errors.Is(err, ErrNotAllowed)
		switch {
		case blocked && explicit:
			c.message = MessageGestureRequired
		case blocked:
		default:
			c.state = StateError
			c.message = MessageMediaError
			c.stopPollLocked()
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()

		if blocked && !explicit {
			c.logger.Debug("autoplay blocked", logging.String(logging.FieldEventType, "autoplay_blocked"))
			return err
		}
		logging.WarnWithContext(c.logger, "playback start failed", "play_failed",
			logging.Error(err),
			logging.Bool("explicit", explicit),
		)
		c.notify(snap)
		return err
	}

	c.state = StatePlaying
	c.message = ""
	c.startPollLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.bus.Claim(c.id)
	c.logger.Debug("playback started",
		logging.String(logging.FieldState, StatePlaying.String()),
		logging.Bool("explicit", explicit),
	)
	c.notify(snap)
	c.emitCurrent()
	return nil
}

// interrupt is the bus stop callback.
func (c *Controller) interrupt() {
	c.pause("stopped by another player")
}

func (c *Controller) pause(reason string) {
	c.mu.Lock()
	c.playPending = false
	if c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	c.media.Pause()
	c.state = StatePaused
	c.stopPollLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.bus.Release(c.id)
	c.logger.Debug("playback paused",
		logging.String(logging.FieldState, StatePaused.String()),
		logging.String("reason", reason),
	)
	c.notify(snap)
}

func (c *Controller) handleEnded() {
	c.mu.Lock()
	if c.state != StatePlaying && c.state != StatePaused {
		c.mu.Unlock()
		return
	}
	c.state = StateEnded
	c.stopPollLocked()
	c.epoch++
	epoch := c.epoch
	duration := c.duration
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.bus.Release(c.id)
	c.deliver(epoch, progress.StoppedAt(duration, duration), false)
	c.logger.Info("narration finished", logging.String(logging.FieldEventType, "playback_ended"))
	snap.Progress = c.currentProgress()
	c.notifyWith(snap)
}

func (c *Controller) handleMediaError(err error) {
	c.mu.Lock()
	switch c.state {
	case StateReady, StatePlaying, StatePaused:
	default:
		c.mu.Unlock()
		return
	}
	c.state = StateError
	c.message = MessageMediaError
	c.stopPollLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.bus.Release(c.id)
	logging.ErrorWithContext(c.logger, "media error", "media_error",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "press play to reload the narration"),
	)
	c.notify(snap)
}

// emitCurrent reads the media position under c.mu so the time and the seek
// epoch it is stamped with always agree. Nothing is delivered outside the
// playing state.
func (c *Controller) emitCurrent() {
	c.mu.Lock()
	if c.closed || c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	t := c.media.CurrentTime()
	epoch := c.epoch
	tl := c.memo.Get(c.sections, c.duration, c.title)
	c.mu.Unlock()

	c.deliver(epoch, progress.Map(t, tl), true)
}

func (c *Controller) deliver(epoch uint64, p progress.Progress, monotonic bool) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	if epoch < c.deliveredEpoch {
		return
	}
	if epoch != c.deliveredEpoch {
		c.deliveredEpoch = epoch
		c.lastDelivered = math.Inf(-1)
		c.sampler.Reset()
	}
	if monotonic && p.CurrentTime < c.lastDelivered {
		return
	}
	c.lastDelivered = p.CurrentTime

	c.progressMu.Lock()
	c.lastProgress = p
	c.progressMu.Unlock()

	if c.sampler.Sample(fmt.Sprintf("%s:%d", p.Kind, p.SectionIndex()), p.CurrentTime) {
		c.logger.Debug("narration progress",
			logging.String("position", p.String()),
			logging.Int(logging.FieldSection, p.SectionIndex()),
			logging.Float64("current_time", p.CurrentTime),
		)
	}
	if c.onProgress != nil {
		c.onProgress(p)
	}
}

func (c *Controller) currentProgress() progress.Progress {
	c.progressMu.Lock()
	defer c.progressMu.Unlock()
	return c.lastProgress
}

func (c *Controller) resetLocked() {
	c.generation++
	c.epoch++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.ctx = nil
	c.stopAutoplayLocked()
	c.stopPollLocked()
	if c.hasMedia {
		c.media.Pause()
		c.media.Release()
		c.hasMedia = false
	}
	c.bus.Release(c.id)
	c.state = StateIdle
	c.loaded = false
	c.title = ""
	c.text = ""
	c.sections = nil
	c.duration = 0
	c.message = ""
	c.autoplayAttempted = false
	c.playPending = false
	c.memo.Reset()

	c.progressMu.Lock()
	c.lastProgress = progress.StoppedAt(0, 0)
	c.progressMu.Unlock()
}

func (c *Controller) stopAutoplayLocked() {
	if c.autoplayTimer != nil {
		c.autoplayTimer.Stop()
		c.autoplayTimer = nil
	}
}

func (c *Controller) startPollLocked() {
	if c.pollInterval <= 0 || c.pollStop != nil {
		return
	}
	stop := make(chan struct{})
	c.pollStop = stop
	go c.poll(stop)
}

func (c *Controller) stopPollLocked() {
	if c.pollStop != nil {
		close(c.pollStop)
		c.pollStop = nil
	}
}

func (c *Controller) poll(stop <-chan struct{}) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.emitCurrent()
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	sections := make([]commentary.Section, len(c.sections))
	copy(sections, c.sections)
	return Snapshot{
		ID:       c.id,
		State:    c.state,
		Title:    c.title,
		Sections: sections,
		Duration: c.duration,
		Message:  c.message,
	}
}

func (c *Controller) notify(snap Snapshot) {
	snap.Progress = c.currentProgress()
	c.notifyWith(snap)
}

func (c *Controller) notifyWith(snap Snapshot) {
	if c.onState != nil {
		c.onState(snap)
	}
}

type observer struct {
	c *Controller
}

// TimeUpdate ignores the reported time and re-reads the clock, since an event
// raised before a seek can arrive after it.
func (o observer) TimeUpdate(float64) { o.c.emitCurrent() }

func (o observer) Ended() { o.c.handleEnded() }

func (o observer) MediaError(err error) { o.c.handleMediaError(err) }
