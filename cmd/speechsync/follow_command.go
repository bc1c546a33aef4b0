package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"speechsync/internal/audioprobe"
	"speechsync/internal/commentary"
	"speechsync/internal/logging"
	"speechsync/internal/playback"
	"speechsync/internal/progress"
	"speechsync/internal/tts"
)

var errPlaybackBusy = errors.New("another follow session is already playing")

// autoplayGrace is how long follow waits past the autoplay delay before
// starting playback itself.
const autoplayGrace = 2 * time.Second

func newFollowCommand(ctx *commandContext) *cobra.Command {
	var input commentaryInput
	var duration float64
	var tick time.Duration
	var gesture bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Narrate commentary and print each sentence as it is spoken",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := input.readNonEmpty(cmd)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reqCtx, logger, err := ctx.requestContext(cmd.Context())
			if err != nil {
				return err
			}

			lock := flock.New(cfg.PlaybackLockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire playback lock: %w", err)
			}
			if !locked {
				return errPlaybackBusy
			}
			defer func() { _ = lock.Unlock() }()

			synth, cleanup, err := ctx.synthesizer(cfg, logger, !noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			measure := audioprobe.Prober{Binary: cfg.Playback.FFprobeBinary}.Duration
			if duration > 0 {
				fixed := duration
				measure = func(context.Context, []byte) (float64, error) { return fixed, nil }
			}
			media := playback.NewClockMedia(playback.ClockOptions{
				Duration:           measure,
				TimeUpdateInterval: tick,
				RequireGesture:     cfg.Playback.RequireGesture,
			})
			if gesture {
				media.Grant()
			}

			session := newFollowSession(cmd.OutOrStdout(), commentary.Segment(raw), shouldColorize(cmd.OutOrStdout()))
			controller, err := playback.NewController(playback.Options{
				Synthesizer:   synth,
				Media:         media,
				Logger:        logger,
				PollInterval:  cfg.PollInterval(),
				Autoplay:      cfg.Playback.Autoplay,
				AutoplayDelay: cfg.AutoplayDelay(),
				OnState:       session.states.push,
				OnProgress:    session.progress,
			})
			if err != nil {
				return err
			}
			defer controller.Close()

			logger.Info("follow session started",
				logging.String(logging.FieldEventType, "follow_started"),
				logging.String(logging.FieldPlayerID, controller.ID()),
				logging.Bool("autoplay", cfg.Playback.Autoplay),
			)
			if err := controller.Load(input.title, raw); err != nil {
				return err
			}
			return session.run(reqCtx, controller, cfg.Playback.Autoplay, cfg.AutoplayDelay()+autoplayGrace)
		},
	}

	input.register(cmd)
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Override the measured narration length in seconds")
	cmd.Flags().DurationVar(&tick, "tick", 0, "Interval between playback time updates")
	cmd.Flags().BoolVar(&gesture, "gesture", false, "Treat the invocation as a user gesture that unlocks audio")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the audio cache")
	return cmd
}

// stateQueue hands controller snapshots to the session loop without ever
// blocking the notifying goroutine.
type stateQueue struct {
	mu      sync.Mutex
	pending []playback.Snapshot
	signal  chan struct{}
}

func newStateQueue() *stateQueue {
	return &stateQueue{signal: make(chan struct{}, 1)}
}

func (q *stateQueue) push(snap playback.Snapshot) {
	q.mu.Lock()
	q.pending = append(q.pending, snap)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *stateQueue) drain() []playback.Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

type highlightKey struct {
	kind     progress.Kind
	section  int
	sentence int
	word     int
}

type followSession struct {
	out      io.Writer
	sections []commentary.Section
	colorize bool
	states   *stateQueue

	mu        sync.Mutex
	last      highlightKey
	lastState playback.State
	printed   bool
}

func newFollowSession(out io.Writer, sections []commentary.Section, colorize bool) *followSession {
	return &followSession{
		out:       out,
		sections:  sections,
		colorize:  colorize,
		states:    newStateQueue(),
		lastState: playback.StateIdle,
	}
}

// progress prints a line whenever the narrated word changes.
func (s *followSession) progress(p progress.Progress) {
	h := progress.Resolve(p, s.sections)
	key := highlightKey{kind: p.Kind, section: p.SectionIndex()}
	if h.Active() {
		key.sentence = h.Position.Sentence
		key.word = h.Position.Word
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.printed && key == s.last {
		return
	}
	s.last = key
	s.printed = true

	line := fmt.Sprintf("[%s] %s", formatClock(p.CurrentTime), describePosition(p, s.sections))
	if text := renderHighlight(h, s.colorize); text != "" {
		line += "  " + text
	}
	fmt.Fprintln(s.out, line)
}

func (s *followSession) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// run drives the controller until narration ends, fails, or ctx is done.
func (s *followSession) run(ctx context.Context, controller *playback.Controller, autoplay bool, fallback time.Duration) error {
	var fallbackC <-chan time.Time
	retried := false

	for {
		select {
		case <-ctx.Done():
			controller.Pause()
			return ctx.Err()
		case <-fallbackC:
			fallbackC = nil
			if controller.Snapshot().State == playback.StateReady {
				_ = controller.Play(ctx)
			}
		case <-s.states.signal:
			for _, snap := range s.states.drain() {
				if snap.State != s.lastState {
					s.lastState = snap.State
					s.printf("State: %s\n", displayLabel(snap.State.String()))
				}
				switch snap.State {
				case playback.StateReady:
					if snap.Message != "" {
						return errors.New(snap.Message)
					}
					if fallbackC != nil {
						continue
					}
					if !autoplay {
						_ = controller.Play(ctx)
						continue
					}
					fallbackC = time.After(fallback)
				case playback.StateError:
					if snap.Message != "" {
						return errors.New(snap.Message)
					}
					if retried {
						return errors.New(tts.FallbackMessage)
					}
					retried = true
					_ = controller.Play(ctx)
				case playback.StateEnded:
					s.printf("Finished (%s)\n", formatClock(snap.Duration))
					return nil
				}
			}
		}
	}
}
