package audiocache

import (
	"context"
	"log/slog"

	"speechsync/internal/logging"
)

// Source produces narration audio on a cache miss.
type Source interface {
	Synthesize(ctx context.Context, text, title string) ([]byte, error)
}

// Synthesizer serves narration from the cache and falls back to Source.
type Synthesizer struct {
	store  *Store
	source Source
	logger *slog.Logger
}

// NewSynthesizer wraps source with read-through caching in store.
func NewSynthesizer(store *Store, source Source, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		store:  store,
		source: source,
		logger: logging.NewComponentLogger(logger, "audiocache"),
	}
}

// Synthesize returns cached audio when present. Cache failures are logged and
// never block narration.
func (s *Synthesizer) Synthesize(ctx context.Context, text, title string) ([]byte, error) {
	audio, ok, err := s.store.Get(ctx, title, text)
	if err != nil {
		logging.WarnWithContext(s.logger, "audio cache read failed", "cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "narration fetched from the service"),
		)
	}
	if ok {
		s.logger.Debug("audio cache hit", logging.Int("bytes", len(audio)))
		return audio, nil
	}

	audio, err = s.source.Synthesize(ctx, text, title)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, title, text, audio); err != nil {
		logging.WarnWithContext(s.logger, "audio cache write failed", "cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next play fetches narration again"),
		)
	}
	return audio, nil
}

// Invalidate drops the cached audio for text and title after the player
// rejected it, so the next request goes back to Source.
func (s *Synthesizer) Invalidate(ctx context.Context, text, title string) {
	removed, err := s.store.Evict(ctx, title, text)
	if err != nil {
		logging.WarnWithContext(s.logger, "audio cache evict failed", "cache_evict_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "unplayable narration stays cached"),
			logging.String(logging.FieldErrorHint, "run speechsync cache clear"),
		)
		return
	}
	if removed {
		s.logger.Info("evicted unplayable cached audio",
			logging.String(logging.FieldEventType, "cache_evicted"),
		)
	}
}
