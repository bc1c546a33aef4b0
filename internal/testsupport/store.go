package testsupport

import (
	"testing"

	"speechsync/internal/audiocache"
	"speechsync/internal/config"
)

// MustOpenCache opens an audiocache.Store for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *audiocache.Store {
	t.Helper()

	store, err := audiocache.Open(cfg)
	if err != nil {
		t.Fatalf("audiocache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
