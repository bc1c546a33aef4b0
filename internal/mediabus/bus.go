package mediabus

import (
	"sort"
	"sync"
)

// StopFunc silences a player. It is invoked without any bus lock held.
type StopFunc func()

// Bus is an in-process registry of media players.
type Bus struct {
	mu      sync.Mutex
	players map[string]StopFunc
	active  string
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{players: make(map[string]StopFunc)}
}

var defaultBus = New()

// Default returns the process-wide bus.
func Default() *Bus {
	return defaultBus
}

// Register adds a player. Registering an existing id replaces its callback.
// The returned function unregisters the player and releases its claim.
func (b *Bus) Register(id string, stop StopFunc) func() {
	b.mu.Lock()
	if b.players == nil {
		b.players = make(map[string]StopFunc)
	}
	b.players[id] = stop
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.players, id)
			if b.active == id {
				b.active = ""
			}
			b.mu.Unlock()
		})
	}
}

// Claim marks id as the active player and stops every other player. The
// claimant's own callback is never invoked.
func (b *Bus) Claim(id string) {
	b.mu.Lock()
	b.active = id
	others := make([]string, 0, len(b.players))
	for other := range b.players {
		if other != id {
			others = append(others, other)
		}
	}
	sort.Strings(others)
	stops := make([]StopFunc, 0, len(others))
	for _, other := range others {
		if stop := b.players[other]; stop != nil {
			stops = append(stops, stop)
		}
	}
	b.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}

// Release clears the active claim if id holds it.
func (b *Bus) Release(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active == id {
		b.active = ""
	}
}

// Active returns the id of the player holding the claim, or "".
func (b *Bus) Active() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Len returns the number of registered players.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.players)
}
