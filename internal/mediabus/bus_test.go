package mediabus

import "testing"

func TestClaimStopsOthersButNotSelf(t *testing.T) {
	bus := New()
	stopped := map[string]int{}
	bus.Register("a", func() { stopped["a"]++ })
	bus.Register("b", func() { stopped["b"]++ })
	bus.Register("reel", func() { stopped["reel"]++ })

	bus.Claim("b")

	if stopped["b"] != 0 {
		t.Fatalf("claimant must not stop itself, got %d", stopped["b"])
	}
	if stopped["a"] != 1 || stopped["reel"] != 1 {
		t.Fatalf("expected others stopped once, got %v", stopped)
	}
	if bus.Active() != "b" {
		t.Fatalf("expected b active, got %q", bus.Active())
	}
}

func TestUnregisterReleasesClaim(t *testing.T) {
	bus := New()
	called := false
	unregister := bus.Register("a", func() { called = true })
	bus.Claim("a")
	unregister()
	unregister()

	if bus.Active() != "" {
		t.Fatalf("expected no active player, got %q", bus.Active())
	}
	if bus.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", bus.Len())
	}
	bus.Claim("other")
	if called {
		t.Fatal("unregistered player must not be stopped")
	}
}

func TestReleaseOnlyClearsOwnClaim(t *testing.T) {
	bus := New()
	bus.Register("a", func() {})
	bus.Register("b", func() {})
	bus.Claim("a")
	bus.Release("b")
	if bus.Active() != "a" {
		t.Fatalf("release by non-holder cleared claim: %q", bus.Active())
	}
	bus.Release("a")
	if bus.Active() != "" {
		t.Fatalf("expected claim cleared, got %q", bus.Active())
	}
}

func TestStopCallbackMayReenterBus(t *testing.T) {
	bus := New()
	bus.Register("a", func() { bus.Release("a") })
	bus.Register("b", func() {})
	bus.Claim("a")
	bus.Claim("b")
	if bus.Active() != "b" {
		t.Fatalf("expected b active, got %q", bus.Active())
	}
}
