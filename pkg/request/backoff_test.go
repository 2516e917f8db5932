package request

import (
	"testing"
	"time"
)

func TestBackoffDelayGrowth(t *testing.T) {
	b := NewProviderBackoff(100*time.Millisecond, 1*time.Second)

	d1 := b.delayFor(1)
	d2 := b.delayFor(2)
	d3 := b.delayFor(5)

	if d1 < 100*time.Millisecond || d1 > 110*time.Millisecond {
		t.Errorf("first delay %v outside base+jitter range", d1)
	}
	if d2 < d1 {
		t.Errorf("delay should grow: %v then %v", d1, d2)
	}
	// Capped at maxDelay plus jitter
	if d3 > 1100*time.Millisecond {
		t.Errorf("delay %v exceeds cap", d3)
	}
}

func TestBackoffRecovery(t *testing.T) {
	b := NewProviderBackoff(time.Millisecond, time.Second)

	b.RecordFailure("sarvam")
	b.RecordSuccess("sarvam")

	state, exists := b.providers["sarvam"]
	if !exists {
		t.Fatal("expected state for sarvam")
	}
	if state.failureCount != 0 {
		t.Errorf("failureCount = %d, want 0", state.failureCount)
	}
	if !state.nextAllowed.IsZero() {
		t.Error("expected cleared backoff after recovery")
	}

	// Unknown providers never block
	done := make(chan struct{})
	go func() {
		b.Wait("unknown")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked for unknown provider")
	}
}
