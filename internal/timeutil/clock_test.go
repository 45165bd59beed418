package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	d := clock.Since(past)

	if d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClock_Now(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}
	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() without step should not move, got %v", got)
	}
}

func TestMockClock_Set(t *testing.T) {
	clock := NewMockClock(time.Time{})
	target := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock.Set(target)

	if got := clock.Now(); !got.Equal(target) {
		t.Errorf("Now() = %v, want %v", got, target)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.Advance(5 * time.Millisecond)

	if got := clock.Since(start); got != 5*time.Millisecond {
		t.Errorf("Since() = %v, want 5ms", got)
	}
}

func TestSteppingClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewSteppingClock(start, 2*time.Millisecond)

	t0 := clock.Now()
	if got := clock.Since(t0); got != 2*time.Millisecond {
		t.Errorf("Since() = %v, want 2ms", got)
	}
	t1 := clock.Now()
	if got := t1.Sub(t0); got != 2*time.Millisecond {
		t.Errorf("consecutive Now() delta = %v, want 2ms", got)
	}
}
