package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewFakeClock(fixedTime)

	t.Run("returns fixed time", func(t *testing.T) {
		first := clock.Now()
		time.Sleep(1 * time.Millisecond)
		second := clock.Now()

		if !first.Equal(fixedTime) || !second.Equal(fixedTime) {
			t.Errorf("FakeClock.Now() should stay at %v: got %v then %v", fixedTime, first, second)
		}
	})

	t.Run("set replaces the time", func(t *testing.T) {
		newTime := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		clock.Set(newTime)

		if actual := clock.Now(); !actual.Equal(newTime) {
			t.Errorf("After Set(), Now() = %v, want %v", actual, newTime)
		}
	})

	t.Run("advances accumulate", func(t *testing.T) {
		clock.Set(fixedTime)
		clock.Advance(1 * time.Hour)
		clock.Advance(30 * time.Minute)

		want := fixedTime.Add(90 * time.Minute)
		if actual := clock.Now(); !actual.Equal(want) {
			t.Errorf("After advances, Now() = %v, want %v", actual, want)
		}
	})

	t.Run("clocks are independent", func(t *testing.T) {
		other := NewFakeClock(fixedTime)
		clock.Set(fixedTime)
		clock.Advance(1 * time.Hour)

		if clock.Now().Equal(other.Now()) {
			t.Error("Advancing one clock should not affect another")
		}
	})
}
