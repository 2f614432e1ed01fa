package clock

import (
	"sort"
	"sync"
	"time"
)

// fakeTimer is the Timer returned by FakeScheduler.AfterFunc.
type fakeTimer struct {
	fire    time.Time
	f       func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// FakeScheduler pairs with a Fake clock: Advance moves the clock forward
// and synchronously runs any callback whose deadline falls at or before
// the new time, in deadline order. Tests drive the 10s ready-timeout,
// the 500ms post-navigation delay, and the 100ms ticker this way without
// any real sleeping.
type FakeScheduler struct {
	mu     sync.Mutex
	clock  *Fake
	timers []*fakeTimer
}

// NewFakeScheduler returns a FakeScheduler driven by c.
func NewFakeScheduler(c *Fake) *FakeScheduler {
	return &FakeScheduler{clock: c}
}

// AfterFunc registers f to run once the fake clock reaches now+d.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	t := &fakeTimer{fire: s.clock.Now().Add(d), f: f}
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return t
}

// Advance moves the underlying fake clock forward by d and fires every
// due, non-stopped timer in deadline order. A callback may itself
// schedule further timers (e.g. the ticker rescheduling itself); since
// the clock already stands at the new time, one with a positive delay
// fires on a later Advance that reaches its deadline, and one with a
// zero delay fires within this same Advance.
func (s *FakeScheduler) Advance(d time.Duration) time.Time {
	target := s.clock.Advance(d)

	for {
		s.mu.Lock()
		var due []*fakeTimer
		var remaining []*fakeTimer
		for _, t := range s.timers {
			if t.fired || t.stopped {
				continue
			}
			if !t.fire.After(target) {
				due = append(due, t)
			} else {
				remaining = append(remaining, t)
			}
		}
		s.timers = remaining
		s.mu.Unlock()

		if len(due) == 0 {
			break
		}
		sort.Slice(due, func(i, j int) bool { return due[i].fire.Before(due[j].fire) })
		for _, t := range due {
			t.fired = true
			t.f()
		}
	}

	return target
}
