package clock

import "time"

// Timer is a cancelable, one-shot callback registration returned by a
// Scheduler.
type Timer interface {
	// Stop prevents the timer from firing, if it has not fired yet.
	// Returns false if the timer already fired or was already stopped.
	Stop() bool
}

// Scheduler schedules a one-shot callback after a duration.
// The Playback Coordinator's ready-timeout, post-navigation delay, and
// Sync Ticker are all built on this instead of on time.AfterFunc
// directly so that tests can advance a fake clock and deterministically
// fire due callbacks without sleeping.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

// RealScheduler schedules callbacks using the real wall clock.
type RealScheduler struct{}

// AfterFunc schedules f to run in its own goroutine after d.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}
