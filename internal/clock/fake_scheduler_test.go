package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xGuatx/youtube-sync-multi-client/internal/clock"
)

func TestFakeSchedulerFiresDueCallbacksInOrder(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	sched := clock.NewFakeScheduler(fake)

	var order []string
	sched.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	sched.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	sched.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	sched.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)

	sched.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFakeSchedulerStopPreventsFiring(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	sched := clock.NewFakeScheduler(fake)

	fired := false
	timer := sched.AfterFunc(100*time.Millisecond, func() { fired = true })
	require.True(t, timer.Stop())

	sched.Advance(200 * time.Millisecond)
	assert.False(t, fired)
	assert.False(t, timer.Stop(), "stopping an already-stopped timer reports false")
}

func TestFakeSchedulerSupportsSelfRescheduling(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	sched := clock.NewFakeScheduler(fake)

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		if ticks < 3 {
			sched.AfterFunc(100*time.Millisecond, tick)
		}
	}
	sched.AfterFunc(100*time.Millisecond, tick)

	sched.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, ticks)

	sched.Advance(100 * time.Millisecond)
	assert.Equal(t, 2, ticks)

	sched.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, ticks)
}
