package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_FiresInDueOrder(t *testing.T) {
	clock := NewManualClock(testEpoch)
	var order []string

	clock.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	clock.AfterFunc(time.Second, func() { order = append(order, "a") })
	clock.AfterFunc(2*time.Second, func() { order = append(order, "c") })
	stopped := clock.AfterFunc(time.Second, func() { order = append(order, "never") })

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	assert.Equal(t, 3, clock.Pending())

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, testEpoch.Add(1500*time.Millisecond), clock.Now())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, clock.Pending())
}

func TestManualClock_CallbackSeesDueTime(t *testing.T) {
	clock := NewManualClock(testEpoch)
	var at time.Time
	clock.AfterFunc(time.Second, func() { at = clock.Now() })

	clock.Advance(time.Minute)
	assert.Equal(t, testEpoch.Add(time.Second), at)
}

func TestManualClock_RescheduleDuringAdvance(t *testing.T) {
	clock := NewManualClock(testEpoch)
	fired := 0
	var tick func()
	tick = func() {
		fired++
		clock.AfterFunc(time.Second, tick)
	}
	clock.AfterFunc(time.Second, tick)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 5, fired)
	assert.Equal(t, 1, clock.Pending())
}
