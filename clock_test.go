package pulse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClockSleepCancelled(t *testing.T) {
	clock := NewClock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := clock.Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRealClockSleep(t *testing.T) {
	clock := NewClock()

	start := time.Now()
	err := clock.Sleep(context.Background(), 10*time.Millisecond)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRealClockAfterFunc(t *testing.T) {
	clock := NewClock()

	done := make(chan struct{})
	clock.AfterFunc(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestRealClockAfterFuncStop(t *testing.T) {
	clock := NewClock()

	fired := make(chan struct{})
	timer := clock.AfterFunc(50*time.Millisecond, func() { close(fired) })
	assert.True(t, timer.Stop())

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}
