package pacer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return ctx.Err()
}

// work simulates time spent decoding and drawing a frame.
func (c *fakeClock) work(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestInterval(t *testing.T) {
	assert.Equal(t, time.Duration(1000000000/30), Interval(30))
	assert.Equal(t, 33333333*time.Nanosecond, Interval(30))
	assert.Equal(t, 40*time.Millisecond, Interval(25))
	assert.Equal(t, time.Duration(0), Interval(0))
}

func TestFixedModeAlwaysSleepsFullInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	p := NewWithClock(30, ModeFixed, clock)

	for _, work := range []time.Duration{0, 5 * time.Millisecond, 100 * time.Millisecond} {
		clock.work(work)
		slept, err := p.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, time.Duration(1000000000/30), slept)
	}
	assert.Equal(t, []time.Duration{Interval(30), Interval(30), Interval(30)}, clock.sleeps)
}

func TestDeadlineModeSleepsRemainder(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	p := NewWithClock(25, ModeDeadline, clock)
	ctx := context.Background()

	slept, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Millisecond, slept)

	clock.work(15 * time.Millisecond)
	slept, err = p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, slept)

	clock.work(39 * time.Millisecond)
	slept, err = p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1*time.Millisecond, slept)
}

func TestDeadlineModeLateFrameDoesNotCatchUp(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	p := NewWithClock(25, ModeDeadline, clock)
	ctx := context.Background()

	_, err := p.Wait(ctx)
	require.NoError(t, err)

	clock.work(100 * time.Millisecond)
	slept, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Zero(t, slept)

	// The schedule restarts from the late frame, not from the missed slots.
	clock.work(10 * time.Millisecond)
	slept, err = p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Millisecond, slept)
}

func TestWaitHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(30, ModeFixed)
	start := time.Now()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), Interval(30))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("fixed")
	require.NoError(t, err)
	assert.Equal(t, ModeFixed, m)

	_, err = ParseMode("vsync")
	assert.Error(t, err)
}
