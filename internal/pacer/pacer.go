// Package pacer bounds the display rate of the player.
package pacer

import (
	"context"
	"fmt"
	"time"
)

// Mode selects the pacing strategy.
type Mode string

const (
	// ModeDeadline sleeps only for what is left of the frame interval.
	ModeDeadline Mode = "deadline"
	// ModeFixed sleeps the whole frame interval after every frame,
	// whatever the frame took to produce.
	ModeFixed Mode = "fixed"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeDeadline, ModeFixed:
		return m, nil
	default:
		return "", fmt.Errorf("unknown pacing mode %q (want deadline or fixed)", s)
	}
}

// Interval is the frame period for maxFPS frames per second.
func Interval(maxFPS int) time.Duration {
	if maxFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(maxFPS)
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pacer waits between frames.
type Pacer struct {
	interval time.Duration
	mode     Mode
	clock    Clock
	next     time.Time
}

// New returns a pacer using the wall clock.
func New(maxFPS int, mode Mode) *Pacer {
	return NewWithClock(maxFPS, mode, realClock{})
}

// NewWithClock returns a pacer driven by clock.
func NewWithClock(maxFPS int, mode Mode, clock Clock) *Pacer {
	return &Pacer{interval: Interval(maxFPS), mode: mode, clock: clock}
}

// Interval is the configured frame period.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the next frame may be shown and returns the time slept.
// In deadline mode the first call anchors the schedule and sleeps a full
// interval; a frame that is late re-anchors the schedule at the current time.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	if p.interval <= 0 {
		return 0, ctx.Err()
	}

	if p.mode == ModeFixed {
		return p.interval, p.clock.Sleep(ctx, p.interval)
	}

	now := p.clock.Now()
	if p.next.IsZero() {
		p.next = now.Add(p.interval)
	}

	d := p.next.Sub(now)
	if d <= 0 {
		p.next = now.Add(p.interval)
		return 0, ctx.Err()
	}

	p.next = p.next.Add(p.interval)
	return d, p.clock.Sleep(ctx, d)
}
