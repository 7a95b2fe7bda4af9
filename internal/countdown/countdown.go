// Package countdown computes the time left until a fixed target instant.
//
// Every value is recomputed from the wall clock; nothing is carried between
// ticks, so drift never accumulates.
package countdown

import (
	"context"
	"sync"
	"time"
)

const (
	msPerSecond = int64(time.Second / time.Millisecond)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Remaining is the breakdown of the time left.  All fields are zero once
// Elapsed is true.
type Remaining struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Elapsed bool `json:"elapsed"`
}

// Duration reconstructs the whole-second duration described by r.
func (r Remaining) Duration() time.Duration {
	return time.Duration(r.Days)*24*time.Hour +
		time.Duration(r.Hours)*time.Hour +
		time.Duration(r.Minutes)*time.Minute +
		time.Duration(r.Seconds)*time.Second
}

// Compute returns the time left from now until target.
func Compute(target, now time.Time) Remaining {
	diff := target.Sub(now).Milliseconds()
	if diff <= 0 {
		return Remaining{Elapsed: true}
	}
	return Remaining{
		Days:    int(diff / msPerDay),
		Hours:   int(diff % msPerDay / msPerHour),
		Minutes: int(diff % msPerHour / msPerMinute),
		Seconds: int(diff % msPerMinute / msPerSecond),
	}
}

// Countdown tracks a single target.  Once it has reported Elapsed it keeps
// doing so even if the clock later steps backwards.
type Countdown struct {
	target time.Time
	now    func() time.Time

	mu      sync.Mutex
	elapsed bool
}

// New returns a Countdown for target.  A nil clock uses time.Now.
func New(target time.Time, clock func() time.Time) *Countdown {
	if clock == nil {
		clock = time.Now
	}
	return &Countdown{target: target, now: clock}
}

// Target returns the instant being counted down to.
func (c *Countdown) Target() time.Time { return c.target }

// Next recomputes the remaining time from the clock.
func (c *Countdown) Next() Remaining {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.elapsed {
		return Remaining{Elapsed: true}
	}
	r := Compute(c.target, c.now())
	if r.Elapsed {
		c.elapsed = true
	}
	return r
}

// Watch emits c.Next() immediately and then once per interval.  The channel
// is closed after the first elapsed value or when ctx is done.
func Watch(ctx context.Context, c *Countdown, interval time.Duration) <-chan Remaining {
	if interval <= 0 {
		interval = time.Second
	}
	out := make(chan Remaining, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			r := c.Next()
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
			if r.Elapsed {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
