// Package geo implements the best-effort visitor location capture: a device
// fix reported by the browser, a network (IP) lookup as fallback, and a
// single fire-and-forget write of the result.
package geo

import (
	"errors"
	"sync"
)

// Status is the lifecycle state of one capture attempt.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Source tags where a successful fix came from.
type Source string

const (
	SourceDevice  Source = "device"
	SourceNetwork Source = "network"
)

// ErrAlreadySettled is returned when an attempt that already reached a
// terminal state is asked to transition again.
var ErrAlreadySettled = errors.New("geo: attempt already settled")

// Attempt is one capture lifecycle.  It starts pending and moves exactly once
// to done (with a source) or error.
type Attempt struct {
	mu     sync.Mutex
	status Status
	source Source
}

// NewAttempt returns a pending attempt.
func NewAttempt() *Attempt {
	return &Attempt{status: StatusPending}
}

// Succeed settles the attempt as done with the given source.
func (a *Attempt) Succeed(src Source) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusPending {
		return ErrAlreadySettled
	}
	a.status = StatusDone
	a.source = src
	return nil
}

// Fail settles the attempt as error.
func (a *Attempt) Fail() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusPending {
		return ErrAlreadySettled
	}
	a.status = StatusError
	return nil
}

// Status returns the current state.
func (a *Attempt) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Source returns the source of a done attempt, or "" otherwise.
func (a *Attempt) Source() Source {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.source
}
