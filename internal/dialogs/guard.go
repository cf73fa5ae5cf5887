// Package dialogs contains the form-local state machines behind the
// registration, login, profile and group-creation dialogs.
package dialogs

import (
	"errors"
	"sync/atomic"
)

// ErrInFlight is returned when an action is submitted while the previous
// submission is still waiting for its response.
var ErrInFlight = errors.New("request already in flight")

// Guard is the loading flag of a dialog. It is raised before a request is
// issued and lowered when the request resolves, on every path.
type Guard struct {
	loading atomic.Bool
}

// Begin raises the flag, failing with ErrInFlight when it is already raised.
// Every successful Begin must be paired with End.
func (g *Guard) Begin() error {
	if !g.loading.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	return nil
}

// End lowers the flag.
func (g *Guard) End() {
	g.loading.Store(false)
}

// Run executes fn unless another call is in progress.
func (g *Guard) Run(fn func() error) error {
	if err := g.Begin(); err != nil {
		return err
	}
	defer g.End()
	return fn()
}

// Loading reports whether a request is in flight.
func (g *Guard) Loading() bool {
	return g.loading.Load()
}
