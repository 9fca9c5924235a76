package pipeline

import (
	"sync"

	apperrors "vsmsearch/pkg/errors"
)

// runState tracks whether a stage instance has run.
type runState int

const (
	stateUnbuilt runState = iota
	stateBuilt
	stateFailed
)

// runGuard enforces run-once semantics: a stage transitions Unbuilt to
// Built (or Failed) exactly once, and any later invocation fails fast
// instead of recomputing.
type runGuard struct {
	mu    sync.Mutex
	state runState
}

// begin rejects the call unless the stage has never run.
func (g *runGuard) begin(stage string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != stateUnbuilt {
		return apperrors.Newf(apperrors.ErrAlreadyRun, 3, "stage %s", stage)
	}
	return nil
}

// finish records the outcome and passes the error through.
func (g *runGuard) finish(err error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = stateFailed
	} else {
		g.state = stateBuilt
	}
	return err
}
