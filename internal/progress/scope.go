package progress

import (
	"context"
	"errors"
)

// Scope pairs a Started report with exactly one terminal report. Acquire it
// at the top of a unit of work and Close it with the unit's error on every
// exit path.
type Scope struct {
	r      Reporter
	scope  string
	stage  Stage
	closed bool
}

// StartScope immediately reports (scope, stage, Started) and returns a handle
// whose Close emits the matching terminal event.
func StartScope(r Reporter, scope string, stage Stage) *Scope {
	r.Report(Update{Scope: scope, Stage: stage, State: StateStarted})
	return &Scope{r: r, scope: scope, stage: stage}
}

// Close reports the terminal state for the scope: Done when err is nil,
// Failed otherwise. Cancellation is not a failure, so a context error emits
// no terminal event at all; the run is simply abandoned. Close is idempotent.
func (s *Scope) Close(err error) {
	if s.closed {
		return
	}
	s.closed = true

	switch {
	case err == nil:
		s.r.Report(Update{Scope: s.scope, Stage: s.stage, State: StateDone})
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// No terminal event.
	default:
		s.r.Report(Update{Scope: s.scope, Stage: s.stage, State: StateFailed})
	}
}
