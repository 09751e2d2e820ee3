package progress

import (
	"errors"
	"fmt"
	"math"

	"github.com/bookvoice/bookvoice/internal/book"
)

// State is the lifecycle state carried by an Update.
type State int

const (
	StateStarted State = iota
	StateDone
	StateFailed
)

// String returns the state's display name.
func (s State) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Update is one progress event. Scope names the element being processed
// within the stage (a chapter or image file name), or a fixed label for
// whole-pipeline stages.
type Update struct {
	Scope string
	Stage Stage
	State State
}

// Reporter consumes progress updates. A single conversion run reports from
// one goroutine, so implementations need not be safe for concurrent use.
type Reporter interface {
	Report(Update)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Update)

// Report calls f(u).
func (f ReporterFunc) Report(u Update) { f(u) }

// Discard is a Reporter that drops every update.
var Discard Reporter = ReporterFunc(func(Update) {})

// ErrUnknownScope is returned when an update's scope does not name any
// element of the relevant book collection. Scopes are produced from the same
// Book the estimator walks, so this always indicates a programming defect,
// never a recoverable runtime condition.
var ErrUnknownScope = errors.New("progress: scope does not match any book element")

// Percentage converts a single update plus the book's size metrics into an
// integer percentage in [0, 100].
//
// The estimator recomputes an as-if position from scratch on every call: all
// stages strictly before the update's stage contribute their full weight, and
// within a per-element stage all elements positioned before the scoped one
// are assumed already complete. Callers therefore call it once per update and
// must not accumulate results themselves. The positional assumption holds
// only for in-order sequential processing.
func Percentage(u Update, b *book.Book) (int, error) {
	if u.Stage < 0 || u.Stage >= stageCount {
		return 0, fmt.Errorf("progress: invalid stage %d", int(u.Stage))
	}

	base := 0.0
	for s := Stage(0); s < u.Stage; s++ {
		base += stageTable[s].weight
	}

	if u.Stage.perElement() {
		elems := b.ChapterElements()
		if u.Stage == StageSavingImage {
			elems = b.ImageElements()
		}
		frac, err := stageFraction(u.Scope, elems, u.State == StateDone)
		if err != nil {
			return 0, err
		}
		base += u.Stage.Weight() * frac
	} else if u.State == StateDone {
		base += u.Stage.Weight()
	}

	return int(math.Round(base * 100)), nil
}

// stageFraction computes the completed fraction of a per-element stage,
// weighting each element by its size. Elements before the scoped one count
// as complete; the scoped element itself counts only when done. Started and
// Failed credit nothing for the scoped element.
func stageFraction(scope string, elems []book.Element, done bool) (float64, error) {
	var total, completed int
	matched := false
	for _, e := range elems {
		total += e.Size()
		if matched {
			continue
		}
		if e.FileName() == scope {
			matched = true
			if done {
				completed += e.Size()
			}
			continue
		}
		completed += e.Size()
	}
	if !matched {
		return 0, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(completed) / float64(total), nil
}
