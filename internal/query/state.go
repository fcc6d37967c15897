// Package query holds the fetch lifecycle shared by the catalog and
// review browsers: Idle -> Loading -> Loaded | Failed, with stale-response
// discarding by request issue order.
package query

import "sync"

// State is the lifecycle of a paginated fetch.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Loader tracks one remote list fetch at a time. Every parameter change
// issues a new generation; a response only applies while its generation is
// still current, so a slow page-1 response can never overwrite page-2
// results issued after it. Last write wins by issue order, not by arrival
// order, and no cancellation token is needed.
//
// A failed fetch keeps the previous items and total so the UI degrades to
// the last good state.
type Loader[T any] struct {
	mu    sync.Mutex
	gen   uint64
	state State
	items []T
	total int
	err   error
}

// Begin starts a new fetch and returns its generation token.
// Any in-flight fetch from an earlier generation becomes stale.
func (l *Loader[T]) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.gen++
	l.state = Loading
	return l.gen
}

// Complete applies a successful response for generation gen.
// Returns false (and changes nothing) when gen is stale.
func (l *Loader[T]) Complete(gen uint64, items []T, total int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return false
	}

	l.state = Loaded
	l.items = items
	l.total = total
	l.err = nil
	return true
}

// Fail records a failed fetch for generation gen, retaining the previous
// items and total. Returns false when gen is stale.
func (l *Loader[T]) Fail(gen uint64, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return false
	}

	l.state = Failed
	l.err = err
	return true
}

// State returns the current lifecycle state.
func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Items returns the last successfully loaded list.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

// Total returns the last successfully loaded total count.
func (l *Loader[T]) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Err returns the error recorded by the most recent failed fetch,
// or nil after a success.
func (l *Loader[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
