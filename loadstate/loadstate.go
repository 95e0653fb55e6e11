// Package loadstate tracks one-shot loads through idle, loading, loaded and
// failed states. Every load carries a token; a result is only applied when
// its token is the newest one issued, so a slow response can never
// overwrite a newer one.
package loadstate

import (
	"sync"
	"time"
)

// Status is the state of a Tracker.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Token identifies one load. Tokens increase monotonically per Tracker.
type Token uint64

// Snapshot is a point-in-time copy of a Tracker.
type Snapshot[T any] struct {
	Status     Status
	Value      T
	Err        error
	ResolvedAt time.Time // last resolution, successful or not
	LoadedAt   time.Time // last successful resolution
}

// Tracker holds the latest applied result of a load.
type Tracker[T any] struct {
	mu     sync.Mutex
	issued Token
	snap   Snapshot[T]
	now    func() time.Time
}

// New returns an idle Tracker.
func New[T any]() *Tracker[T] {
	return &Tracker[T]{now: time.Now}
}

// Begin issues a new token and moves the tracker to Loading. The previously
// applied value stays readable until the new load resolves.
func (t *Tracker[T]) Begin() Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	t.snap.Status = Loading
	return t.issued
}

// Resolve applies a result if tok is still the newest token issued. It
// reports whether the result was applied. A failed load keeps the last good
// value but records the error.
func (t *Tracker[T]) Resolve(tok Token, v T, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tok != t.issued {
		return false
	}
	t.snap.ResolvedAt = t.now()
	if err != nil {
		t.snap.Status = Failed
		t.snap.Err = err
		return true
	}
	t.snap.Status = Loaded
	t.snap.Value = v
	t.snap.Err = nil
	t.snap.LoadedAt = t.snap.ResolvedAt
	return true
}

// Snapshot returns the current state.
func (t *Tracker[T]) Snapshot() Snapshot[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Reset returns the tracker to Idle and invalidates any load in flight.
func (t *Tracker[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	var zero Snapshot[T]
	t.snap = zero
}
