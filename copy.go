package blogreader

import (
	"sync"
	"time"
)

// CopyAckDuration is how long a copy button shows its acknowledgement.
const CopyAckDuration = 1500 * time.Millisecond

type copyKey struct {
	visitor    string
	subtopicID int64
}

// CopyTracker remembers which code blocks a visitor just copied. Each
// acknowledgement is keyed by visitor and subtopic and lapses on its own.
type CopyTracker struct {
	mu   sync.Mutex
	acks map[copyKey]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewCopyTracker creates a CopyTracker whose acknowledgements last ttl.
func NewCopyTracker(ttl time.Duration) *CopyTracker {
	return &CopyTracker{
		acks: make(map[copyKey]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Acknowledge records that visitor copied the code of subtopicID.
func (t *CopyTracker) Acknowledge(visitor string, subtopicID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for k, until := range t.acks {
		if !now.Before(until) {
			delete(t.acks, k)
		}
	}
	t.acks[copyKey{visitor, subtopicID}] = now.Add(t.ttl)
}

// Copied reports whether the acknowledgement for subtopicID is still showing.
func (t *CopyTracker) Copied(visitor string, subtopicID int64) bool {
	return t.Remaining(visitor, subtopicID) > 0
}

// Remaining returns how long the acknowledgement for subtopicID keeps
// showing, or zero once it has lapsed.
func (t *CopyTracker) Remaining(visitor string, subtopicID int64) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	until, ok := t.acks[copyKey{visitor, subtopicID}]
	if !ok {
		return 0
	}
	if left := until.Sub(t.now()); left > 0 {
		return left
	}
	return 0
}
