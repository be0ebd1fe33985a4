package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultActivityCapacity = 50

// ActivityEntry is one recent UI action shown in the activity readout.
type ActivityEntry struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Viewer  string    `json:"viewer,omitempty"`
	Action  string    `json:"action"`
	Section Section   `json:"section,omitempty"`
	Details string    `json:"details,omitempty"`
}

// ActivityLog is a bounded in-memory feed of recent dashboard actions.
type ActivityLog struct {
	mu      sync.Mutex
	cap     int
	entries []ActivityEntry
}

// NewActivityLog builds a log keeping at most capacity entries; capacity <= 0
// selects the default.
func NewActivityLog(capacity int) *ActivityLog {
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityLog{cap: capacity}
}

// Record appends an entry, stamping ID and timestamp when absent, and evicts
// the oldest entries beyond capacity.
func (l *ActivityLog) Record(entry ActivityEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if overflow := len(l.entries) - l.cap; overflow > 0 {
		l.entries = append([]ActivityEntry(nil), l.entries[overflow:]...)
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (l *ActivityLog) Recent(limit int) []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]ActivityEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}
