// Package correlate maps messages forwarded to the administrator back to the
// chat that produced them, so reaction feedback can be routed.
package correlate

import (
	"sync"
	"time"

	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/internal/workflow"
)

// Entry binds one forwarded message to its originating chat.
type Entry struct {
	Chat      gateway.ChatID
	Kind      workflow.Kind
	Snapshot  workflow.Form
	CreatedAt time.Time
}

// Table is the in-memory correlation table. At most one live entry exists per
// outbound message id; entries are kept after lookup so repeated reactions
// keep producing notifications.
type Table struct {
	mu      sync.RWMutex
	entries map[gateway.MessageID]Entry
}

// NewTable constructs an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[gateway.MessageID]Entry),
	}
}

// Record stores the entry for a freshly forwarded message, overwriting any
// previous entry under the same id.
func (t *Table) Record(id gateway.MessageID, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = e
}

// Lookup returns the entry for an outbound message id without removing it.
func (t *Table) Lookup(id gateway.MessageID) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	return e, ok
}

// Len reports the number of tracked messages.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Sweep removes entries older than ttl and reports how many were dropped.
// A non-positive ttl keeps everything, which is the historical behaviour.
func (t *Table) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, e := range t.entries {
		if now.Sub(e.CreatedAt) > ttl {
			delete(t.entries, id)
			removed++
		}
	}
	return removed
}
