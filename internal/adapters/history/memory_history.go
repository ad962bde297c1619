package history

import (
	"sync"

	"github.com/mikey/email-classifier/internal/core"
	"go.uber.org/zap"
)

// DefaultCapacity is the number of recent results kept
const DefaultCapacity = 20

// MemoryHistory is an in-memory implementation of the HistoryRepository
// interface. Entries are kept most recent first and the oldest ones are
// evicted beyond the capacity.
type MemoryHistory struct {
	entries  []core.HistoryEntry
	capacity int
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewMemoryHistory creates a new in-memory history holding at most
// capacity entries. A non-positive capacity uses DefaultCapacity.
func NewMemoryHistory(logger *zap.Logger, capacity int) *MemoryHistory {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryHistory{
		entries:  make([]core.HistoryEntry, 0, capacity),
		capacity: capacity,
		logger:   logger,
	}
}

// Append stores an independent copy of entry in front of the existing ones
func (h *MemoryHistory) Append(entry core.HistoryEntry) {
	entry = cloneEntry(entry)

	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]core.HistoryEntry, 0, h.capacity)
	next = append(next, entry)
	for _, e := range h.entries {
		if len(next) == h.capacity {
			break
		}
		next = append(next, e)
	}

	evicted := len(h.entries) + 1 - len(next)
	h.entries = next

	h.logger.Debug("History entry appended",
		zap.String("id", entry.ID),
		zap.Int("size", len(next)),
		zap.Int("evicted", evicted))
}

// FindByID returns the entry with the given id
func (h *MemoryHistory) FindByID(id string) (core.HistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, e := range h.entries {
		if e.ID == id {
			return cloneEntry(e), true
		}
	}
	return core.HistoryEntry{}, false
}

// List returns a copy of the entries, most recent first
func (h *MemoryHistory) List() []core.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]core.HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Len returns the number of stored entries
func (h *MemoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Capacity returns the maximum number of entries kept
func (h *MemoryHistory) Capacity() int {
	return h.capacity
}

func cloneEntry(e core.HistoryEntry) core.HistoryEntry {
	e.Result = e.Result.Clone()
	if e.InputContent != nil {
		content := *e.InputContent
		e.InputContent = &content
	}
	return e
}
