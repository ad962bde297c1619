package core

import (
	"context"
)

// Classifier defines the interface for the remote classification service
type Classifier interface {
	// Classify submits the input and returns the normalized result. A
	// result whose ServiceError is set is a failed classification.
	Classify(ctx context.Context, input ClassificationInput) (*ClassificationResult, error)
}

// HistoryRepository defines the interface for the recent-results store
type HistoryRepository interface {
	// Append stores entry as the most recent one, evicting the oldest
	// entries beyond the store capacity
	Append(entry HistoryEntry)

	// FindByID returns the entry with the given id
	FindByID(id string) (HistoryEntry, bool)

	// List returns the entries, most recent first
	List() []HistoryEntry

	// Len returns the number of stored entries
	Len() int
}
