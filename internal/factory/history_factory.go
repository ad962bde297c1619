package factory

import (
	"github.com/mikey/email-classifier/internal/adapters/history"
	"github.com/mikey/email-classifier/internal/core"
	"go.uber.org/zap"
)

// HistoryFactory creates recent-results stores
type HistoryFactory struct {
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		logger: logger,
	}
}

// CreateHistoryRepository creates the in-memory history. Results are not
// kept across restarts.
func (f *HistoryFactory) CreateHistoryRepository() core.HistoryRepository {
	return history.NewMemoryHistory(f.logger.Named("history"), history.DefaultCapacity)
}
