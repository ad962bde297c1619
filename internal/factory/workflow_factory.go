package factory

import (
	"github.com/mikey/email-classifier/internal/config"
	"github.com/mikey/email-classifier/internal/core"
	"github.com/mikey/email-classifier/internal/samples"
	"github.com/mikey/email-classifier/internal/utils"
	"github.com/mikey/email-classifier/internal/workflow"
	"go.uber.org/zap"
)

// WorkflowFactory creates workflow controllers
type WorkflowFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	classifier    core.Classifier
	history       core.HistoryRepository
	textProcessor *utils.TextProcessor
}

// NewWorkflowFactory creates a new workflow factory
func NewWorkflowFactory(
	cfg *config.Config,
	logger *zap.Logger,
	classifier core.Classifier,
	history core.HistoryRepository,
	textProcessor *utils.TextProcessor,
) *WorkflowFactory {
	return &WorkflowFactory{
		cfg:           cfg,
		logger:        logger,
		classifier:    classifier,
		history:       history,
		textProcessor: textProcessor,
	}
}

// CreateController creates the controller for one session
func (f *WorkflowFactory) CreateController() *workflow.Controller {
	pool := f.cfg.GetSamples()
	f.logger.Debug("Loaded sample e-mails", zap.Int("count", len(pool)))

	return workflow.NewController(
		f.classifier,
		f.history,
		f.logger.Named("workflow"),
		workflow.WithSamples(pool, samples.NewRotator()),
		workflow.WithMaxTextLength(f.cfg.GetInput().MaxTextLength),
		workflow.WithTextProcessor(f.textProcessor),
	)
}
