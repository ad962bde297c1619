package factory

import (
	"github.com/mikey/email-classifier/internal/adapters/classifier"
	"github.com/mikey/email-classifier/internal/config"
	"go.uber.org/zap"
)

// ClassifierFactory creates classification service clients
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a client for the configured service
func (f *ClassifierFactory) CreateClient() (*classifier.Client, error) {
	serviceCfg, err := f.cfg.GetService()
	if err != nil {
		return nil, err
	}

	f.logger.Info("Using classification service",
		zap.String("base_url", serviceCfg.BaseURL),
		zap.Duration("timeout", serviceCfg.Timeout))

	return classifier.NewClient(serviceCfg.BaseURL, serviceCfg.Timeout, f.logger.Named("classifier")), nil
}
