package factory

import (
	"io"

	"github.com/mikey/email-classifier/internal/adapters/classifier"
	"github.com/mikey/email-classifier/internal/adapters/frontend"
	"github.com/mikey/email-classifier/internal/ports"
	"github.com/mikey/email-classifier/internal/workflow"
	"go.uber.org/zap"
)

// FrontendFactory creates presentation layers
type FrontendFactory struct {
	logger     *zap.Logger
	controller *workflow.Controller
	client     *classifier.Client
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(logger *zap.Logger, controller *workflow.Controller, client *classifier.Client) *FrontendFactory {
	return &FrontendFactory{
		logger:     logger,
		controller: controller,
		client:     client,
	}
}

// CreateFrontend creates a terminal frontend reading in and writing out
func (f *FrontendFactory) CreateFrontend(in io.Reader, out io.Writer) ports.Frontend {
	return frontend.NewCLIFrontend(f.controller, f.client, in, out, f.logger.Named("frontend"))
}
