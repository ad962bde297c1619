package ports

import (
	"context"
)

// Frontend defines the interface for a presentation layer driving the
// classification workflow
type Frontend interface {
	// Run dispatches user intents until the input ends or ctx is done
	Run(ctx context.Context) error

	// RunOnce submits a single text and/or file and renders the outcome
	RunOnce(ctx context.Context, text string, filePath string) error
}
