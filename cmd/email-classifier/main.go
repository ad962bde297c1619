package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/email-classifier/internal/di"
	"github.com/mikey/email-classifier/internal/ports"
	"go.uber.org/zap"
)

// errClassificationFailed signals a one-shot run whose failure was already
// printed by the frontend
var errClassificationFailed = errors.New("classification failed")

func main() {
	flags, err := di.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		if errors.Is(err, errClassificationFailed) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(logger *zap.Logger, flags *di.CLIFlags, frontend ports.Frontend) error {
	defer logger.Sync()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.OneShot() {
		if err := frontend.RunOnce(ctx, flags.Text, flags.InputFile); err != nil {
			logger.Debug("Classification failed", zap.Error(err))
			return errClassificationFailed
		}
		return nil
	}

	logger.Info("Starting interactive session")
	if err := frontend.Run(ctx); err != nil {
		return err
	}
	logger.Info("Session ended")
	return nil
}
