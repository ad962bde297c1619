package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-classifier/internal/adapters/classifier"
	"github.com/mikey/email-classifier/internal/config"
	"github.com/mikey/email-classifier/internal/core"
	"github.com/mikey/email-classifier/internal/factory"
	"github.com/mikey/email-classifier/internal/logging"
	"github.com/mikey/email-classifier/internal/ports"
	"github.com/mikey/email-classifier/internal/utils"
	"github.com/mikey/email-classifier/internal/workflow"
)

// CLIFlags contains all command line flags
type CLIFlags struct {
	// Service flags
	BaseURL string
	Timeout string

	// Input flags
	Text        string
	InputFile   string
	Interactive bool

	// Logging flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line arguments into a CLIFlags struct
func ParseFlags(args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := flag.NewFlagSet("email-classifier", flag.ContinueOnError)

	fs.StringVar(&flags.BaseURL, "base-url", "", "Base URL of the classification service")
	fs.StringVar(&flags.Timeout, "timeout", "", "Request timeout (e.g. 60s, 0 for none)")

	fs.StringVar(&flags.Text, "text", "", "E-mail text to classify")
	fs.StringVar(&flags.InputFile, "file", "", "E-mail file to classify (.txt or .pdf)")
	fs.BoolVar(&flags.Interactive, "interactive", false, "Start the interactive session")

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// OneShot reports whether the flags ask for a single classification
func (f *CLIFlags) OneShot() bool {
	return !f.Interactive && (f.Text != "" || f.InputFile != "")
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags) (*config.Config, error) {
		cfg, err := config.NewWithFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger. Without a config file the console defaults apply.
	if err := container.Provide(func(flags *CLIFlags, cfg *config.Config) (*zap.Logger, error) {
		used := cfg.GetViper().ConfigFileUsed()
		if used == "" {
			return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
		}
		logger, err := logging.InitLogger(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded configuration from file", zap.String("file", used))
		return logger, nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	for _, constructor := range []any{
		factory.NewTextProcessorFactory,
		factory.NewClassifierFactory,
		factory.NewHistoryFactory,
		factory.NewWorkflowFactory,
		factory.NewFrontendFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classification client, also as the workflow's classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (*classifier.Client, error) {
		return f.CreateClient()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *classifier.Client) core.Classifier {
		return c
	}); err != nil {
		return nil, err
	}

	// Register history repository
	if err := container.Provide(func(f *factory.HistoryFactory) core.HistoryRepository {
		return f.CreateHistoryRepository()
	}); err != nil {
		return nil, err
	}

	// Register workflow controller
	if err := container.Provide(func(f *factory.WorkflowFactory) *workflow.Controller {
		return f.CreateController()
	}); err != nil {
		return nil, err
	}

	// Register terminal frontend
	if err := container.Provide(func(f *factory.FrontendFactory) ports.Frontend {
		return f.CreateFrontend(os.Stdin, os.Stdout)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags overrides configuration values with the flags that were set
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()
	if flags.BaseURL != "" {
		v.Set("service.base_url", flags.BaseURL)
	}
	if flags.Timeout != "" {
		v.Set("service.timeout", flags.Timeout)
	}
	if flags.Verbose {
		v.Set("logging.level", "debug")
	}
	if flags.JSONLog {
		v.Set("logging.format", "json")
	}
}
