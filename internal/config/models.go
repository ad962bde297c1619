package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/email-classifier/internal/samples"
)

// ServiceConfig represents the configuration of the remote classification service
type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// InputConfig represents limits applied to typed input
type InputConfig struct {
	MaxTextLength int
}

// LoggingConfig represents the logger configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// GetService returns the classification service configuration.
// One trailing slash is stripped from the base URL.
func (c *Config) GetService() (ServiceConfig, error) {
	timeout, err := c.GetDuration("service.timeout")
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("invalid service timeout: %w", err)
	}
	if timeout < 0 {
		return ServiceConfig{}, fmt.Errorf("invalid service timeout: %s", timeout)
	}

	baseURL := strings.TrimSpace(c.GetString("service.base_url"))
	if baseURL == "" {
		return ServiceConfig{}, fmt.Errorf("service base URL is required")
	}

	return ServiceConfig{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Timeout: timeout,
	}, nil
}

// GetInput returns the input configuration
func (c *Config) GetInput() InputConfig {
	return InputConfig{
		MaxTextLength: c.GetInt("input.max_text_length"),
	}
}

// GetSamples returns the configured demo e-mails, falling back to the
// built-in set when the configured list is empty
func (c *Config) GetSamples() []string {
	emails := c.GetStringSlice("samples.emails")
	if len(emails) == 0 {
		return samples.Defaults()
	}
	return emails
}

// GetLogging returns the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString("logging.level"),
		Format: c.GetString("logging.format"),
	}
}
