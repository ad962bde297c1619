package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikey/email-classifier/internal/core"
	"go.uber.org/zap"
)

// ServiceInfo is the metadata published by the service on /info
type ServiceInfo struct {
	Service              string            `json:"service"`
	Version              string            `json:"version"`
	Description          string            `json:"description"`
	Endpoints            map[string]string `json:"endpoints"`
	AcceptedFileTypes    []string          `json:"accepted_file_types_for_upload"`
	MaxFileSizeForUpload int64             `json:"max_file_size_for_upload"`
}

// Client is an HTTP client for the remote classification service. It
// makes a single attempt per call and enforces no timeout of its own.
type Client struct {
	builder    *RequestBuilder
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new classification service client. A zero timeout
// leaves the deadline to the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP creates a client using the given HTTP client
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		builder:    NewRequestBuilder(baseURL),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Classify sends the input to the service and returns the normalized
// result. A result with ServiceError set came back with a success status
// and must be treated as a failed classification by the caller.
func (c *Client) Classify(ctx context.Context, input core.ClassificationInput) (*core.ClassificationResult, error) {
	if !core.HasSubmittableInput(input.Text, input.File) {
		return nil, core.NewError(core.ErrInvalidInput, core.MsgInvalidInput, nil)
	}

	req, err := c.builder.Build(ctx, input)
	if err != nil {
		return nil, core.NewError(core.ErrTransportFailure, err.Error(), err)
	}

	fields := []zap.Field{zap.Bool("with_file", input.File != nil), zap.Int("text_length", len(input.TrimmedText()))}
	if input.File != nil {
		fields = append(fields, zap.String("file", input.File.Handle.Name), zap.Int64("file_size", input.File.Handle.SizeBytes))
	}
	c.logger.Debug("Sending classification request", fields...)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, core.NewError(core.ErrTransportFailure, "failed to decode response", fmt.Errorf("failed to decode response: %w", err))
	}
	object, _ := payload.(map[string]any)
	result := NormalizeMap(object)

	if result.Failed() {
		c.logger.Warn("Classification service reported an error", zap.String("error", *result.ServiceError))
	} else {
		c.logger.Debug("Classification response received", zap.Bool("has_verdict", result.Productive != nil))
	}

	return &result, nil
}

// Info fetches the service metadata
func (c *Client) Info(ctx context.Context) (*ServiceInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.builder.Endpoint(InfoPath), http.NoBody)
	if err != nil {
		return nil, core.NewError(core.ErrTransportFailure, err.Error(), err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var info ServiceInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, core.NewError(core.ErrTransportFailure, "failed to decode response", fmt.Errorf("failed to decode response: %w", err))
	}
	return &info, nil
}

// do executes req and returns the body of a 2xx response. Other statuses
// become transport failures carrying the body's "error" string when there
// is one.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Classification service unreachable", zap.String("url", req.URL.String()), zap.Error(err))
		return nil, core.NewError(core.ErrTransportFailure, fmt.Sprintf("failed to send request: %v", err), err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		if readErr == nil {
			if msg, ok := errorField(body); ok {
				message = msg
			}
		}
		c.logger.Warn("Classification service returned failure status",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, core.NewError(core.ErrTransportFailure, message, fmt.Errorf("service returned status %d", resp.StatusCode))
	}

	if readErr != nil {
		return nil, core.NewError(core.ErrTransportFailure, "failed to read response", fmt.Errorf("failed to read response: %w", readErr))
	}
	return body, nil
}
