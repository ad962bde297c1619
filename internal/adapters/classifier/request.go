package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/mikey/email-classifier/internal/core"
)

const (
	// ClassifyPath is the classification endpoint on the service base URL
	ClassifyPath = "/classify-email"
	// InfoPath is the service metadata endpoint
	InfoPath = "/info"

	fieldFile      = "file"
	fieldEmailText = "email_text"
)

// textPayload is the JSON body sent for text-only submissions
type textPayload struct {
	EmailText string `json:"email_text"`
}

// RequestBuilder turns a classification input into an HTTP request
type RequestBuilder struct {
	baseURL string
}

// NewRequestBuilder creates a builder targeting baseURL. One trailing
// slash is stripped.
func NewRequestBuilder(baseURL string) *RequestBuilder {
	return &RequestBuilder{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Endpoint returns the absolute URL for path
func (b *RequestBuilder) Endpoint(path string) string {
	return b.baseURL + path
}

// Build creates the classification request. The input must already be
// submittable. With a file the body is multipart with the file under
// "file" and the trimmed text, when non-empty, under "email_text";
// otherwise the body is JSON.
func (b *RequestBuilder) Build(ctx context.Context, input core.ClassificationInput) (*http.Request, error) {
	text := input.TrimmedText()

	if input.File != nil {
		body, contentType, err := multipartBody(input.File, text)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint(ClassifyPath), body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		// the boundary is chosen by the multipart writer
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}

	payload, err := json.Marshal(textPayload{EmailText: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint(ClassifyPath), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func multipartBody(upload *core.Upload, text string) (*bytes.Buffer, string, error) {
	if upload.Open == nil {
		return nil, "", fmt.Errorf("file %q has no content", upload.Handle.Name)
	}

	content, err := upload.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file %q: %w", upload.Handle.Name, err)
	}
	defer content.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fieldFile, upload.Handle.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", fmt.Errorf("failed to read file %q: %w", upload.Handle.Name, err)
	}

	if text != "" {
		if err := writer.WriteField(fieldEmailText, text); err != nil {
			return nil, "", fmt.Errorf("failed to write text field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
