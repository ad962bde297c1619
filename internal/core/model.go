package core

import (
	"io"
	"path/filepath"
	"strings"
	"time"
)

// InputKind describes where a classified input came from
type InputKind string

const (
	InputKindText InputKind = "text"
	InputKindFile InputKind = "file"
)

// FileHandle is the metadata of a file chosen by the user. The core never
// reads or stores the file contents.
type FileHandle struct {
	Name      string
	SizeBytes int64
	Extension string
}

// NewFileHandle builds a handle for name, deriving the extension from the
// text after the last dot. A name without a dot has an empty extension.
func NewFileHandle(name string, sizeBytes int64) FileHandle {
	return FileHandle{
		Name:      name,
		SizeBytes: sizeBytes,
		Extension: extensionOf(name),
	}
}

func extensionOf(name string) string {
	base := filepath.Base(name)
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return ""
	}
	return base[idx+1:]
}

// ContentOpener opens the raw bytes of an uploaded file
type ContentOpener func() (io.ReadCloser, error)

// Upload pairs a file handle with the opener supplied by the presentation
// layer. Content is only streamed to the classification service.
type Upload struct {
	Handle FileHandle
	Open   ContentOpener
}

// ClassificationInput is the text and/or file submitted for classification
type ClassificationInput struct {
	Text string
	File *Upload
}

// TrimmedText returns the input text without surrounding whitespace
func (in ClassificationInput) TrimmedText() string {
	return strings.TrimSpace(in.Text)
}

// ClassificationResult is the canonical result shape. Nil pointers and a
// nil keyword slice mean the field is absent.
type ClassificationResult struct {
	Productive   *bool    `json:"productive"`
	Confidence   *float64 `json:"confidence"`
	Reason       *string  `json:"reason"`
	Keywords     []string `json:"keywords"`
	Reply        *string  `json:"reply"`
	ServiceError *string  `json:"error"`
}

// Failed reports whether the service reported an error inside the payload
func (r *ClassificationResult) Failed() bool {
	return r != nil && r.ServiceError != nil
}

// Clone returns a deep copy with an independent keyword slice
func (r ClassificationResult) Clone() ClassificationResult {
	out := r
	if r.Keywords != nil {
		out.Keywords = append(make([]string, 0, len(r.Keywords)), r.Keywords...)
	}
	return out
}

// Sanitized returns an independent copy with the service error cleared
func (r ClassificationResult) Sanitized() ClassificationResult {
	out := r.Clone()
	out.ServiceError = nil
	return out
}

// StatusLabel returns the user-facing verdict label for a result
func StatusLabel(r ClassificationResult) string {
	switch {
	case r.Productive == nil:
		return "Inconclusivo"
	case *r.Productive:
		return "Produtivo"
	default:
		return "Não produtivo"
	}
}

// HistoryEntry records one successful classification. Entries are never
// mutated after creation.
type HistoryEntry struct {
	ID           string
	Timestamp    int64
	InputKind    InputKind
	InputLabel   string
	Preview      string
	InputContent *string
	Result       ClassificationResult
}

// Time returns the entry timestamp as a time.Time
func (e HistoryEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
