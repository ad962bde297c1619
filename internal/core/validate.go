package core

import (
	"strings"
)

// MaxFileSize is the largest accepted upload, in bytes
const MaxFileSize int64 = 16 * 1024 * 1024

var allowedExtensions = map[string]struct{}{
	"txt": {},
	"pdf": {},
}

// AllowedExtensions lists the accepted upload extensions
func AllowedExtensions() []string {
	return []string{"txt", "pdf"}
}

// ValidateFile checks that the file has an accepted extension and size.
// The extension check is case-insensitive.
func ValidateFile(file FileHandle) error {
	if _, ok := allowedExtensions[strings.ToLower(file.Extension)]; !ok {
		return NewError(ErrUnsupportedFormat, MsgUnsupportedFormat, nil)
	}
	if file.SizeBytes > MaxFileSize {
		return NewError(ErrFileTooLarge, MsgFileTooLarge, nil)
	}
	return nil
}

// HasSubmittableInput reports whether there is something to classify
func HasSubmittableInput(text string, file *Upload) bool {
	return file != nil || strings.TrimSpace(text) != ""
}
