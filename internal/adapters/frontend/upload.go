package frontend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mikey/email-classifier/internal/core"
)

// OpenUpload describes the file at path. Its content is opened lazily, only
// when the request body is built.
func OpenUpload(path string) (core.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.Upload{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return core.Upload{}, fmt.Errorf("%s is a directory", path)
	}

	return core.Upload{
		Handle: core.NewFileHandle(filepath.Base(path), info.Size()),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
