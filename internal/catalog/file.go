// internal/catalog/file.go
package catalog

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads a JSON catalog document from disk on every Load.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(_ context.Context) (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogUnavailable, s.path, err)
	}
	return DecodeDocument(data)
}
