// internal/catalog/source.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"festival-matcher/internal/matching"
)

var (
	ErrCatalogInvalid     = errors.New("CATALOG_INVALID")
	ErrCatalogUnavailable = errors.New("CATALOG_UNAVAILABLE")
	ErrCatalogEmpty       = errors.New("catalog has no festivals")
)

// Document is the serialized catalog shared by the file and Redis sources.
type Document struct {
	Version   string               `json:"version"`
	Festivals []matching.Candidate `json:"festivals"`
}

// Source loads a full catalog document.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Document, error)
}

// DecodeDocument validates raw JSON against the catalog schema and decodes it.
func DecodeDocument(data []byte) (*Document, error) {
	res, err := schema.ValidateBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}
	return &doc, nil
}
