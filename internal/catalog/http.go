// internal/catalog/http.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	commonhttp "festival-matcher/internal/common/http"
)

// HTTPSource fetches the catalog document from a URL. When the document
// carries no version the response ETag is used instead.
type HTTPSource struct {
	client *commonhttp.Client
	url    string
}

func NewHTTPSource(client *commonhttp.Client, url string) *HTTPSource {
	return &HTTPSource{client: client, url: url}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Load(ctx context.Context) (*Document, error) {
	data, etag, err := s.client.GetBytes(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.Version == "" {
		doc.Version = strings.Trim(strings.TrimPrefix(etag, "W/"), `"`)
	}
	return doc, nil
}
