// internal/catalog/http_test.go
package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	commonhttp "festival-matcher/internal/common/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// HTTPSource Tests
// ==========================

func TestHTTPSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/catalog.json":
			w.Write([]byte(sampleDocument))
		case "/unversioned.json":
			w.Header().Set("ETag", `W/"abc123"`)
			w.Write([]byte(`{"festivals": [{"id": "a", "name": "A"}]}`))
		case "/broken.json":
			w.Write([]byte(`{"festivals": "nope"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client := commonhttp.NewClient(time.Second)

	tests := []struct {
		name        string
		path        string
		wantVersion string
		wantCount   int
		wantErr     error
	}{
		{"versioned document", "/catalog.json", "2026-06-01", 2, nil},
		{"etag fallback", "/unversioned.json", "abc123", 1, nil},
		{"schema violation", "/broken.json", "", 0, ErrCatalogInvalid},
		{"upstream error", "/down", "", 0, ErrCatalogUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewHTTPSource(client, srv.URL+tt.path)
			assert.Equal(t, "http", src.Name())

			doc, err := src.Load(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, doc.Version)
			assert.Len(t, doc.Festivals, tt.wantCount)
		})
	}
}
