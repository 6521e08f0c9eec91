// internal/common/http/client_test.go
package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("ETag", `"v7"`)
			w.Write([]byte(`{"festivals": []}`))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(time.Second)

	t.Run("ok", func(t *testing.T) {
		body, etag, err := c.GetBytes(context.Background(), srv.URL+"/ok")
		require.NoError(t, err)
		assert.JSONEq(t, `{"festivals": []}`, string(body))
		assert.Equal(t, `"v7"`, etag)
	})

	t.Run("status error", func(t *testing.T) {
		_, _, err := c.GetBytes(context.Background(), srv.URL+"/missing")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("context deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, _, err := c.GetBytes(ctx, srv.URL+"/slow")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
