// internal/catalog/redis.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads the catalog document stored under a single key. The
// catalog-publisher tool writes it with Publish.
type RedisSource struct {
	client redis.Cmdable
	key    string
}

func NewRedisSource(client redis.Cmdable, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (s *RedisSource) Name() string { return "redis" }

func (s *RedisSource) Load(ctx context.Context) (*Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: key %s not found", ErrCatalogUnavailable, s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrCatalogUnavailable, s.key, err)
	}
	return DecodeDocument(data)
}

// Publish validates doc and stores it, replacing the previous snapshot. The
// version is also written to <key>:version so readers can check it cheaply.
func (s *RedisSource) Publish(ctx context.Context, data []byte) (*Document, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Festivals) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, ErrCatalogEmpty)
	}

	canonical, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key, canonical, 0)
		pipe.Set(ctx, s.key+":version", doc.Version, 0)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: publish %s: %v", ErrCatalogUnavailable, s.key, err)
	}
	return doc, nil
}

// Version returns the published version without fetching the document.
func (s *RedisSource) Version(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, s.key+":version").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}
