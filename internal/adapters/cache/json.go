package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/pledge/internal/ports/secondary"
)

// FetchJSON is a typed read-through over a byte cache: cached bytes are
// decoded into T, and a miss stores the JSON encoding of load's result.
func FetchJSON[T any](ctx context.Context, c secondary.Cache, key string, tags []string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	raw, err := c.Fetch(ctx, key, tags, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return out, nil
}
