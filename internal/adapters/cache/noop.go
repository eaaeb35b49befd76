package cache

import (
	"context"

	"github.com/example/pledge/internal/ports/secondary"
)

// Noop never caches; every Fetch calls load.
type Noop struct{}

// Fetch calls load.
func (Noop) Fetch(ctx context.Context, _ string, _ []string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	return load(ctx)
}

// Invalidate does nothing.
func (Noop) Invalidate(context.Context, ...string) error { return nil }

var _ secondary.Cache = Noop{}
