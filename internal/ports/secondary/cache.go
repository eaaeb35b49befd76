package secondary

import (
	"context"
	"time"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// Cache is a read-through cache keyed by topic. Entries carry tags so that a
// single write can invalidate every key it affects.
type Cache interface {
	// Fetch returns the cached value for key, or calls load, stores the
	// result under key with tags and returns it.
	Fetch(ctx context.Context, key string, tags []string, load func(ctx context.Context) ([]byte, error)) ([]byte, error)

	// Invalidate drops every key stored under any of the tags.
	Invalidate(ctx context.Context, tags ...string) error
}

// Clock supplies the current time. "Today" is the calendar date of Now in
// the clock's location.
type Clock interface {
	Now() time.Time
}
