package runid

import (
	"context"
	"math/rand"
)

// key is the context key for the validation run ID.
type key struct{}

// NewContext returns a copy of parent carrying a fresh random run ID, along
// with the generated ID. Every validation run gets its own ID so that events
// emitted from the same run can be correlated by subscribers.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int63()
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the run ID from ctx.
// It returns the ID and whether it was present.
func FromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(key{})
	id, ok := v.(int64)
	return id, ok
}
