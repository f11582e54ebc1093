// Package cache provides the persisted key/value stores that let interrupted
// runs resume without losing fetched data.
package cache

import (
	"context"
	"encoding/json"
)

// KV is a string-keyed store of JSON values. Persist must be cheap enough to
// call after every unit of work; backends that write through (redis) make it
// a no-op.
type KV interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Persist(ctx context.Context) error
}
