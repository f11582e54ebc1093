package cache

import (
	"context"
	"encoding/json"
)

// MemKV is an in-memory store for tests and dry runs.
type MemKV struct {
	entries  map[string]json.RawMessage
	Persists int
}

func NewMemKV() *MemKV {
	return &MemKV{entries: make(map[string]json.RawMessage)}
}

func (kv *MemKV) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	v, ok := kv.entries[key]
	return v, ok, nil
}

func (kv *MemKV) Put(_ context.Context, key string, value json.RawMessage) error {
	kv.entries[key] = value
	return nil
}

func (kv *MemKV) Persist(context.Context) error {
	kv.Persists++
	return nil
}
