package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileKV_PersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.json")
	ctx := context.Background()

	kv := NewFileKV(path)
	if err := kv.Put(ctx, "42", json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded := NewFileKV(path)
	v, ok, err := reloaded.Get(ctx, "42")
	if err != nil || !ok {
		t.Fatalf("Get after reload: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"a":1}` {
		t.Errorf("value = %s", v)
	}
	if reloaded.Len() != 1 {
		t.Errorf("Len = %d; want 1", reloaded.Len())
	}
}

func TestFileKV_ValueBytesStableAcrossReloads(t *testing.T) {
	// Stored values must come back byte-for-byte, and re-persisting a
	// reloaded store must reproduce the identical file.
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	kv := NewFileKV(path)
	_ = kv.Put(ctx, "2023020001", json.RawMessage(`[{"gameId":2023020001,"period":2}]`))
	if err := kv.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	reloaded := NewFileKV(path)
	v, ok, _ := reloaded.Get(ctx, "2023020001")
	if !ok || string(v) != `[{"gameId":2023020001,"period":2}]` {
		t.Fatalf("value changed across reload: %s", v)
	}
	if err := reloaded.Persist(ctx); err != nil {
		t.Fatalf("Persist after reload: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("file bytes changed on re-persist:\n%s\nvs\n%s", first, second)
	}
}

func TestFileKV_MissingFileStartsEmpty(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "absent.json"))
	_, ok, err := kv.Get(context.Background(), "k")
	if err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestFileKV_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	kv := NewFileKV(path)
	if kv.Len() != 0 {
		t.Errorf("corrupt cache should load empty, Len = %d", kv.Len())
	}
	// And it must still be writable afterwards.
	if err := kv.Put(context.Background(), "k", json.RawMessage(`1`)); err != nil {
		t.Fatalf("Put after corrupt load: %v", err)
	}
	if err := kv.Persist(context.Background()); err != nil {
		t.Fatalf("Persist after corrupt load: %v", err)
	}
}

func TestFileKV_PersistOverwritesWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	kv := NewFileKV(path)
	_ = kv.Put(ctx, "a", json.RawMessage(`1`))
	_ = kv.Persist(ctx)
	_ = kv.Put(ctx, "b", json.RawMessage(`2`))
	_ = kv.Persist(ctx)

	reloaded := NewFileKV(path)
	if reloaded.Len() != 2 {
		t.Errorf("Len = %d; want 2", reloaded.Len())
	}
}
