package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileKV is a whole-file JSON store: one flat object mapping string keys to
// cached values. Loaded once at construction; Persist rewrites the file via a
// temp-file rename.
type FileKV struct {
	path    string
	entries map[string]json.RawMessage
}

// NewFileKV loads the backing file if present. A missing or unparseable file
// is treated as an empty cache, never an error: the pipeline degrades to
// refetching rather than crashing.
func NewFileKV(path string) *FileKV {
	kv := &FileKV{path: path, entries: make(map[string]json.RawMessage)}
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("cache read failed, starting empty", "path", path, "error", err)
		}
		return kv
	}
	if err := json.Unmarshal(b, &kv.entries); err != nil {
		slog.Warn("cache unparseable, starting empty", "path", path, "error", err)
		kv.entries = make(map[string]json.RawMessage)
	}
	return kv
}

func (kv *FileKV) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	v, ok := kv.entries[key]
	return v, ok, nil
}

func (kv *FileKV) Put(_ context.Context, key string, value json.RawMessage) error {
	kv.entries[key] = value
	return nil
}

// Persist writes the whole map. Safe to call after every game; a crash loses
// at most the in-flight entry. Compact encoding keeps the stored raw values
// byte-identical across a reload; nothing human reads this file.
func (kv *FileKV) Persist(_ context.Context) error {
	b, err := json.Marshal(kv.entries)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(kv.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, kv.path); err != nil {
		return fmt.Errorf("rename cache: %w", err)
	}
	return nil
}

// Len reports the number of cached entries.
func (kv *FileKV) Len() int { return len(kv.entries) }
