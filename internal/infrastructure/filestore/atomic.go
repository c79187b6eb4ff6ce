package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// writeFileAtomic serializes v to a temporary file in the target's
// directory, forces it to durable storage and renames it over the target.
// A reader can never observe a partially written file.
func writeFileAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "marshal", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &domain.StorageError{Op: "create temp", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return &domain.StorageError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return &domain.StorageError{Op: "fsync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.StorageError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &domain.StorageError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// readJSONFile decodes path into out, reporting ok=false when the file is
// absent, unreadable or does not parse. Read paths degrade, never fail.
func readJSONFile(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}
