package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrPersist marks failures reading or writing a persisted document.
var ErrPersist = errors.New("persistence failure")

// Load decodes the TOML document at path into out. A missing file is not an
// error: out is left untouched and the returned metadata defines no keys.
func Load(path string, out any) (toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return toml.MetaData{}, nil
		}
		return toml.MetaData{}, fmt.Errorf("%w: read %s: %w", ErrPersist, path, err)
	}
	meta, err := toml.Decode(string(data), out)
	if err != nil {
		return toml.MetaData{}, fmt.Errorf("%w: parse %s: %w", ErrPersist, path, err)
	}
	return meta, nil
}

// Save encodes v as TOML and atomically replaces path with it, creating the
// parent directory if needed.
func Save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersist, path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
