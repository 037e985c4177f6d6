// Package config holds zbook's per-install settings. Settings are plain
// JSON in the data dir; nothing in here is secret, so they stay readable
// next to the encrypted book.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/zarlcorp/zbook/internal/book"
	"github.com/zarlcorp/zbook/internal/store"
)

const configFile = "config.json"

// Settings is the on-disk configuration. Zero values mean defaults.
type Settings struct {
	PageSize int    `json:"page_size,omitempty"`
	BookFile string `json:"book_file,omitempty"`
}

// EffectivePageSize returns the configured page size, or the book default.
func (s Settings) EffectivePageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return book.DefaultPageSize
}

// EffectiveBookFile returns the configured snapshot path, or the default.
func (s Settings) EffectiveBookFile() string {
	if s.BookFile != "" {
		return s.BookFile
	}
	return store.DefaultBookFile
}

// Load reads settings from the data dir. A missing file means defaults.
func Load(fsys zfilesystem.ReadWriteFileFS) (Settings, error) {
	data, err := fsys.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("load config: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("load config: parse: %w", err)
	}
	return s, nil
}

// Save writes settings to the data dir.
func Save(fsys zfilesystem.ReadWriteFileFS, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("save config: marshal: %w", err)
	}

	if err := fsys.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
