// Package config handles deck configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents deck configuration stored in .refdeck/config.json.
type Config struct {
	PDFReader        string `json:"pdf_reader,omitempty"`         // system, skim, zathura, evince, okular
	MaxSnapshotBytes int    `json:"max_snapshot_bytes,omitempty"` // 0 means the built-in default
}

const (
	DeckDir      = ".refdeck"
	ConfigFile   = "config.json"
	SnapshotFile = "deck.db"
	PDFDir       = "pdfs"
)

// ValidReaders lists the supported PDF reader values.
var ValidReaders = []string{"system", "skim", "preview", "zathura", "evince", "okular"}

// DeckPath returns the path to the .refdeck directory from a root path.
func DeckPath(root string) string {
	return filepath.Join(root, DeckDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, DeckDir, ConfigFile)
}

// SnapshotPath returns the path to the snapshot database.
func SnapshotPath(root string) string {
	return filepath.Join(root, DeckDir, SnapshotFile)
}

// PDFPath returns the path to the PDF blob directory.
func PDFPath(root string) string {
	return filepath.Join(root, DeckDir, PDFDir)
}

// IsDeck checks if the given path contains a refdeck deck.
func IsDeck(root string) bool {
	info, err := os.Stat(DeckPath(root))
	return err == nil && info.IsDir()
}

// FindDeck walks up from the given path to find a deck root. The
// RD_ROOT environment variable short-circuits discovery.
func FindDeck(start string) (string, error) {
	if root := os.Getenv("RD_ROOT"); root != "" {
		return root, nil
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsDeck(abs) {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a refdeck deck (no .refdeck directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the deck at the given root. A missing
// config file yields defaults, not an error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes configuration to the deck at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
