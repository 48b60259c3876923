// Package config loads the optional aspintel.toml workspace configuration.
// Defaults are usable on their own; the file overrides defaults and CLI
// flags override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is looked up at the workspace root when no explicit path is given.
const FileName = "aspintel.toml"

type Config struct {
	// VirtualRoot overrides the workspace root as the base for
	// <!--#include virtual=...--> resolution, for sites whose web root is
	// a subdirectory of the repository.
	VirtualRoot string `toml:"virtual_root"`

	// Exclude holds doublestar glob patterns matched against workspace
	// relative paths, e.g. "legacy/**" or "**/*_old.asp".
	Exclude []string `toml:"exclude"`

	// IgnoreDirs are directory names skipped anywhere in the tree.
	IgnoreDirs []string `toml:"ignore_dirs"`

	// MaxFileBytes caps what the scanner will read per file.
	MaxFileBytes int64 `toml:"max_file_bytes"`

	// Verbosity raises log output; 0 is quiet operation.
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no file is present. The
// ignored directory names cover the build output and backup conventions
// common in legacy ASP deployments.
func Default() *Config {
	return &Config{
		IgnoreDirs:   []string{"bin", "obj", "Backup", "backup", ".git", "__pycache__", "node_modules"},
		MaxFileBytes: 4 << 20,
	}
}

// Load reads path and overlays it on the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromRoot loads the conventional config file under root.
func LoadFromRoot(root string) (*Config, error) {
	return Load(filepath.Join(root, FileName))
}

// VirtualRootFor resolves the effective virtual-include base for root.
func (c *Config) VirtualRootFor(root string) string {
	if c.VirtualRoot != "" {
		if filepath.IsAbs(c.VirtualRoot) {
			return c.VirtualRoot
		}
		return filepath.Join(root, c.VirtualRoot)
	}
	return root
}
