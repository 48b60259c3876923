package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxFileBytes != 4<<20 {
		t.Fatalf("MaxFileBytes = %d", cfg.MaxFileBytes)
	}
	if len(cfg.IgnoreDirs) == 0 {
		t.Fatalf("default ignore dirs empty")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	body := "virtual_root = \"wwwroot\"\nexclude = [\"legacy/**\"]\nmax_file_bytes = 1024\nverbosity = 2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromRoot(dir)
	if err != nil {
		t.Fatalf("LoadFromRoot: %v", err)
	}
	if cfg.VirtualRoot != "wwwroot" || cfg.MaxFileBytes != 1024 || cfg.Verbosity != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "legacy/**" {
		t.Fatalf("exclude = %v", cfg.Exclude)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("exclude = ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestVirtualRootFor(t *testing.T) {
	cfg := Default()
	if got := cfg.VirtualRootFor("/site"); got != "/site" {
		t.Fatalf("default virtual root = %q", got)
	}
	cfg.VirtualRoot = "wwwroot"
	if got := cfg.VirtualRootFor("/site"); got != filepath.Join("/site", "wwwroot") {
		t.Fatalf("relative virtual root = %q", got)
	}
	cfg.VirtualRoot = "/var/www"
	if got := cfg.VirtualRootFor("/site"); got != "/var/www" {
		t.Fatalf("absolute virtual root = %q", got)
	}
}
