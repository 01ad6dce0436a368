package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// t.Chdir requires Go 1.24+; emulate it on older toolchains.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8090" {
		t.Fatalf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.Bucket != "pain-images" {
		t.Fatalf("Backend.Bucket = %q", cfg.Backend.Bucket)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.SessionFile != ".painmap-session" {
		t.Fatalf("SessionFile = %q", cfg.SessionFile)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("backend:\n  url: http://from-yaml:9000\n  bucket: yaml-bucket\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PAINMAP_BACKEND_URL", "http://from-env:7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://from-env:7000" {
		t.Fatalf("Backend.URL = %q, env must beat yaml", cfg.Backend.URL)
	}
	if cfg.Backend.Bucket != "yaml-bucket" {
		t.Fatalf("Backend.Bucket = %q, yaml must beat defaults", cfg.Backend.Bucket)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("missing explicit config file must be an error")
	}
}
