package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "giltrack.sqlite3" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GILTRACK_DB", "/tmp/custom.sqlite3")
	t.Setenv("GILTRACK_LOG", "/tmp/giltrack.log")
	t.Setenv("GILTRACK_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.sqlite3" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LogPath != "/tmp/giltrack.log" {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestLoadInvalidBool(t *testing.T) {
	t.Setenv("GILTRACK_DEBUG", "maybe")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid boolean")
	}
}
