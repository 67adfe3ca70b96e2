package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	dir := filepath.Join(home, ".shellsage")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_DefaultsForMissingKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "server:\n  port: 9000\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port: got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Fatalf("host: got %q", cfg.Server.Host)
	}
	if cfg.Suggest.TopK != 10 || cfg.Suggest.MaxSuggestions != 5 {
		t.Fatalf("suggest defaults: %+v", cfg.Suggest)
	}
	if !cfg.Suggest.SafetyCheck {
		t.Fatalf("safety check should default to true")
	}
	if cfg.Index.Dir != filepath.Join(home, ".shellsage", "index") {
		t.Fatalf("index dir: got %q", cfg.Index.Dir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "suggest:\n  top_k: 3\n")
	t.Setenv("SHELLSAGE_TOP_K_CANDIDATES", "7")
	t.Setenv("SHELLSAGE_ENABLE_SAFETY_CHECK", "false")
	t.Setenv("SHELLSAGE_SIMILARITY_THRESHOLD", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Suggest.TopK != 7 {
		t.Fatalf("top_k: got %d", cfg.Suggest.TopK)
	}
	if cfg.Suggest.SafetyCheck {
		t.Fatalf("safety check should be disabled")
	}
	if cfg.Suggest.SimilarityThreshold != 0.25 {
		t.Fatalf("threshold: got %v", cfg.Suggest.SimilarityThreshold)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "")
	t.Setenv("SHELLSAGE_API_PORT", "eighty")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric port")
	}
}

func TestLoad_ExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "index:\n  dir: ~/idx\nfixes:\n  patterns_path: ~/p.json\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Index.Dir != filepath.Join(home, "idx") {
		t.Fatalf("index dir: got %q", cfg.Index.Dir)
	}
	if cfg.Fixes.PatternsPath != filepath.Join(home, "p.json") {
		t.Fatalf("patterns path: got %q", cfg.Fixes.PatternsPath)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Suggest.MaxSuggestions = 2
	cfg.Fixes.Watch = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Suggest.MaxSuggestions != 2 || !got.Fixes.Watch {
		t.Fatalf("round trip lost values: %+v", got)
	}
}
