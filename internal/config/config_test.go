package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempConfig(t, `
pipeline_url: "http://pipeline.internal:9000"
theme: "nord"
mode: "deposition"
journal_path: "/tmp/journal.db"
`)
	t.Setenv("DEPO_REVIEW_CONFIG", path)
	t.Setenv("DEPO_PIPELINE_URL", "")
	t.Setenv("DEPO_REVIEW_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PipelineURL != "http://pipeline.internal:9000" {
		t.Errorf("unexpected pipeline url: %s", cfg.PipelineURL)
	}
	if cfg.Theme != "nord" {
		t.Errorf("unexpected theme: %s", cfg.Theme)
	}
	if cfg.Mode != "deposition" {
		t.Errorf("unexpected mode: %s", cfg.Mode)
	}
	if cfg.JournalPath != "/tmp/journal.db" {
		t.Errorf("unexpected journal path: %s", cfg.JournalPath)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, `pipeline_url: "http://from-file:8000"`)
	t.Setenv("DEPO_REVIEW_CONFIG", path)
	t.Setenv("DEPO_PIPELINE_URL", "http://from-env:8000")
	t.Setenv("DEPO_REVIEW_MODE", "deposition")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PipelineURL != "http://from-env:8000" {
		t.Errorf("env should override file, got %s", cfg.PipelineURL)
	}
	if cfg.Mode != "deposition" {
		t.Errorf("env should set mode, got %s", cfg.Mode)
	}
}

func TestLoadMissingFileDefaults(t *testing.T) {
	t.Setenv("DEPO_REVIEW_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DEPO_PIPELINE_URL", "")
	t.Setenv("DEPO_REVIEW_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Mode != "pair" {
		t.Errorf("expected default mode pair, got %s", cfg.Mode)
	}
	if cfg.PipelineURL != "" {
		t.Errorf("expected empty url so client default applies, got %s", cfg.PipelineURL)
	}
}

func TestEffectiveJournalPathExplicit(t *testing.T) {
	cfg := &Config{JournalPath: "/data/journal.db"}
	path, err := cfg.EffectiveJournalPath()
	if err != nil {
		t.Fatalf("EffectiveJournalPath failed: %v", err)
	}
	if path != "/data/journal.db" {
		t.Errorf("expected explicit path, got %s", path)
	}
}
