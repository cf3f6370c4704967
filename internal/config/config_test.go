package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Sources) == 0 {
		t.Error("expected sources to be populated")
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model %q", cfg.Anthropic.Model)
	}
	if cfg.Freshness.MaxAgeDays != 14 {
		t.Errorf("expected 14-day window, got %d", cfg.Freshness.MaxAgeDays)
	}
	if len(cfg.Linking.Rules) == 0 {
		t.Error("expected link rules to be populated")
	}
	if cfg.Posting.DailyLimit != 5 {
		t.Errorf("expected daily limit 5, got %d", cfg.Posting.DailyLimit)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
wordpress:
  url: https://example.com
sources:
  - name: example
    url: https://example.com/news/
    category: canadian
    min_words: 300
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Sources[0].MinWords != 300 {
		t.Errorf("expected min_words 300, got %d", cfg.Sources[0].MinWords)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Anthropic.APIKeyEnv != "ANTHROPIC_API_KEY" {
		t.Errorf("expected default api_key_env, got %q", cfg.Anthropic.APIKeyEnv)
	}
	if cfg.WordPress.PostType != "news" {
		t.Errorf("expected default post type, got %q", cfg.WordPress.PostType)
	}
	if cfg.Ledger.Backend != "sqlite" {
		t.Errorf("expected default sqlite backend, got %q", cfg.Ledger.Backend)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.WordPress.URL == "" {
		t.Error("expected wordpress url from default config")
	}
}

func TestFreshnessCutoffRelative(t *testing.T) {
	cfg, _ := parse([]byte("freshness:\n  max_age_days: 7\n"))
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	cutoff, err := cfg.FreshnessCutoff(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cutoff.Day() != 24 || cutoff.Month() != time.September {
		t.Errorf("expected 2025-09-24, got %v", cutoff)
	}
}

func TestFreshnessCutoffAbsolute(t *testing.T) {
	cfg, _ := parse([]byte("freshness:\n  cutoff: \"2025-09-23\"\n"))
	cutoff, err := cfg.FreshnessCutoff(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 9, 23, 0, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Errorf("expected %v, got %v", want, cutoff)
	}
}

func TestLedgerPathDefaults(t *testing.T) {
	cfg, _ := parse([]byte("output:\n  data_dir: /data\n"))
	if got := cfg.LedgerPath(); got != "/data/used_articles.db" {
		t.Errorf("unexpected sqlite path %q", got)
	}

	cfg, _ = parse([]byte("output:\n  data_dir: /data\nledger:\n  backend: file\n"))
	if got := cfg.LedgerPath(); got != "/data/used_articles.jsonl" {
		t.Errorf("unexpected file path %q", got)
	}
}
