package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Generator.Validate(); err != nil {
		t.Fatalf("default profile must validate: %v", err)
	}
	if cfg.Generator.Records != 600 || cfg.Generator.Seed != 42 {
		t.Errorf("unexpected defaults: records=%d seed=%d", cfg.Generator.Records, cfg.Generator.Seed)
	}
	if len(cfg.Generator.Regions) != 10 || cfg.Generator.Agents != 50 {
		t.Errorf("unexpected pools: %d regions, %d agents", len(cfg.Generator.Regions), cfg.Generator.Agents)
	}
}

func TestAgentPool(t *testing.T) {
	g := GeneratorConfig{Agents: 3}
	pool := g.AgentPool()

	want := []string{"A001", "A002", "A003"}
	if len(pool) != len(want) {
		t.Fatalf("pool size = %d, want %d", len(pool), len(want))
	}
	for i := range want {
		if pool[i] != want[i] {
			t.Errorf("agent %d = %s, want %s", i, pool[i], want[i])
		}
	}
}

func TestWindow(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	g := GeneratorConfig{MonthsBack: 18, AsOf: asOf}

	if !g.WindowEnd().Equal(asOf) {
		t.Errorf("WindowEnd = %v, want %v", g.WindowEnd(), asOf)
	}
	wantStart := asOf.AddDate(0, 0, -18*30)
	if !g.WindowStart().Equal(wantStart) {
		t.Errorf("WindowStart = %v, want %v", g.WindowStart(), wantStart)
	}
}

func TestWindow_ZeroAsOfUsesNow(t *testing.T) {
	g := GeneratorConfig{MonthsBack: 1}
	if time.Since(g.WindowEnd()) > time.Minute {
		t.Errorf("zero as_of should fall back to the current time, got %v", g.WindowEnd())
	}
}

func TestLoadProfile_PartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `generator:
  records: 1200
  seed: 7
  fraud_cap: 0.30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}

	if cfg.Generator.Records != 1200 || cfg.Generator.Seed != 7 {
		t.Errorf("overrides not applied: records=%d seed=%d", cfg.Generator.Records, cfg.Generator.Seed)
	}
	if cfg.Generator.FraudCap != 0.30 {
		t.Errorf("fraud_cap = %g, want 0.30", cfg.Generator.FraudCap)
	}
	// Everything not mentioned keeps the default
	if len(cfg.Generator.Regions) != 10 || cfg.Generator.Agents != 50 {
		t.Errorf("defaults lost: %d regions, %d agents", len(cfg.Generator.Regions), cfg.Generator.Agents)
	}
	if !cfg.Output.Excel {
		t.Error("default excel output lost")
	}
}

func TestLoadProfile_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("generator:\n  agents: 0\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadProfile(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadProfile_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("generator: [not: a: map\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadProfile(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadProfile_MissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing profile")
	}
}
