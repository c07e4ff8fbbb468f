package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nmehta/claimsight/internal/model"
	"github.com/nmehta/claimsight/internal/sink"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Generator.Records = 50
	cfg.Generator.Seed = 42
	cfg.Generator.AsOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg.Output.Dir = t.TempDir()
	cfg.Output.Excel = true
	return cfg
}

func TestPipeline_Run_WritesAllArtifacts(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{RawCSVName, CleanCSVName, DBName, ExcelName} {
		path := filepath.Join(cfg.Output.Dir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
		}
	}

	if len(result.Raw) != 50 {
		t.Errorf("raw count = %d, want 50", len(result.Raw))
	}
	if result.Summary.TotalClaims != len(result.Clean) {
		t.Errorf("summary covers %d claims, cleaned set has %d",
			result.Summary.TotalClaims, len(result.Clean))
	}
	if result.Summary.Cleaning == nil {
		t.Fatal("expected cleaning stats attached to summary")
	}
	if result.Summary.Cleaning.Input != len(result.Raw) {
		t.Errorf("cleaning input = %d, want %d", result.Summary.Cleaning.Input, len(result.Raw))
	}
	if result.Summary.Seed != 42 {
		t.Errorf("summary seed = %d, want 42", result.Summary.Seed)
	}
}

func TestPipeline_Run_NoExcel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Excel = false
	p := NewPipeline(cfg)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, ExcelName)); !os.IsNotExist(err) {
		t.Errorf("expected no workbook, stat returned %v", err)
	}
}

// Same profile, same seed: the persisted tables must match byte for byte
func TestPipeline_Run_Deterministic(t *testing.T) {
	cfgA := testConfig(t)
	cfgB := testConfig(t)

	resA, err := NewPipeline(cfgA).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	resB, err := NewPipeline(cfgB).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	dataA, err := os.ReadFile(filepath.Join(cfgA.Output.Dir, CleanCSVName))
	if err != nil {
		t.Fatalf("read first csv: %v", err)
	}
	dataB, err := os.ReadFile(filepath.Join(cfgB.Output.Dir, CleanCSVName))
	if err != nil {
		t.Fatalf("read second csv: %v", err)
	}
	if string(dataA) != string(dataB) {
		t.Error("clean CSVs differ between identical runs")
	}

	// KPIs agree; run IDs intentionally do not
	if resA.Summary.ApprovalRate != resB.Summary.ApprovalRate ||
		resA.Summary.FraudRate != resB.Summary.FraudRate ||
		resA.Summary.TotalAmount != resB.Summary.TotalAmount {
		t.Error("KPIs differ between identical runs")
	}
	if resA.Summary.RunID == resB.Summary.RunID {
		t.Error("expected distinct run IDs")
	}
}

// The SQLite table must agree with the clean CSV
func TestPipeline_Run_StoresCleanedClaims(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	store, err := sink.NewSQLiteStore(filepath.Join(cfg.Output.Dir, DBName))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	count, err := store.CountClaims(context.Background())
	if err != nil {
		t.Fatalf("CountClaims: %v", err)
	}
	if count != len(result.Clean) {
		t.Errorf("stored %d rows, cleaned set has %d", count, len(result.Clean))
	}
}

func TestPipeline_Run_InvalidProfile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.Agents = 0
	p := NewPipeline(cfg)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for invalid profile")
	}
}

func TestPipeline_RenderSummary_WritesFiles(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	jsonPath := filepath.Join(cfg.Output.Dir, "summary.json")
	mdPath := filepath.Join(cfg.Output.Dir, "summary.md")
	if err := p.RenderSummary(result.Summary, jsonPath, mdPath, false); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}

	for _, path := range []string{jsonPath, mdPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("rendered output %s missing: %v", filepath.Base(path), err)
		}
	}

	// No narrative configured, so no sidecar
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "summary.llm.md")); !os.IsNotExist(err) {
		t.Errorf("unexpected narrative sidecar, stat returned %v", err)
	}
}
