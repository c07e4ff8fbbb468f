package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nmehta/claimsight/internal/aggregate"
	"github.com/nmehta/claimsight/internal/clean"
	"github.com/nmehta/claimsight/internal/generate"
	"github.com/nmehta/claimsight/internal/llm"
	"github.com/nmehta/claimsight/internal/model"
	"github.com/nmehta/claimsight/internal/sink"
)

// Artifact file names inside the output directory, matching what BI users
// connect to
const (
	RawCSVName   = "insurance_claims.csv"
	CleanCSVName = "clean_claims.csv"
	DBName       = "insurance.db"
	ExcelName    = "summary.xlsx"
)

// Pipeline orchestrates the complete run:
// generate -> clean -> persist (CSV + SQLite) -> aggregate -> render
type Pipeline struct {
	config   *model.Config
	cleaner  *clean.Cleaner
	renderer *Renderer
	narrator *llm.Narrator // Optional (nil when disabled)
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var narrator *llm.Narrator
	if cfg.LLM.Provider != "" {
		n, err := llm.NewNarrator(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			narrator = n
		}
	}

	return &Pipeline{
		config:   cfg,
		cleaner:  clean.NewCleaner(cfg.Generator),
		renderer: NewRenderer(),
		narrator: narrator,
	}
}

// RunResult contains everything a run produced
type RunResult struct {
	Raw     []model.Claim
	Clean   []model.Claim
	Stats   model.CleaningStats
	Summary *model.Summary
}

// Run executes the full pipeline and writes all artifacts into the output
// directory. The dataset is written before aggregation so a failed summary
// still leaves usable tables behind.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	gen, err := generate.NewGenerator(p.config.Generator)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	raw, err := gen.Generate(p.config.Generator.Records)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	cleaned, stats := p.cleaner.Clean(raw)

	outDir := p.config.Output.Dir
	if err := sink.WriteClaimsCSV(filepath.Join(outDir, RawCSVName), raw); err != nil {
		return nil, fmt.Errorf("write raw csv: %w", err)
	}
	if err := sink.WriteClaimsCSV(filepath.Join(outDir, CleanCSVName), cleaned); err != nil {
		return nil, fmt.Errorf("write clean csv: %w", err)
	}

	store, err := sink.NewSQLiteStore(filepath.Join(outDir, DBName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.ReplaceClaims(ctx, cleaned); err != nil {
		return nil, fmt.Errorf("write sqlite: %w", err)
	}

	summary, err := p.Summarize(ctx, cleaned, gen.Seed())
	if err != nil {
		return nil, err
	}
	summary.Cleaning = &stats

	if p.config.Output.Excel {
		if err := sink.WriteSummaryExcel(filepath.Join(outDir, ExcelName), summary); err != nil {
			return nil, fmt.Errorf("write excel: %w", err)
		}
	}

	return &RunResult{
		Raw:     raw,
		Clean:   cleaned,
		Stats:   stats,
		Summary: summary,
	}, nil
}

// Summarize aggregates a claim collection into a KPI summary, generating
// the optional narrative afterwards (the narrative never affects the KPIs)
func (p *Pipeline) Summarize(ctx context.Context, claims []model.Claim, seed int64) (*model.Summary, error) {
	agg := aggregate.NewAggregator(claims)
	summary, err := agg.Summarize(seed)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	if p.narrator.IsEnabled() {
		narrative, err := p.narrator.GenerateNarrative(ctx, *summary)
		if err != nil {
			// A failed narrative never fails the run
			fmt.Fprintf(os.Stderr, "Warning: narrative generation failed: %v\n", err)
		} else if narrative != nil {
			summary.Narrative = narrative
		}
	}

	return summary, nil
}

// RenderSummary renders the summary to the configured outputs
func (p *Pipeline) RenderSummary(summary *model.Summary, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(summary, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(summary, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// The narrative gets its own file, clearly separated from the KPIs
	if summary.Narrative != nil && summary.Narrative.Enabled && mdPath != "" {
		narrativePath := mdPath[:len(mdPath)-len(filepath.Ext(mdPath))] + ".llm.md"
		md := llm.RenderSeparateMarkdown(summary.Narrative)
		if err := p.renderer.RenderText(md, narrativePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write narrative: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote narrative: %s\n", narrativePath)
		}
	}

	p.renderer.RenderConsole(summary)
	return nil
}
