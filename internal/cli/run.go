package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmehta/claimsight/internal/model"
	"github.com/nmehta/claimsight/internal/pipeline"
)

var (
	records     int
	seed        int64
	profilePath string
	outDir      string
	outJSON     string
	outMD       string
	noExcel     bool
	runTimeout  time.Duration
	llmEnabled  bool
	llmModel    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, clean, persist, and summarize a synthetic claims dataset",
	Long: `Run executes the full pipeline:
- Generate N synthetic claim records from a seeded random source
- Clean and normalize them (drop bad amounts, clamp settlement days, derive YearMonth)
- Persist raw and clean CSVs plus a SQLite Claims table
- Compute KPI aggregates and write an Excel summary workbook

Example:
  claimsight run
  claimsight run --records 600 --seed 42 --out ./claimsight-out
  claimsight run --profile motor-heavy.yaml --json summary.json --md summary.md
  claimsight run --llm --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Generation flags
	runCmd.Flags().IntVar(&records, "records", 600, "number of records to generate")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "PRNG seed (0 = non-reproducible)")
	runCmd.Flags().StringVar(&profilePath, "profile", "", "generation profile YAML (overrides defaults)")

	// Output flags
	runCmd.Flags().StringVar(&outDir, "out", "./claimsight-out", "output directory for dataset artifacts")
	runCmd.Flags().StringVar(&outJSON, "json", "", "summary JSON path (optional)")
	runCmd.Flags().StringVar(&outMD, "md", "", "summary Markdown path (optional)")
	runCmd.Flags().BoolVar(&noExcel, "no-excel", false, "skip the Excel summary workbook")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall run timeout")

	// LLM flags
	runCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Records: %d\n", cfg.Generator.Records)
		fmt.Fprintf(os.Stderr, "Seed: %d\n", cfg.Generator.Seed)
		fmt.Fprintf(os.Stderr, "Output: %s\n", cfg.Output.Dir)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Generating %d records...\n", cfg.Generator.Records)
	}

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Generated %d records\n", len(result.Raw))
		fmt.Fprintf(os.Stderr, "✓ Kept %d after cleaning\n", len(result.Clean))
		fmt.Fprintf(os.Stderr, "✓ Wrote %s, %s, %s\n",
			filepath.Join(cfg.Output.Dir, pipeline.RawCSVName),
			filepath.Join(cfg.Output.Dir, pipeline.CleanCSVName),
			filepath.Join(cfg.Output.Dir, pipeline.DBName))
		if cfg.Output.Excel {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", filepath.Join(cfg.Output.Dir, pipeline.ExcelName))
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderSummary(result.Summary, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildRunConfig assembles the run configuration from profile and flags.
// Flags override the profile, which overrides defaults.
func buildRunConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if profilePath != "" {
		loaded, err := model.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("records") {
		cfg.Generator.Records = records
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generator.Seed = seed
	}
	cfg.Output.Dir = outDir
	cfg.Output.Excel = !noExcel
	cfg.Output.Verbose = verbose

	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Generator.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configureLLM enables the narrative provider from flags and environment
func configureLLM(cfg *model.Config) error {
	cfg.LLM.Provider = "openai"
	cfg.LLM.Model = llmModel
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return nil
}
