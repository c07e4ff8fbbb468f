package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmehta/claimsight/internal/model"
	"github.com/nmehta/claimsight/internal/pipeline"
	"github.com/nmehta/claimsight/internal/sink"
)

var (
	reportDB      string
	reportCSV     string
	reportExcel   string
	reportJSON    string
	reportMD      string
	reportTimeout time.Duration
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Recompute KPI summaries from an existing dataset",
	Long: `Report loads a previously persisted dataset (SQLite Claims table or a
clean CSV) and recomputes the KPI summary without regenerating records.

Example:
  claimsight report --db ./claimsight-out/insurance.db
  claimsight report --csv ./claimsight-out/clean_claims.csv --xlsx summary.xlsx
  claimsight report --db insurance.db --llm --md summary.md`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDB, "db", "", "SQLite database to read")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "clean claims CSV to read (alternative to --db)")
	reportCmd.Flags().StringVar(&reportExcel, "xlsx", "", "Excel summary output path (optional)")
	reportCmd.Flags().StringVar(&reportJSON, "json", "", "summary JSON path (optional)")
	reportCmd.Flags().StringVar(&reportMD, "md", "", "summary Markdown path (optional)")
	reportCmd.Flags().DurationVar(&reportTimeout, "timeout", time.Minute, "report timeout")

	reportCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	reportCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runReport(cmd *cobra.Command, args []string) error {
	if (reportDB == "") == (reportCSV == "") {
		return fmt.Errorf("exactly one of --db or --csv is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	claims, err := loadClaims(ctx)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d claims\n\n", len(claims))
	}

	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return err
		}
	}

	p := pipeline.NewPipeline(cfg)

	// Seed 0: the dataset's provenance is the stored table, not a fresh draw
	summary, err := p.Summarize(ctx, claims, 0)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if reportExcel != "" {
		if err := sink.WriteSummaryExcel(reportExcel, summary); err != nil {
			return fmt.Errorf("write excel: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Excel: %s\n", reportExcel)
		}
	}

	if err := p.RenderSummary(summary, reportJSON, reportMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// loadClaims reads the dataset from whichever source was given
func loadClaims(ctx context.Context) ([]model.Claim, error) {
	if reportCSV != "" {
		claims, err := sink.ReadClaimsCSV(reportCSV)
		if err != nil {
			return nil, fmt.Errorf("load csv: %w", err)
		}
		return claims, nil
	}

	store, err := sink.NewSQLiteStore(reportDB)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = store.Close() }()

	claims, err := store.LoadClaims(ctx)
	if err != nil {
		return nil, fmt.Errorf("load db: %w", err)
	}
	return claims, nil
}
