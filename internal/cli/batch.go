package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmehta/claimsight/internal/model"
	"github.com/nmehta/claimsight/internal/pipeline"
	"github.com/nmehta/claimsight/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run multiple generation profiles from a file in parallel",
	Long: `Batch runs the full pipeline once per generation profile:
- Read profile paths from the input file (one per line, # for comments)
- Run profiles in parallel with a configurable worker count
- Each profile gets its own artifact directory under --output-dir

Example:
  claimsight batch profiles.txt
  claimsight batch profiles.txt --concurrency 8 --output-dir ./scenarios
  claimsight batch profiles.txt --llm`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimsight-scenarios", "output directory for scenario artifacts")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Claimsight Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var llmCfg *model.LLMConfig
	if llmEnabled {
		cfg := model.DefaultConfig()
		if err := configureLLM(cfg); err != nil {
			return err
		}
		llmCfg = &cfg.LLM
		fmt.Fprintf(os.Stderr, "  LLM:          openai/%s\n\n", llmModel)
	}

	runner := &profileRunner{outputRoot: outputDir, llm: llmCfg}
	processor := worker.NewBatchProcessor(runner, concurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.ProfilePath, result.Error)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d claims, approval %.2f%%)\n",
			result.ProfilePath, result.Summary.TotalClaims, result.Summary.ApprovalRate*100)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d profiles\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d profiles failed", failureCount, len(results))
	}
	return nil
}

// profileRunner runs one profile into its own scenario directory
type profileRunner struct {
	outputRoot string
	llm        *model.LLMConfig
}

// RunProfile loads a profile, points its output at a scenario directory
// named after the profile file, and runs the full pipeline
func (r *profileRunner) RunProfile(ctx context.Context, profilePath string) (*model.Summary, error) {
	cfg, err := model.LoadProfile(profilePath)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(profilePath), filepath.Ext(profilePath))
	cfg.Output.Dir = filepath.Join(r.outputRoot, name)
	if r.llm != nil {
		cfg.LLM = *r.llm
	}

	p := pipeline.NewPipeline(cfg)
	result, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}

	// Persist the per-scenario summary alongside its dataset
	renderer := pipeline.NewRenderer()
	if err := renderer.RenderJSON(result.Summary, filepath.Join(cfg.Output.Dir, "summary.json")); err != nil {
		return nil, err
	}
	if err := renderer.RenderMarkdown(result.Summary, filepath.Join(cfg.Output.Dir, "summary.md")); err != nil {
		return nil, err
	}

	return result.Summary, nil
}
