package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nmehta/claimsight/internal/model"
)

// Runner defines the interface for running one generation profile
type Runner interface {
	RunProfile(ctx context.Context, profilePath string) (*model.Summary, error)
}

// ProfileJob runs the pipeline for one profile file
type ProfileJob struct {
	ProfilePath string
	Runner      Runner
}

// Execute executes the profile job
func (j *ProfileJob) Execute(ctx context.Context) Result {
	summary, err := j.Runner.RunProfile(ctx, j.ProfilePath)
	return &ProfileResult{
		ProfilePath: j.ProfilePath,
		Summary:     summary,
		Error:       err,
	}
}

// ProfileResult represents the result of one profile run
type ProfileResult struct {
	ProfilePath string
	Summary     *model.Summary
	Error       error
}

// GetError returns the error from the profile run
func (r *ProfileResult) GetError() error {
	return r.Error
}

// BatchProcessor runs multiple generation profiles concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessProfiles runs the given profiles concurrently
func (b *BatchProcessor) ProcessProfiles(ctx context.Context, paths []string) []*ProfileResult {
	if len(paths) == 0 {
		return []*ProfileResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ProfileJob{
			ProfilePath: path,
			Runner:      b.runner,
		})
	}

	results := pool.Wait()

	profileResults := make([]*ProfileResult, len(results))
	for i, result := range results {
		profileResults[i] = result.(*ProfileResult)
	}

	return profileResults
}

// ProcessFile reads profile paths from a file and runs them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ProfileResult, error) {
	paths, err := ReadProfilesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	return b.ProcessProfiles(ctx, paths), nil
}

// ReadProfilesFromFile reads profile paths from a file (one per line),
// skipping blank lines, comments, and duplicates
func ReadProfilesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
