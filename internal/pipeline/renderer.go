package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmehta/claimsight/internal/model"
)

// Renderer writes KPI summaries as JSON, Markdown, and console output
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the summary as indented JSON
func (r *Renderer) RenderJSON(summary *model.Summary, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// RenderMarkdown writes the summary as a Markdown report
func (r *Renderer) RenderMarkdown(summary *model.Summary, path string) error {
	var b strings.Builder

	b.WriteString("# Claims KPI Summary\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s (seed %d)\n\n", summary.RunID, summary.GeneratedAt.Format("2006-01-02 15:04 MST"), summary.Seed)

	b.WriteString("## KPIs\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total claims | %d |\n", summary.TotalClaims)
	fmt.Fprintf(&b, "| Approval rate | %.2f%% |\n", summary.ApprovalRate*100)
	fmt.Fprintf(&b, "| Fraud rate | %.2f%% |\n", summary.FraudRate*100)
	fmt.Fprintf(&b, "| Avg settlement days (approved) | %.1f |\n", summary.AvgSettlementDays)
	fmt.Fprintf(&b, "| Total claim amount | %.0f INR |\n", summary.TotalAmount)
	fmt.Fprintf(&b, "| Avg claim amount | %.0f INR |\n", summary.AvgClaimAmount)

	if summary.Cleaning != nil {
		s := summary.Cleaning
		b.WriteString("\n## Cleaning\n\n")
		fmt.Fprintf(&b, "%d rows in, %d kept (%d dropped for amount, %d for type, %d settlement values clamped)\n",
			s.Input, s.Kept, s.DroppedAmount, s.DroppedType, s.ClampedSettle)
	}

	writeGroupTable(&b, "By Claim Type", summary.ByType)
	writeGroupTable(&b, "By Region", summary.ByRegion)
	writeGroupTable(&b, "Monthly Trend", summary.ByMonth)

	return r.RenderText(b.String(), path)
}

// writeGroupTable appends one grouped aggregation as a Markdown table
func writeGroupTable(b *strings.Builder, title string, rows []model.GroupRow) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	b.WriteString("| Key | Count | Avg Amount | Approval | Fraud |\n|---|---|---|---|---|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %d | %.0f | %.2f%% | %.2f%% |\n",
			row.Key, row.Count, row.AvgAmount, row.ApprovalRate*100, row.FraudRate*100)
	}
}

// RenderText writes a text artifact, creating the parent directory
func (r *Renderer) RenderText(content, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderConsole prints a compact summary to stdout
func (r *Renderer) RenderConsole(summary *model.Summary) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Claims KPI Summary")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Total claims:        %d\n", summary.TotalClaims)
	fmt.Printf("  Approval rate:       %.2f%%\n", summary.ApprovalRate*100)
	fmt.Printf("  Fraud rate:          %.2f%%\n", summary.FraudRate*100)
	fmt.Printf("  Avg settlement days: %.1f\n", summary.AvgSettlementDays)
	fmt.Printf("  Avg claim amount:    %.0f INR\n", summary.AvgClaimAmount)
	fmt.Println()
	fmt.Println("  By claim type:")
	for _, row := range summary.ByType {
		fmt.Printf("    %-10s %4d claims, approval %.2f%%, fraud %.2f%%\n",
			row.Key, row.Count, row.ApprovalRate*100, row.FraudRate*100)
	}
	fmt.Println()
}
