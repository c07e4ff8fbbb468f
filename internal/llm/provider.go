package llm

import (
	"context"
	"fmt"

	"github.com/nmehta/claimsight/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Narrate generates a short analyst-style commentary on a KPI summary
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest contains the input for narrative generation
type NarrateRequest struct {
	// Summary is the computed KPI summary. The narrative may only restate
	// figures present here; it never feeds back into aggregation.
	Summary model.Summary

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// NarrateResponse contains the LLM's narrative output
type NarrateResponse struct {
	// Narrative is the generated commentary (Markdown)
	Narrative string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// BuildPrompt constructs the default narrative prompt. All figures come
// from the computed summary; the model is told not to invent numbers.
func BuildPrompt(summary model.Summary) string {
	prompt := fmt.Sprintf(`You are writing a short commentary for an insurance-claims KPI report generated from a synthetic dataset.

RULES:
1. Use ONLY the figures listed below. Do not invent, extrapolate, or recompute numbers.
2. The dataset is synthetic; do not describe it as real business performance.
3. Keep it to 3-5 sentences of plain Markdown, no headings.

Figures:
- Total claims: %d
- Approval rate: %.2f%%
- Fraud rate: %.2f%%
- Average settlement time (approved claims): %.1f days
- Average claim amount: %.0f INR

Claim volume by type:
`, summary.TotalClaims, summary.ApprovalRate*100, summary.FraudRate*100, summary.AvgSettlementDays, summary.AvgClaimAmount)

	for _, row := range summary.ByType {
		prompt += fmt.Sprintf("- %s: %d claims, approval %.2f%%, fraud %.2f%%\n",
			row.Key, row.Count, row.ApprovalRate*100, row.FraudRate*100)
	}

	prompt += "\nHighlight the most and least approved claim types and anything notable about fraud concentration."

	return prompt
}
