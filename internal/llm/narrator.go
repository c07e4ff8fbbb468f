package llm

import (
	"context"
	"fmt"

	"github.com/nmehta/claimsight/internal/model"
)

// Narrator wraps a provider and produces the optional narrative section of
// a summary. It runs after aggregation and never modifies the KPIs.
type Narrator struct {
	provider Provider
	config   model.LLMConfig
}

// NewNarrator creates a narrator for the configured provider.
// An empty provider name yields a disabled narrator (nil, nil).
func NewNarrator(config model.LLMConfig) (*Narrator, error) {
	switch config.Provider {
	case "":
		return nil, nil
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, fmt.Errorf("create openai provider: %w", err)
		}
		return &Narrator{provider: p, config: config}, nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", model.ErrInvalidConfig, config.Provider)
	}
}

// IsEnabled reports whether narrative generation is active
func (n *Narrator) IsEnabled() bool {
	return n != nil && n.provider != nil
}

// GenerateNarrative produces the narrative for a computed summary
func (n *Narrator) GenerateNarrative(ctx context.Context, summary model.Summary) (*model.Narrative, error) {
	if !n.IsEnabled() {
		return nil, nil
	}

	resp, err := n.provider.Narrate(ctx, NarrateRequest{
		Summary:   summary,
		Model:     n.config.Model,
		MaxTokens: n.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("narrate: %w", err)
	}

	narrative := &model.Narrative{
		Enabled:  true,
		Provider: n.provider.Name(),
		Model:    resp.Model,
		TextMD:   resp.Narrative,
	}
	if resp.Narrative == "" {
		narrative.Warnings = append(narrative.Warnings, "provider returned an empty narrative")
	}

	return narrative, nil
}

// RenderSeparateMarkdown renders the narrative as its own Markdown
// document, clearly labeled as model-generated
func RenderSeparateMarkdown(n *model.Narrative) string {
	if n == nil || !n.Enabled {
		return ""
	}

	md := "# KPI Narrative (LLM-generated)\n\n"
	md += fmt.Sprintf("_Generated by %s/%s. Commentary only; all figures come from the computed summary._\n\n", n.Provider, n.Model)
	md += n.TextMD + "\n"

	if len(n.Warnings) > 0 {
		md += "\n## Warnings\n\n"
		for _, w := range n.Warnings {
			md += fmt.Sprintf("- %s\n", w)
		}
	}

	return md
}
