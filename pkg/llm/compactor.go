package llm

import (
	"context"
	"fmt"
	"strings"
)

// SummaryCompactor adapts a Completer into the summary package's Compactor:
// it asks the model to condense over-budget summary text.
type SummaryCompactor struct {
	completer Completer
}

// NewSummaryCompactor wraps the completer for summary compaction.
func NewSummaryCompactor(completer Completer) *SummaryCompactor {
	return &SummaryCompactor{completer: completer}
}

// Compact asks the model to condense text to at most budget characters. The
// caller is expected to validate the result length; markdown fences are
// stripped here since models add them despite instructions.
func (c *SummaryCompactor) Compact(ctx context.Context, text string, budget int) (string, error) {
	if c.completer == nil {
		return "", fmt.Errorf("no completer configured")
	}

	out, err := c.completer.Complete(ctx, BuildCompactionPrompt(text, budget))
	if err != nil {
		return "", fmt.Errorf("compacting summary: %w", err)
	}

	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out), nil
}
