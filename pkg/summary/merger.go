package summary

import (
	"context"
	"strings"
	"unicode"
)

const (
	// DefaultBudget is the hard character budget for a conversation summary.
	DefaultBudget = 512

	// truncateMargin is how far below the budget the hard-truncation cut
	// point sits, leaving room for the truncation marker and a clean word
	// boundary.
	truncateMargin = 12

	// TruncationMarker terminates a summary that was cut to fit the budget.
	TruncationMarker = "…"
)

// DefaultSkipPhrases are greeting and acknowledgement phrases that carry no
// information worth summarizing.
func DefaultSkipPhrases() []string {
	return []string{"hi", "hello", "how are you", "what's up", "okay", "thanks"}
}

// Compactor re-summarizes text that no longer fits the budget. Implementations
// typically delegate to the LLM; the merger validates the result and falls
// back to hard truncation, so a Compactor never has to be budget-exact.
type Compactor interface {
	Compact(ctx context.Context, text string, budget int) (string, error)
}

// Merger combines new turn material into an existing summary under a hard
// character budget. Merge is pure over its two inputs plus the configured
// skip set; the merger holds no conversation state.
type Merger struct {
	budget     int
	skipTokens map[string]struct{}
}

// NewMerger creates a merger with the given budget and skip phrases.
// Zero budget selects DefaultBudget; nil phrases select DefaultSkipPhrases.
func NewMerger(budget int, skipPhrases []string) *Merger {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if skipPhrases == nil {
		skipPhrases = DefaultSkipPhrases()
	}

	// Phrases are matched token-wise: "how are you" contributes "how",
	// "are", and "you", so any material made up entirely of such tokens is
	// treated as chit-chat.
	skipTokens := make(map[string]struct{})
	for _, phrase := range skipPhrases {
		for _, token := range strings.Fields(strings.ToLower(phrase)) {
			skipTokens[token] = struct{}{}
		}
	}

	return &Merger{
		budget:     budget,
		skipTokens: skipTokens,
	}
}

// Budget returns the configured character budget.
func (m *Merger) Budget() int {
	return m.budget
}

// Merge returns the updated summary. Chit-chat material and material already
// present in the summary leave it unchanged; anything else is appended and
// the result is truncated to the budget at a word boundary if necessary.
// The invariant len([]rune(result)) <= budget holds for every return path.
func (m *Merger) Merge(existing, material string) string {
	material = strings.TrimSpace(material)
	if material == "" {
		return existing
	}

	if m.isChitChat(material) {
		return existing
	}

	// Idempotence under repeated identical input.
	if strings.Contains(existing, material) {
		return existing
	}

	combined := material
	if strings.TrimSpace(existing) != "" {
		combined = strings.TrimSpace(existing) + " " + material
	}

	return m.truncate(combined)
}

// MergeCompacted behaves like Merge but, when the combined text exceeds the
// budget, first asks the compactor for a higher-fidelity re-summarization.
// A failing or over-budget compaction falls back to hard truncation, so the
// budget invariant holds regardless of the compactor's behavior.
func (m *Merger) MergeCompacted(ctx context.Context, existing, material string, compactor Compactor) string {
	material = strings.TrimSpace(material)
	if material == "" || m.isChitChat(material) || strings.Contains(existing, material) {
		return m.Merge(existing, material)
	}

	combined := material
	if strings.TrimSpace(existing) != "" {
		combined = strings.TrimSpace(existing) + " " + material
	}

	if len([]rune(combined)) <= m.budget {
		return combined
	}

	if compactor != nil {
		compacted, err := compactor.Compact(ctx, combined, m.budget)
		if err == nil {
			compacted = strings.TrimSpace(compacted)
			if compacted != "" && len([]rune(compacted)) <= m.budget {
				return compacted
			}
		}
	}

	return m.truncate(combined)
}

// isChitChat reports whether every token of the material appears in the skip
// set. Punctuation is stripped so "Hi!" and "thanks." still count.
func (m *Merger) isChitChat(material string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(material), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	if len(tokens) == 0 {
		return false
	}

	for _, token := range tokens {
		if _, ok := m.skipTokens[token]; !ok {
			return false
		}
	}

	return true
}

// truncate enforces the budget: text longer than the budget is cut at the
// last whitespace at or before budget-truncateMargin and terminated with the
// truncation marker.
func (m *Merger) truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= m.budget {
		return text
	}

	cut := m.budget - truncateMargin
	if cut < 1 {
		cut = m.budget - 1
	}

	head := runes[:cut]
	if idx := lastSpace(head); idx > 0 {
		head = head[:idx]
	}

	return strings.TrimRightFunc(string(head), unicode.IsSpace) + TruncationMarker
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
