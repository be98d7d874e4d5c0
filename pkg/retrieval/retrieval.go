// Package retrieval assembles grounding context for a turn. It tries tiers in
// order: semantic search over the vector store, keyword search over the
// conversation's history, and finally a fixed sentinel that tells the model to
// ask the user to clarify. Infrastructure failures in the vector tier are
// absorbed and logged rather than surfaced, so a turn always gets context.
package retrieval

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/embeddings"
	"github.com/loomworksco/recall/pkg/history"
	"github.com/loomworksco/recall/pkg/vector"
)

// Tier identifies which source produced the context for a turn.
type Tier string

const (
	TierVector   Tier = "vector"
	TierHistory  Tier = "history"
	TierSentinel Tier = "sentinel"
)

// Sentinel is returned when neither the vector store nor the history yields
// anything relevant. The prompt instructions key off this exact text.
const Sentinel = "No relevant past context found. Please ask the user to clarify."

const (
	// DefaultTopK is how many vector matches are requested per query.
	DefaultTopK = 3

	// DefaultHistoryWindow caps how many matching history entries the
	// keyword fallback returns.
	DefaultHistoryWindow = 10
)

// Coordinator runs the tiered context lookup.
type Coordinator struct {
	embedder      embeddings.Embedder
	vectors       vector.Driver
	histories     history.Driver
	topK          int
	historyWindow int
	logger        *zap.Logger
}

// CoordinatorConfig holds the coordinator's collaborators and tuning knobs.
type CoordinatorConfig struct {
	Embedder embeddings.Embedder
	Vectors  vector.Driver
	History  history.Driver

	// TopK is the number of vector matches to request.
	// Defaults to DefaultTopK if zero.
	TopK int

	// HistoryWindow caps the keyword fallback's result count.
	// Defaults to DefaultHistoryWindow if zero.
	HistoryWindow int

	Logger *zap.Logger
}

// NewCoordinator creates a coordinator from its collaborators.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	window := cfg.HistoryWindow
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{
		embedder:      cfg.Embedder,
		vectors:       cfg.Vectors,
		histories:     cfg.History,
		topK:          topK,
		historyWindow: window,
		logger:        logger,
	}
}

// Retrieve returns the grounding context for the query plus the tier that
// produced it. Vector-tier failures (embedding or store) degrade to the
// history tier; an empty history match degrades to the sentinel.
func (c *Coordinator) Retrieve(ctx context.Context, conversationID, query string) (string, Tier) {
	if text := c.retrieveVector(ctx, query); text != "" {
		return text, TierVector
	}

	if text := c.retrieveHistory(ctx, conversationID, query); text != "" {
		return text, TierHistory
	}

	return Sentinel, TierSentinel
}

func (c *Coordinator) retrieveVector(ctx context.Context, query string) string {
	if c.embedder == nil || c.vectors == nil {
		return ""
	}

	embedding, err := c.embedder.Embed(ctx, query)
	if err != nil {
		c.logger.Warn("embedding query failed, falling back to history",
			zap.Error(err),
		)
		return ""
	}

	results, err := c.vectors.Query(ctx, embedding, c.topK)
	if err != nil {
		c.logger.Warn("vector query failed, falling back to history",
			zap.Error(err),
		)
		return ""
	}

	texts := make([]string, 0, len(results))
	for _, result := range results {
		if strings.TrimSpace(result.Text) == "" {
			continue
		}
		texts = append(texts, result.Text)
	}

	return strings.TrimSpace(strings.Join(texts, "\n"))
}

func (c *Coordinator) retrieveHistory(ctx context.Context, conversationID, query string) string {
	if c.histories == nil {
		return ""
	}

	entries, err := c.histories.Scan(ctx, conversationID)
	if err != nil {
		c.logger.Warn("history scan failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return ""
	}

	matched := history.SearchRecent(entries, query, c.historyWindow)
	return history.RenderEntries(matched)
}
