// Package turn orchestrates a single conversation turn: retrieve context,
// prompt the model, parse its output, merge the summary, persist history, and
// emit a completion event. Turns on the same conversation are serialized so
// concurrent requests cannot clobber each other's summary updates.
package turn

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/eventstream"
	"github.com/loomworksco/recall/pkg/history"
	"github.com/loomworksco/recall/pkg/llm"
	"github.com/loomworksco/recall/pkg/retrieval"
	"github.com/loomworksco/recall/pkg/summary"
)

// FailureAnswer is returned when the model itself is unreachable or errors.
// The turn still completes; history records the exchange and the summary is
// left untouched.
const FailureAnswer = "Sorry, something went wrong. Please try again."

// Result is what a completed turn hands back to the caller.
type Result struct {
	// Answer is the cleaned model answer (or FailureAnswer).
	Answer string

	// Summary is the conversation summary after this turn.
	Summary string

	// SummaryVersion is the stored summary's version after this turn. It
	// is unchanged when the turn did not update the summary.
	SummaryVersion int64

	// Tier is the retrieval tier that grounded the answer.
	Tier retrieval.Tier
}

// Engine runs turns against its collaborators.
type Engine struct {
	retriever *retrieval.Coordinator
	completer llm.Completer
	merger    *summary.Merger
	summaries summary.Store
	histories history.Driver
	publisher eventstream.Publisher
	persona   llm.Persona
	locks     *conversationLocks
	logger    *zap.Logger
}

// EngineConfig holds the engine's collaborators.
type EngineConfig struct {
	Retriever *retrieval.Coordinator
	Completer llm.Completer
	Merger    *summary.Merger
	Summaries summary.Store
	History   history.Driver

	// Publisher receives a TurnCompletedEvent per turn. Nil disables
	// event publishing.
	Publisher eventstream.Publisher

	Persona llm.Persona
	Logger  *zap.Logger
}

// NewEngine creates a turn engine.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	merger := cfg.Merger
	if merger == nil {
		merger = summary.NewMerger(0, nil)
	}

	return &Engine{
		retriever: cfg.Retriever,
		completer: cfg.Completer,
		merger:    merger,
		summaries: cfg.Summaries,
		histories: cfg.History,
		publisher: cfg.Publisher,
		persona:   cfg.Persona,
		locks:     newConversationLocks(),
		logger:    logger,
	}
}

// HandleTurn runs one turn for the conversation. The per-conversation lock is
// held from the summary read through the summary write, so concurrent turns
// on the same conversation apply their merges in sequence.
func (e *Engine) HandleTurn(ctx context.Context, conversationID, query, source string) (Result, error) {
	unlock := e.locks.acquire(conversationID)
	defer unlock()

	current, err := e.summaries.Get(ctx, conversationID)
	if err != nil {
		return Result{}, err
	}

	contextText, tier := e.retriever.Retrieve(ctx, conversationID, query)

	prompt := llm.BuildTurnPrompt(e.persona, query, source, contextText, current.Text, e.merger.Budget())

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		// Model failure degrades to a fixed answer; the summary stays
		// as it was so a retry starts from clean state.
		e.logger.Error("completion failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)

		if histErr := e.histories.Append(ctx, conversationID, query, FailureAnswer); histErr != nil {
			e.logger.Error("appending history failed",
				zap.String("conversation_id", conversationID),
				zap.Error(histErr),
			)
		}

		return Result{
			Answer:         FailureAnswer,
			Summary:        current.Text,
			SummaryVersion: current.Version,
			Tier:           tier,
		}, nil
	}

	out, parsed := llm.ParseTurnOutput(raw)
	answer := llm.CleanAnswer(out.Answer)

	newSummary := current.Text
	newVersion := current.Version
	if parsed && out.Summary != "" {
		compactor := llm.NewSummaryCompactor(e.completer)
		merged := e.merger.MergeCompacted(ctx, current.Text, llm.CleanAnswer(out.Summary), compactor)
		if merged != current.Text {
			version, err := e.summaries.Set(ctx, conversationID, merged)
			if err != nil {
				return Result{}, err
			}
			newSummary = merged
			newVersion = version
		}
	} else if !parsed {
		e.logger.Warn("model output not parseable, keeping previous summary",
			zap.String("conversation_id", conversationID),
		)
	}

	if err := e.histories.Append(ctx, conversationID, query, answer); err != nil {
		return Result{}, err
	}

	e.publishTurn(ctx, conversationID, query, answer, newVersion, tier)

	return Result{
		Answer:         answer,
		Summary:        newSummary,
		SummaryVersion: newVersion,
		Tier:           tier,
	}, nil
}

// publishTurn emits the completion event. Publish failures are logged, never
// surfaced; the turn already committed.
func (e *Engine) publishTurn(ctx context.Context, conversationID, query, answer string, summaryVersion int64, tier retrieval.Tier) {
	if e.publisher == nil {
		return
	}

	event := &eventstream.TurnCompletedEvent{
		SchemaVersion:  eventstream.SchemaVersionV1,
		EventType:      eventstream.EventTypeTurnCompleted,
		EventID:        uuid.NewString(),
		EmittedAt:      time.Now().UTC(),
		ConversationID: conversationID,
		QuerySize:      len(query),
		AnswerSize:     len(answer),
		SummaryVersion: summaryVersion,
		RetrievalTier:  string(tier),
	}

	if err := e.publisher.PublishTurn(ctx, event); err != nil {
		e.logger.Warn("publishing turn event failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
}
