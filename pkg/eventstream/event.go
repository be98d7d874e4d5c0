package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnCompleted is emitted after a conversation turn finishes
	// and its history and summary writes have landed.
	EventTypeTurnCompleted = "recall.turn.completed"
)

// TurnCompletedEvent is a transport-neutral event payload for a completed
// turn. Sizes are character counts; the query and answer text themselves stay
// out of the stream.
type TurnCompletedEvent struct {
	SchemaVersion  int       `json:"schema_version"`
	EventType      string    `json:"event_type"`
	EventID        string    `json:"event_id"`
	EmittedAt      time.Time `json:"emitted_at"`
	ConversationID string    `json:"conversation_id"`
	QuerySize      int       `json:"query_size"`
	AnswerSize     int       `json:"answer_size"`
	SummaryVersion int64     `json:"summary_version"`
	RetrievalTier  string    `json:"retrieval_tier"`
}
