package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/llm"
)

// ErrorResponse is the uniform error payload for every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatRequest is the body for POST /v1/chat.
type ChatRequest struct {
	// ConversationID scopes the turn's history and summary.
	ConversationID string `json:"conversation_id"`

	// Query is the user's message.
	Query string `json:"query"`

	// Source is "text_chat" or "voice_chat". Defaults to text_chat.
	Source string `json:"source,omitempty"`
}

// ChatResponse is the reply for POST /v1/chat.
type ChatResponse struct {
	Answer         string `json:"answer"`
	Summary        string `json:"summary"`
	SummaryVersion int64  `json:"summary_version"`
	RetrievalTier  string `json:"retrieval_tier"`
}

// IngestRequest is the body for POST /v1/ingest.
type IngestRequest struct {
	// SourceID identifies the document; chunk IDs derive from it.
	SourceID string `json:"source_id"`

	// Text is the raw document text.
	Text string `json:"text"`
}

// IngestResponse is the reply for POST /v1/ingest.
type IngestResponse struct {
	SourceID string `json:"source_id"`
	Chunks   int    `json:"chunks"`
	Stored   int    `json:"stored"`
	Skipped  int    `json:"skipped"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleChat runs one conversation turn.
func (s *Server) handleChat(c *fiber.Ctx) error {
	if s.config.Engine == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "chat is not configured: turn engine is required",
		})
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.ConversationID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "conversation_id is required"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query is required"})
	}

	source := req.Source
	if source == "" {
		source = llm.SourceTextChat
	}

	result, err := s.config.Engine.HandleTurn(c.Context(), req.ConversationID, req.Query, source)
	if err != nil {
		s.logger.Error("turn failed",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "turn failed"})
	}

	return c.JSON(ChatResponse{
		Answer:         result.Answer,
		Summary:        result.Summary,
		SummaryVersion: result.SummaryVersion,
		RetrievalTier:  string(result.Tier),
	})
}

// handleIngest chunks, embeds, and stores a document.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	if s.config.Pipeline == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "ingest is not configured: pipeline is required",
		})
	}

	var req IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.SourceID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "source_id is required"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "text is required"})
	}

	result, err := s.config.Pipeline.IngestDocument(c.Context(), req.SourceID, req.Text)
	if err != nil {
		s.logger.Error("ingest failed",
			zap.String("source_id", req.SourceID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "ingest failed"})
	}

	return c.JSON(IngestResponse{
		SourceID: result.SourceID,
		Chunks:   result.Chunks,
		Stored:   result.Stored,
		Skipped:  result.Skipped,
	})
}
