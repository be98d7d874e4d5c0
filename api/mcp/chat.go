package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/llm"
)

var (
	chatToolName    = "chat"
	chatDescription = "Run one conversation turn against the recall agent. The conversation's history and summary persist across calls with the same conversation_id."
)

// ChatInput represents the input arguments for the chat tool.
type ChatInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"identifier scoping the conversation's history and summary"`
	Query          string `json:"query" jsonschema:"the user message for this turn"`
}

// ChatOutput represents the output of the chat tool.
type ChatOutput struct {
	Answer         string `json:"answer"`
	Summary        string `json:"summary"`
	SummaryVersion int64  `json:"summary_version"`
	RetrievalTier  string `json:"retrieval_tier"`
}

// handleChat runs one turn through the engine.
func (s *Server) handleChat(ctx context.Context, req *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, ChatOutput, error) {
	logger := s.config.Logger

	if input.ConversationID == "" || input.Query == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "conversation_id and query are required"},
			},
		}, ChatOutput{}, nil
	}

	logger.Debug("MCP chat request",
		zap.String("conversation_id", input.ConversationID),
	)

	result, err := s.config.Engine.HandleTurn(ctx, input.ConversationID, input.Query, llm.SourceTextChat)
	if err != nil {
		logger.Error("failed to run turn", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to run turn: %v", err)},
			},
		}, ChatOutput{}, nil
	}

	output := ChatOutput{
		Answer:         result.Answer,
		Summary:        result.Summary,
		SummaryVersion: result.SummaryVersion,
		RetrievalTier:  string(result.Tier),
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal chat output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize result: %v", err)},
			},
		}, ChatOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
