// Package mcp provides an MCP (Model Context Protocol) server for the recall
// system, exposing semantic search and chat as tools.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/embeddings"
	"github.com/loomworksco/recall/pkg/turn"
	"github.com/loomworksco/recall/pkg/utils"
	"github.com/loomworksco/recall/pkg/vector"
)

type Config struct {
	// VectorDriver for semantic search
	VectorDriver vector.Driver

	// Embedder for converting query text to vectors for semantic search with
	// configured VectorDriver
	Embedder embeddings.Embedder

	// Engine for the chat tool (optional, enables the chat tool)
	Engine *turn.Engine

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the search tool.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "recall",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.VectorDriver == nil {
		return nil, errors.New("vector driver is required")
	}
	if c.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	// Add tools
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	// Add the chat tool if a turn engine is configured
	if c.Engine != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        chatToolName,
			Description: chatDescription,
		}, s.handleChat)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
