// Package api provides the HTTP API server for chatting with, searching, and
// feeding the recall system.
package api

import (
	"net/http"

	"github.com/loomworksco/recall/pkg/embeddings"
	"github.com/loomworksco/recall/pkg/ingest"
	"github.com/loomworksco/recall/pkg/turn"
	"github.com/loomworksco/recall/pkg/vector"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// Engine runs conversation turns for POST /v1/chat.
	Engine *turn.Engine

	// Pipeline ingests documents for POST /v1/ingest.
	Pipeline *ingest.Pipeline

	// Embedder embeds queries for GET /v1/search.
	Embedder embeddings.Embedder

	// VectorDriver answers GET /v1/search queries.
	VectorDriver vector.Driver

	// MCPHandler, when non-nil, is mounted at /mcp.
	MCPHandler http.Handler
}
