package config

import (
	"github.com/loomworksco/recall/pkg/chunk"
	"github.com/loomworksco/recall/pkg/retrieval"
	"github.com/loomworksco/recall/pkg/summary"
)

const (
	defaultAPIListen       = ":8080"
	defaultClientAPITarget = "http://localhost:8080"

	defaultVectorProvider   = "sqlite"
	defaultVectorIndex      = "recall"
	defaultVectorDimensions = 768

	defaultEmbeddingProvider = "gemini"
	defaultEmbeddingModel    = "embedding-001"

	defaultLLMProvider = "gemini"
	defaultLLMModel    = "gemini-2.0-flash"

	defaultPersonaName        = "recall"
	defaultPersonaRole        = "AI Assistant"
	defaultPersonaDescription = "A helpful assistant that answers strictly from the provided context."

	defaultEventstreamProvider = "nop"
	defaultEventstreamTopic    = "recall.turns"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Index:      defaultVectorIndex,
			Dimensions: defaultVectorDimensions,
		},
		Embedding: EmbeddingConfig{
			Provider: defaultEmbeddingProvider,
			Model:    defaultEmbeddingModel,
		},
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Model:    defaultLLMModel,
			Persona: PersonaConfig{
				Name:        defaultPersonaName,
				Role:        defaultPersonaRole,
				Description: defaultPersonaDescription,
			},
		},
		Chunker: ChunkerConfig{
			Size:    chunk.DefaultSize,
			Overlap: chunk.DefaultOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK:          retrieval.DefaultTopK,
			HistoryWindow: retrieval.DefaultHistoryWindow,
		},
		Summary: SummaryConfig{
			CharBudget: summary.DefaultBudget,
		},
		Eventstream: EventstreamConfig{
			Provider: defaultEventstreamProvider,
			Topic:    defaultEventstreamTopic,
		},
	}
}
