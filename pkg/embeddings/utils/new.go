// Package embeddingutils constructs embedders from configuration.
package embeddingutils

import (
	"fmt"

	"github.com/loomworksco/recall/pkg/embeddings"
	"github.com/loomworksco/recall/pkg/embeddings/gemini"
	"github.com/loomworksco/recall/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "gemini":
		return gemini.NewEmbedder(gemini.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  o.APIKey,
		})
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
