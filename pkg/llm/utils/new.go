// Package llmutils constructs completers from configuration.
package llmutils

import (
	"fmt"

	"github.com/loomworksco/recall/pkg/llm"
	"github.com/loomworksco/recall/pkg/llm/gemini"
)

type NewCompleterOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewCompleter(o *NewCompleterOpts) (llm.Completer, error) {
	switch o.ProviderType {
	case "gemini":
		return gemini.NewCompleter(gemini.CompleterConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  o.APIKey,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.ProviderType)
	}
}
