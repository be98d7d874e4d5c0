// Package llm defines the text-completion driver used for answering turns and
// compacting summaries, plus the prompt templates and output parsing shared by
// every backend.
package llm

import "context"

// Completer is the minimal interface a text-generation backend must implement.
type Completer interface {
	// Complete sends a prompt and returns the model's text output.
	Complete(ctx context.Context, prompt string) (string, error)

	// Close releases resources held by the completer.
	Close() error
}
