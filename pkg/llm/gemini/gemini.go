// Package gemini implements pkg/llm's Completer client for the Google
// Generative Language generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/loomworksco/recall/pkg/llm"
)

const (
	// DefaultModel is the default generation model.
	DefaultModel = "gemini-2.0-flash"

	// DefaultBaseURL is the Generative Language API base URL.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Completer wraps the Gemini generateContent API.
type Completer struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// CompleterConfig holds configuration for the Gemini completer.
type CompleterConfig struct {
	// BaseURL overrides the API base URL (used in tests).
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the generation model to use (e.g., "gemini-2.0-flash").
	// Defaults to DefaultModel if empty.
	Model string

	// APIKey is the Google API key.
	APIKey string
}

// generateRequest is the request body for the generateContent API.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the response from the generateContent API.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// NewCompleter creates a new completer using the Gemini generateContent API.
func NewCompleter(cfg CompleterConfig) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Completer{
		baseURL: baseURL,
		model:   model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Complete sends the prompt and returns the first candidate's text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// Close releases resources held by the completer.
func (c *Completer) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

var _ llm.Completer = (*Completer)(nil)
