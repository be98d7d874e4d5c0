package llm

import (
	"encoding/json"
	"strings"
)

// TurnOutput is what a well-formed model reply carries: the answer to show
// the user and the model's re-summarization of the conversation.
type TurnOutput struct {
	Answer  string
	Summary string
}

type turnJSON struct {
	Response       string `json:"response"`
	UpdatedSummary string `json:"updatedSummary"`
}

// ParseTurnOutput extracts the answer and updated summary from raw model
// output. Two formats are recognized, tried in order:
//
//  1. A JSON object with "response" and "updatedSummary" keys, optionally
//     wrapped in a ```json fence.
//  2. Plain text split on an "Updated Summary:" heading, with an optional
//     "Response:" prefix on the answer half.
//
// When neither format matches, the raw text becomes the answer, Summary is
// empty, and ok is false so the caller keeps its previous summary.
func ParseTurnOutput(raw string) (out TurnOutput, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TurnOutput{}, false
	}

	if parsed, ok := parseJSONOutput(raw); ok {
		return parsed, true
	}

	if parsed, ok := parseHeadingOutput(raw); ok {
		return parsed, true
	}

	return TurnOutput{Answer: raw}, false
}

func parseJSONOutput(raw string) (TurnOutput, bool) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var body turnJSON
	if err := json.Unmarshal([]byte(cleaned), &body); err != nil {
		return TurnOutput{}, false
	}

	answer := strings.TrimSpace(body.Response)
	if answer == "" {
		return TurnOutput{}, false
	}

	return TurnOutput{
		Answer:  answer,
		Summary: strings.TrimSpace(body.UpdatedSummary),
	}, true
}

func parseHeadingOutput(raw string) (TurnOutput, bool) {
	parts := strings.SplitN(raw, "Updated Summary:", 2)
	if len(parts) != 2 {
		return TurnOutput{}, false
	}

	answer := strings.TrimSpace(strings.Replace(parts[0], "Response:", "", 1))
	if answer == "" {
		return TurnOutput{}, false
	}

	return TurnOutput{
		Answer:  answer,
		Summary: strings.TrimSpace(parts[1]),
	}, true
}

// CleanAnswer strips markdown emphasis markers the model tends to emit so
// answers render cleanly on plain-text surfaces.
func CleanAnswer(answer string) string {
	return strings.TrimSpace(strings.ReplaceAll(answer, "*", ""))
}
