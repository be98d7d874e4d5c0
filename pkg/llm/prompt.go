package llm

import (
	"fmt"
	"strings"
)

// Query sources accepted by BuildTurnPrompt. Voice queries ask the model for
// shorter, more conversational answers.
const (
	SourceTextChat  = "text_chat"
	SourceVoiceChat = "voice_chat"
)

// Persona describes the assistant identity injected into every turn prompt.
type Persona struct {
	Name        string
	Role        string
	Description string
}

// emptySummaryPlaceholder is what the prompt shows when no summary exists yet,
// and what instruction 1 keys off to trigger the introduction.
const emptySummaryPlaceholder = "None yet"

const turnPromptTemplate = `You are %s, a %s. You are designed to respond to user questions with helpful and accurate answers strictly based on the provided context. Your character: %s.

User query: %s
Query source: %s
Context: %s
Chat summary so far: %s

Instructions:
1. If this is the first interaction (summary is "None yet"), briefly introduce yourself as %s and then answer the query.
2. Always return your output as a valid JSON object with two keys:
   - 'response': the answer to the query.
   - 'updatedSummary': a crisp, meaningful summary of the conversation so far.
3. Your response must be short, clear, and strictly based on the provided context. Do NOT use external knowledge for domain-specific queries.
4. Use general knowledge only for greetings, small talk, or closings, and do NOT include that in summaries.
5. If the query source is 'voice_chat', make your response conversational and natural, unless more detail is requested.
6. Re-summarize on every conversation:
   - Append only new, unique, and meaningful information.
   - Skip greetings, repeated queries, and casual chit-chat.
   - Rephrase or condense the summary if it exceeds %d characters.
   - The final summary must always be concise, cumulative, and within the character limit.
7. If the answer isn't found in the context, respond with: "I don't have relevant information on that topic based on the current context."

Now, based only on the context provided, answer the following query: %s`

// BuildTurnPrompt renders the per-turn prompt from the persona, the user
// query, the retrieved context, and the running summary. An empty summary is
// presented as "None yet" so the model introduces itself on first contact.
func BuildTurnPrompt(persona Persona, query, source, context, summary string, summaryBudget int) string {
	if strings.TrimSpace(summary) == "" {
		summary = emptySummaryPlaceholder
	}
	if source != SourceVoiceChat {
		source = SourceTextChat
	}

	return fmt.Sprintf(turnPromptTemplate,
		persona.Name, persona.Role, persona.Description,
		query, source, context, summary,
		persona.Name, summaryBudget, query,
	)
}

const compactionPromptTemplate = `Condense the following conversation summary to at most %d characters. Keep every distinct fact, drop greetings and filler, and return ONLY the condensed summary text with no preamble or markdown.

Summary:
%s`

// BuildCompactionPrompt renders the prompt used to re-summarize an over-budget
// summary.
func BuildCompactionPrompt(text string, budget int) string {
	return fmt.Sprintf(compactionPromptTemplate, budget, text)
}
