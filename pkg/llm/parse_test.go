package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/llm"
)

var _ = Describe("ParseTurnOutput", func() {
	It("parses a bare JSON object", func() {
		out, ok := llm.ParseTurnOutput(`{"response": "The PX-9 ships in March.", "updatedSummary": "User asked about PX-9 availability."}`)
		Expect(ok).To(BeTrue())
		Expect(out.Answer).To(Equal("The PX-9 ships in March."))
		Expect(out.Summary).To(Equal("User asked about PX-9 availability."))
	})

	It("strips a ```json fence before parsing", func() {
		raw := "```json\n{\"response\": \"Yes.\", \"updatedSummary\": \"Confirmed the order.\"}\n```"
		out, ok := llm.ParseTurnOutput(raw)
		Expect(ok).To(BeTrue())
		Expect(out.Answer).To(Equal("Yes."))
		Expect(out.Summary).To(Equal("Confirmed the order."))
	})

	It("falls back to the Updated Summary heading format", func() {
		raw := "Response: The sensor supports I2C.\nUpdated Summary: User asked about sensor interfaces."
		out, ok := llm.ParseTurnOutput(raw)
		Expect(ok).To(BeTrue())
		Expect(out.Answer).To(Equal("The sensor supports I2C."))
		Expect(out.Summary).To(Equal("User asked about sensor interfaces."))
	})

	It("handles the heading format without a Response prefix", func() {
		raw := "It supports I2C.\nUpdated Summary: interface question answered"
		out, ok := llm.ParseTurnOutput(raw)
		Expect(ok).To(BeTrue())
		Expect(out.Answer).To(Equal("It supports I2C."))
		Expect(out.Summary).To(Equal("interface question answered"))
	})

	It("returns the raw text with ok=false when nothing matches", func() {
		out, ok := llm.ParseTurnOutput("Just a plain answer with no structure.")
		Expect(ok).To(BeFalse())
		Expect(out.Answer).To(Equal("Just a plain answer with no structure."))
		Expect(out.Summary).To(BeEmpty())
	})

	It("rejects JSON missing the response key", func() {
		out, ok := llm.ParseTurnOutput(`{"updatedSummary": "orphan summary"}`)
		Expect(ok).To(BeFalse())
		Expect(out.Answer).To(Equal(`{"updatedSummary": "orphan summary"}`))
	})

	It("rejects empty input", func() {
		out, ok := llm.ParseTurnOutput("   ")
		Expect(ok).To(BeFalse())
		Expect(out.Answer).To(BeEmpty())
	})
})

var _ = Describe("CleanAnswer", func() {
	It("strips markdown emphasis markers", func() {
		Expect(llm.CleanAnswer("**Bold** and *italic* text")).To(Equal("Bold and italic text"))
	})

	It("trims surrounding whitespace", func() {
		Expect(llm.CleanAnswer("  hello  ")).To(Equal("hello"))
	})
})

var _ = Describe("BuildTurnPrompt", func() {
	persona := llm.Persona{
		Name:        "ktm",
		Role:        "AI Assistant",
		Description: "A helpful and strict assistant.",
	}

	It("embeds the query, source, context, and summary", func() {
		prompt := llm.BuildTurnPrompt(persona, "What is the PX-9?", llm.SourceTextChat, "PX-9 is a pressure sensor.", "Prior summary.", 512)
		Expect(prompt).To(ContainSubstring("You are ktm, a AI Assistant."))
		Expect(prompt).To(ContainSubstring("User query: What is the PX-9?"))
		Expect(prompt).To(ContainSubstring("Query source: text_chat"))
		Expect(prompt).To(ContainSubstring("Context: PX-9 is a pressure sensor."))
		Expect(prompt).To(ContainSubstring("Chat summary so far: Prior summary."))
		Expect(prompt).To(ContainSubstring("512 characters"))
	})

	It("presents an empty summary as None yet", func() {
		prompt := llm.BuildTurnPrompt(persona, "hi", llm.SourceTextChat, "ctx", "   ", 512)
		Expect(prompt).To(ContainSubstring("Chat summary so far: None yet"))
	})

	It("normalizes unknown sources to text_chat", func() {
		prompt := llm.BuildTurnPrompt(persona, "q", "carrier_pigeon", "ctx", "s", 512)
		Expect(prompt).To(ContainSubstring("Query source: text_chat"))
	})

	It("passes voice_chat through", func() {
		prompt := llm.BuildTurnPrompt(persona, "q", llm.SourceVoiceChat, "ctx", "s", 512)
		Expect(prompt).To(ContainSubstring("Query source: voice_chat"))
	})
})
