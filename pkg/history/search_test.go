package history_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/history"
)

func entry(seq int64, query, response string) history.Entry {
	return history.Entry{
		ConversationID: "conv-1",
		Query:          query,
		Response:       response,
		Seq:            seq,
	}
}

var _ = Describe("SearchRecent", func() {
	var entries []history.Entry

	BeforeEach(func() {
		entries = []history.Entry{
			entry(0, "what products do you sell", "We sell industrial sensors."),
			entry(1, "how much does shipping cost", "Shipping is free over $100."),
			entry(2, "tell me about the pressure sensor", "The PX-9 measures up to 700 bar."),
			entry(3, "thanks", "You're welcome!"),
		}
	})

	It("matches entries by query tokens", func() {
		matched := history.SearchRecent(entries, "sensor pricing", 10)
		Expect(matched).To(HaveLen(2))
		Expect(matched[0].Seq).To(Equal(int64(0)))
		Expect(matched[1].Seq).To(Equal(int64(2)))
	})

	It("matches against responses as well as queries", func() {
		matched := history.SearchRecent(entries, "shipping", 10)
		Expect(matched).To(HaveLen(1))
		Expect(matched[0].Seq).To(Equal(int64(1)))
	})

	It("is case-insensitive", func() {
		matched := history.SearchRecent(entries, "SENSOR", 10)
		Expect(matched).To(HaveLen(2))
	})

	It("keeps only the most recent n matches", func() {
		matched := history.SearchRecent(entries, "sensor", 1)
		Expect(matched).To(HaveLen(1))
		Expect(matched[0].Seq).To(Equal(int64(2)))
	})

	It("returns nothing when no token matches", func() {
		Expect(history.SearchRecent(entries, "quantum entanglement", 10)).To(BeEmpty())
	})

	It("returns nothing for an empty query", func() {
		Expect(history.SearchRecent(entries, "   ", 10)).To(BeEmpty())
	})
})

var _ = Describe("RenderEntries", func() {
	It("formats exchanges as User/Bot blocks", func() {
		rendered := history.RenderEntries([]history.Entry{
			entry(0, "hello", "hi there"),
			entry(1, "what is recall", "a memory pipeline"),
		})
		Expect(rendered).To(Equal("User: hello\nBot: hi there\nUser: what is recall\nBot: a memory pipeline"))
	})

	It("returns an empty string for no entries", func() {
		Expect(history.RenderEntries(nil)).To(Equal(""))
	})
})
