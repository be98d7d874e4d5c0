package retrieval_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/history/inmemory"
	"github.com/loomworksco/recall/pkg/retrieval"
	testutils "github.com/loomworksco/recall/pkg/utils/test"
	"github.com/loomworksco/recall/pkg/vector"
)

var _ = Describe("Coordinator", func() {
	var (
		embedder  *testutils.MockEmbedder
		vectors   *testutils.MockVectorDriver
		histories *inmemory.Driver
		coord     *retrieval.Coordinator
		ctx       context.Context
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		vectors = testutils.NewMockVectorDriver()
		histories = inmemory.NewDriver()
		coord = retrieval.NewCoordinator(retrieval.CoordinatorConfig{
			Embedder: embedder,
			Vectors:  vectors,
			History:  histories,
		})
		ctx = context.Background()
	})

	It("returns newline-joined vector matches when the store has results", func() {
		vectors.Results = []vector.QueryResult{
			{Document: vector.Document{ID: "a", Text: "PX-9 is a pressure sensor."}, Score: 0.9},
			{Document: vector.Document{ID: "b", Text: "It ships in March."}, Score: 0.8},
		}

		text, tier := coord.Retrieve(ctx, "conv", "tell me about the PX-9")
		Expect(tier).To(Equal(retrieval.TierVector))
		Expect(text).To(Equal("PX-9 is a pressure sensor.\nIt ships in March."))
	})

	It("falls back to history keyword search when the vector store is empty", func() {
		Expect(histories.Append(ctx, "conv", "what is the PX-9 price?", "It costs $40.")).To(Succeed())

		text, tier := coord.Retrieve(ctx, "conv", "PX-9 price")
		Expect(tier).To(Equal(retrieval.TierHistory))
		Expect(text).To(Equal("User: what is the PX-9 price?\nBot: It costs $40."))
	})

	It("falls back to history when embedding fails", func() {
		embedder.FailAll = true
		Expect(histories.Append(ctx, "conv", "what is the PX-9 price?", "It costs $40.")).To(Succeed())

		text, tier := coord.Retrieve(ctx, "conv", "PX-9 price")
		Expect(tier).To(Equal(retrieval.TierHistory))
		Expect(text).To(ContainSubstring("It costs $40."))
	})

	It("falls back to history when the vector query fails", func() {
		vectors.FailQuery = true
		Expect(histories.Append(ctx, "conv", "what is the PX-9 price?", "It costs $40.")).To(Succeed())

		_, tier := coord.Retrieve(ctx, "conv", "PX-9 price")
		Expect(tier).To(Equal(retrieval.TierHistory))
	})

	It("returns the sentinel when every tier is empty", func() {
		text, tier := coord.Retrieve(ctx, "conv", "completely novel topic")
		Expect(tier).To(Equal(retrieval.TierSentinel))
		Expect(text).To(Equal(retrieval.Sentinel))
	})

	It("does not leak other conversations into the history fallback", func() {
		Expect(histories.Append(ctx, "other", "PX-9 question", "PX-9 answer")).To(Succeed())

		text, tier := coord.Retrieve(ctx, "conv", "PX-9")
		Expect(tier).To(Equal(retrieval.TierSentinel))
		Expect(text).To(Equal(retrieval.Sentinel))
	})

	It("skips blank vector matches instead of returning empty context", func() {
		vectors.Results = []vector.QueryResult{
			{Document: vector.Document{ID: "a", Text: "   "}, Score: 0.9},
		}

		_, tier := coord.Retrieve(ctx, "conv", "anything")
		Expect(tier).To(Equal(retrieval.TierSentinel))
	})

	It("caps the history fallback at the configured window", func() {
		small := retrieval.NewCoordinator(retrieval.CoordinatorConfig{
			Embedder:      embedder,
			Vectors:       vectors,
			History:       histories,
			HistoryWindow: 2,
		})
		for i := 0; i < 5; i++ {
			Expect(histories.Append(ctx, "conv", "widget query", "widget answer")).To(Succeed())
		}

		text, tier := small.Retrieve(ctx, "conv", "widget")
		Expect(tier).To(Equal(retrieval.TierHistory))
		// Two entries render as two User/Bot blocks.
		Expect(text).To(HaveLen(len("User: widget query\nBot: widget answer\nUser: widget query\nBot: widget answer")))
	})
})
