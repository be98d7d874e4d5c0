package chunk_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/chunk"
)

var _ = Describe("Split", func() {
	Context("with empty text", func() {
		It("returns no chunks", func() {
			chunks, err := chunk.Split("doc", "", 1000, 150)
			Expect(err).NotTo(HaveOccurred())
			Expect(chunks).To(BeEmpty())
		})
	})

	Context("with invalid window parameters", func() {
		It("rejects a non-positive size", func() {
			_, err := chunk.Split("doc", "abc", 0, 0)
			Expect(err).To(MatchError(chunk.ErrInvalidWindow))
		})

		It("rejects an overlap equal to the size", func() {
			_, err := chunk.Split("doc", "abc", 10, 10)
			Expect(err).To(MatchError(chunk.ErrInvalidWindow))
		})

		It("rejects an overlap larger than the size", func() {
			_, err := chunk.Split("doc", "abc", 10, 15)
			Expect(err).To(MatchError(chunk.ErrInvalidWindow))
		})

		It("rejects a negative overlap", func() {
			_, err := chunk.Split("doc", "abc", 10, -1)
			Expect(err).To(MatchError(chunk.ErrInvalidWindow))
		})
	})

	Context("with text shorter than the window", func() {
		It("returns a single chunk holding the whole text", func() {
			chunks, err := chunk.Split("doc", "hello world", 1000, 150)
			Expect(err).NotTo(HaveOccurred())
			Expect(chunks).To(HaveLen(1))
			Expect(chunks[0].Text).To(Equal("hello world"))
			Expect(chunks[0].Seq).To(Equal(0))
		})
	})

	Context("with a 2400-character document and the default window", func() {
		var chunks []chunk.Chunk

		BeforeEach(func() {
			text := strings.Repeat("a", 850) + strings.Repeat("b", 850) + strings.Repeat("c", 700)
			var err error
			chunks, err = chunk.Split("doc", text, 1000, 150)
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces three chunks", func() {
			Expect(chunks).To(HaveLen(3))
		})

		It("fills every window except the last", func() {
			Expect(chunks[0].Text).To(HaveLen(1000))
			Expect(chunks[1].Text).To(HaveLen(1000))
			Expect(chunks[2].Text).To(HaveLen(700))
		})

		It("overlaps adjacent windows by 150 characters", func() {
			Expect(chunks[0].Text[850:]).To(Equal(chunks[1].Text[:150]))
			Expect(chunks[1].Text[850:]).To(Equal(chunks[2].Text[:150]))
		})

		It("numbers chunks sequentially", func() {
			for i, c := range chunks {
				Expect(c.Seq).To(Equal(i))
				Expect(c.SourceID).To(Equal("doc"))
			}
		})
	})

	Context("reconstructing the source", func() {
		It("recovers the original text when overlap is stripped", func() {
			text := "the quick brown fox jumps over the lazy dog and keeps on running"
			chunks, err := chunk.Split("doc", text, 16, 4)
			Expect(err).NotTo(HaveOccurred())

			var sb strings.Builder
			for i, c := range chunks {
				if i == 0 {
					sb.WriteString(c.Text)
					continue
				}
				sb.WriteString(c.Text[4:])
			}
			Expect(sb.String()).To(Equal(text))
		})
	})

	Describe("ID", func() {
		It("joins source and sequence", func() {
			c := chunk.Chunk{SourceID: "manual.txt", Seq: 7}
			Expect(c.ID()).To(Equal("manual.txt-7"))
		})
	})
})
