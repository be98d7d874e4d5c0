package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/ingest"
	testutils "github.com/loomworksco/recall/pkg/utils/test"
)

var _ = Describe("Pipeline", func() {
	var (
		embedder *testutils.MockEmbedder
		vectors  *testutils.MockVectorDriver
		pipeline *ingest.Pipeline
		ctx      context.Context
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		vectors = testutils.NewMockVectorDriver()
		pipeline = ingest.NewPipeline(ingest.PipelineConfig{
			Embedder:  embedder,
			Vectors:   vectors,
			ChunkSize: 10,
			Overlap:   2,
		})
		ctx = context.Background()
	})

	It("chunks, embeds, and stores a document", func() {
		result, err := pipeline.IngestDocument(ctx, "doc", "abcdefghijklmnopqrstuvwx")
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Chunks).To(Equal(3))
		Expect(result.Stored).To(Equal(3))
		Expect(result.Skipped).To(BeZero())

		Expect(vectors.Documents).To(HaveLen(3))
		Expect(vectors.Documents[0].ID).To(Equal("doc-0"))
		Expect(vectors.Documents[0].Text).To(Equal("abcdefghij"))
		Expect(vectors.Documents[0].Embedding).NotTo(BeEmpty())
	})

	It("preserves chunk order regardless of embedding completion order", func() {
		_, err := pipeline.IngestDocument(ctx, "doc", strings.Repeat("abcdefgh", 20))
		Expect(err).NotTo(HaveOccurred())

		for i, doc := range vectors.Documents {
			Expect(doc.ID).To(HavePrefix("doc-"))
			Expect(doc.ID).To(HaveSuffix(indexSuffix(i)))
		}
	})

	It("skips chunks whose embedding fails", func() {
		embedder.FailOn = "ijklmnopqr"

		result, err := pipeline.IngestDocument(ctx, "doc", "abcdefghijklmnopqrstuvwx")
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Chunks).To(Equal(3))
		Expect(result.Stored).To(Equal(2))
		Expect(result.Skipped).To(Equal(1))
		Expect(vectors.Documents).To(HaveLen(2))
	})

	It("errors when every chunk fails to embed", func() {
		embedder.FailAll = true

		_, err := pipeline.IngestDocument(ctx, "doc", "abcdefghijkl")
		Expect(err).To(HaveOccurred())
		Expect(vectors.Documents).To(BeEmpty())
	})

	It("truncates stored chunk text to the metadata limit", func() {
		wide := ingest.NewPipeline(ingest.PipelineConfig{
			Embedder:  embedder,
			Vectors:   vectors,
			ChunkSize: 600,
			Overlap:   10,
		})

		_, err := wide.IngestDocument(ctx, "doc", strings.Repeat("x", 600))
		Expect(err).NotTo(HaveOccurred())
		Expect(vectors.Documents).To(HaveLen(1))
		Expect(vectors.Documents[0].Text).To(HaveLen(503))
		Expect(vectors.Documents[0].Text).To(HaveSuffix("..."))
	})

	It("returns an empty result for an empty document", func() {
		result, err := pipeline.IngestDocument(ctx, "doc", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Chunks).To(BeZero())
		Expect(vectors.Documents).To(BeEmpty())
	})

	Describe("IngestDir", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("some text"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "guide.md"), []byte("some markdown"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "image.png"), []byte("binary"), 0o644)).To(Succeed())
		})

		It("ingests only .txt and .md files", func() {
			results, err := pipeline.IngestDir(ctx, dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			ids := []string{results[0].SourceID, results[1].SourceID}
			Expect(ids).To(ConsistOf("notes", "guide"))
		})
	})
})

func indexSuffix(i int) string {
	return "-" + strconv.Itoa(i)
}
