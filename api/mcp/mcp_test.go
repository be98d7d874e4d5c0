package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/api/mcp"
	"github.com/loomworksco/recall/pkg/logger"
	testutils "github.com/loomworksco/recall/pkg/utils/test"
)

var _ = Describe("MCP Server", func() {
	var (
		vectorDriver *testutils.MockVectorDriver
		embedder     *testutils.MockEmbedder
	)

	BeforeEach(func() {
		vectorDriver = testutils.NewMockVectorDriver()
		embedder = testutils.NewMockEmbedder()
	})

	Describe("NewServer", func() {
		It("creates a server with search configured", func() {
			server, err := mcp.NewServer(mcp.Config{
				VectorDriver: vectorDriver,
				Embedder:     embedder,
				Logger:       logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("returns an error when vector driver is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Embedder: embedder,
				Logger:   logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("vector driver is required"))
		})

		It("returns an error when embedder is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				VectorDriver: vectorDriver,
				Logger:       logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("embedder is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				VectorDriver: vectorDriver,
				Embedder:     embedder,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates an empty server in noop mode without collaborators", func() {
			server, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server).NotTo(BeNil())
		})
	})
})
