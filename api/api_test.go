package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/api"
	historymem "github.com/loomworksco/recall/pkg/history/inmemory"
	"github.com/loomworksco/recall/pkg/ingest"
	"github.com/loomworksco/recall/pkg/llm"
	"github.com/loomworksco/recall/pkg/logger"
	"github.com/loomworksco/recall/pkg/retrieval"
	summarymem "github.com/loomworksco/recall/pkg/summary/inmemory"
	"github.com/loomworksco/recall/pkg/turn"
	testutils "github.com/loomworksco/recall/pkg/utils/test"
	"github.com/loomworksco/recall/pkg/vector"
)

var _ = Describe("Server", func() {
	var (
		server    *api.Server
		embedder  *testutils.MockEmbedder
		vectors   *testutils.MockVectorDriver
		completer *testutils.MockCompleter
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		vectors = testutils.NewMockVectorDriver()
		completer = testutils.NewMockCompleter(`{"response": "An answer.", "updatedSummary": "A summary."}`)
		histories := historymem.NewDriver()

		engine := turn.NewEngine(turn.EngineConfig{
			Retriever: retrieval.NewCoordinator(retrieval.CoordinatorConfig{
				Embedder: embedder,
				Vectors:  vectors,
				History:  histories,
			}),
			Completer: completer,
			Summaries: summarymem.NewStore(),
			History:   histories,
			Persona:   llm.Persona{Name: "recall", Role: "AI Assistant", Description: "helpful"},
		})

		pipeline := ingest.NewPipeline(ingest.PipelineConfig{
			Embedder: embedder,
			Vectors:  vectors,
		})

		server = api.NewServer(api.Config{
			ListenAddr:   ":0",
			Engine:       engine,
			Pipeline:     pipeline,
			Embedder:     embedder,
			VectorDriver: vectors,
		}, logger.Nop())
	})

	doJSON := func(method, path string, body any) *http.Response {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(payload)
		}
		req := httptest.NewRequest(method, path, reader)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := server.App().Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, out any) {
		defer resp.Body.Close()
		Expect(json.NewDecoder(resp.Body).Decode(out)).To(Succeed())
	}

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp := doJSON("GET", "/ping", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body string
			decode(resp, &body)
			Expect(body).To(Equal("pong"))
		})
	})

	Describe("POST /v1/chat", func() {
		It("runs a turn and returns the answer and summary", func() {
			resp := doJSON("POST", "/v1/chat", api.ChatRequest{
				ConversationID: "conv",
				Query:          "what is the PX-9?",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body api.ChatResponse
			decode(resp, &body)
			Expect(body.Answer).To(Equal("An answer."))
			Expect(body.Summary).To(Equal("A summary."))
			Expect(body.SummaryVersion).To(Equal(int64(1)))
			Expect(body.RetrievalTier).To(Equal("sentinel"))
		})

		It("rejects a missing conversation_id", func() {
			resp := doJSON("POST", "/v1/chat", api.ChatRequest{Query: "q"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects a missing query", func() {
			resp := doJSON("POST", "/v1/chat", api.ChatRequest{ConversationID: "conv"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("returns 503 when no engine is configured", func() {
			bare := api.NewServer(api.Config{ListenAddr: ":0"}, logger.Nop())
			req := httptest.NewRequest("POST", "/v1/chat", bytes.NewReader([]byte(`{}`)))
			req.Header.Set("Content-Type", "application/json")
			resp, err := bare.App().Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("GET /v1/search", func() {
		BeforeEach(func() {
			vectors.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "doc-0", Text: "PX-9 overview"}, Score: 0.92},
			}
		})

		It("returns semantic matches", func() {
			resp := doJSON("GET", "/v1/search?query=PX-9", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body api.SearchResponse
			decode(resp, &body)
			Expect(body.Count).To(Equal(1))
			Expect(body.Results[0].ID).To(Equal("doc-0"))
			Expect(body.Results[0].Text).To(Equal("PX-9 overview"))
		})

		It("requires the query parameter", func() {
			resp := doJSON("GET", "/v1/search", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects a non-positive top_k", func() {
			resp := doJSON("GET", "/v1/search?query=x&top_k=0", nil)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /v1/ingest", func() {
		It("ingests a document", func() {
			resp := doJSON("POST", "/v1/ingest", api.IngestRequest{
				SourceID: "manual",
				Text:     "The PX-9 is a pressure sensor with an I2C interface.",
			})
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body api.IngestResponse
			decode(resp, &body)
			Expect(body.SourceID).To(Equal("manual"))
			Expect(body.Chunks).To(Equal(1))
			Expect(body.Stored).To(Equal(1))
			Expect(vectors.Documents).To(HaveLen(1))
		})

		It("rejects a missing source_id", func() {
			resp := doJSON("POST", "/v1/ingest", api.IngestRequest{Text: "x"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})
})
