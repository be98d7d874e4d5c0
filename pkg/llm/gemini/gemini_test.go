package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/loomworksco/recall/pkg/llm/gemini"
)

var _ = Describe("Completer", func() {
	var (
		server     *httptest.Server
		lastPath   string
		lastPrompt string
		respond    func(w http.ResponseWriter)
	)

	BeforeEach(func() {
		respond = func(w http.ResponseWriter) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{{"text": "generated answer"}}}},
				},
			})
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastPath = r.URL.Path

			var body struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
				lastPrompt = body.Contents[0].Parts[0].Text
			}

			respond(w)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newCompleter := func() *gemini.Completer {
		c, err := gemini.NewCompleter(gemini.CompleterConfig{
			BaseURL: server.URL,
			APIKey:  "test-key",
		})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("requires an API key", func() {
		_, err := gemini.NewCompleter(gemini.CompleterConfig{})
		Expect(err).To(HaveOccurred())
	})

	It("posts the prompt to the generateContent endpoint", func() {
		c := newCompleter()
		defer c.Close()

		out, err := c.Complete(context.Background(), "what is a PX-9?")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("generated answer"))
		Expect(lastPath).To(Equal("/models/" + gemini.DefaultModel + ":generateContent"))
		Expect(lastPrompt).To(Equal("what is a PX-9?"))
	})

	It("surfaces non-200 responses as errors", func() {
		respond = func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusTooManyRequests)
		}
		c := newCompleter()
		defer c.Close()

		_, err := c.Complete(context.Background(), "q")
		Expect(err).To(MatchError(ContainSubstring("429")))
	})

	It("errors when no candidates come back", func() {
		respond = func(w http.ResponseWriter) {
			_, _ = w.Write([]byte(`{"candidates": []}`))
		}
		c := newCompleter()
		defer c.Close()

		_, err := c.Complete(context.Background(), "q")
		Expect(err).To(MatchError(ContainSubstring("no candidates")))
	})
})
