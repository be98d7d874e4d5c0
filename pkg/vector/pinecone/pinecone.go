// Package pinecone provides a Pinecone vector index driver implementation
// using Pinecone's REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/vector"
)

// Driver implements vector.Driver against Pinecone's REST API.
type Driver struct {
	apiKey      string
	environment string
	indexName   string
	httpClient  *http.Client
	logger      *zap.Logger
}

// Config holds configuration for the Pinecone driver.
type Config struct {
	// APIKey is the Pinecone API key.
	APIKey string

	// Environment is the Pinecone environment (e.g., "us-west2-aws").
	Environment string

	// IndexName is the name of the index to use.
	IndexName string
}

// NewDriver creates a new Pinecone vector driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("pinecone API key is required")
	}
	if c.Environment == "" {
		return nil, fmt.Errorf("pinecone environment is required")
	}
	if c.IndexName == "" {
		return nil, fmt.Errorf("pinecone index name is required")
	}

	return &Driver{
		apiKey:      c.APIKey,
		environment: c.Environment,
		indexName:   c.IndexName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}, nil
}

// indexURL returns the data-plane URL for the configured index.
func (d *Driver) indexURL(path string) string {
	return fmt.Sprintf("https://%s-%s.svc.pinecone.io%s", d.indexName, d.environment, path)
}

// controllerURL returns the control-plane URL for index management.
func (d *Driver) controllerURL(path string) string {
	return fmt.Sprintf("https://controller.%s.pinecone.io%s", d.environment, path)
}

// do sends an authenticated JSON request and decodes the response into out
// (when out is non-nil).
func (d *Driver) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Api-Key", d.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("pinecone returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// EnsureIndex creates the index if it does not already exist. An existing
// index with the same name is left untouched regardless of its parameters.
func (d *Driver) EnsureIndex(ctx context.Context, name string, dimensions uint, metric string) error {
	var names []string
	if _, err := d.do(ctx, http.MethodGet, d.controllerURL("/databases"), nil, &names); err != nil {
		return fmt.Errorf("listing indexes: %w", err)
	}

	for _, n := range names {
		if n == name {
			d.logger.Debug("pinecone index already exists", zap.String("index", name))
			return nil
		}
	}

	createReq := createIndexRequest{
		Name:      name,
		Dimension: dimensions,
		Metric:    metric,
	}

	status, err := d.do(ctx, http.MethodPost, d.controllerURL("/databases"), createReq, nil)
	if err != nil {
		// A concurrent creator winning the race is fine.
		if status == http.StatusConflict {
			return nil
		}
		return fmt.Errorf("creating index %q: %w", name, err)
	}

	d.logger.Info("created pinecone index",
		zap.String("index", name),
		zap.Uint("dimensions", dimensions),
		zap.String("metric", metric),
	)

	return nil
}

// Add upserts documents with their embeddings. The document text is carried
// in vector metadata under the "text" key.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	vectors := make([]upsertVector, len(docs))
	for i, doc := range docs {
		vectors[i] = upsertVector{
			ID:     doc.ID,
			Values: doc.Embedding,
			Metadata: map[string]any{
				"text": doc.Text,
			},
		}
	}

	reqBody := upsertRequest{Vectors: vectors}
	if _, err := d.do(ctx, http.MethodPost, d.indexURL("/vectors/upsert"), reqBody, nil); err != nil {
		return fmt.Errorf("upserting %d vectors: %w", len(docs), err)
	}

	d.logger.Debug("upserted vectors to pinecone",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK most similar documents to the given embedding.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 3
	}

	reqBody := queryRequest{
		Vector:          embedding,
		TopK:            topK,
		IncludeMetadata: true,
	}

	var queryResp queryResponse
	if _, err := d.do(ctx, http.MethodPost, d.indexURL("/query"), reqBody, &queryResp); err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	results := make([]vector.QueryResult, 0, len(queryResp.Matches))
	for _, match := range queryResp.Matches {
		result := vector.QueryResult{
			Document: vector.Document{
				ID: match.ID,
			},
			Score: match.Score,
		}

		if text, ok := match.Metadata["text"].(string); ok {
			result.Text = text
		}

		results = append(results, result)
	}

	d.logger.Debug("queried pinecone",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Delete removes documents by their IDs.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	reqBody := deleteRequest{IDs: ids}
	if _, err := d.do(ctx, http.MethodPost, d.indexURL("/vectors/delete"), reqBody, nil); err != nil {
		return fmt.Errorf("deleting %d vectors: %w", len(ids), err)
	}

	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

var _ vector.Driver = (*Driver)(nil)
