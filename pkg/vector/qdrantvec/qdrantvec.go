// Package qdrantvec provides a Qdrant vector index driver implementation
// using the official Qdrant gRPC client.
package qdrantvec

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/vector"
)

// Driver implements vector.Driver backed by a Qdrant collection.
type Driver struct {
	client     *qdrant.Client
	collection string
	logger     *zap.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Host is the Qdrant server host (e.g., "localhost").
	Host string

	// Port is the Qdrant gRPC port (defaults to 6334).
	Port int

	// APIKey is the optional Qdrant API key.
	APIKey string

	// Collection is the collection name to use.
	Collection string
}

// NewDriver creates a new Qdrant vector driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}

	port := c.Port
	if port == 0 {
		port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   c.Host,
		Port:   port,
		APIKey: c.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to qdrant: %v", vector.ErrConnection, err)
	}

	logger.Info("connected to qdrant",
		zap.String("host", c.Host),
		zap.Int("port", port),
		zap.String("collection", c.Collection),
	)

	return &Driver{
		client:     client,
		collection: c.Collection,
		logger:     logger,
	}, nil
}

// EnsureIndex creates the collection if absent. The name parameter overrides
// the configured collection when non-empty so ingestion can target a fresh
// index by name.
func (d *Driver) EnsureIndex(ctx context.Context, name string, dimensions uint, metric string) error {
	if name == "" {
		name = d.collection
	}

	exists, err := d.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: checking collection %q: %v", vector.ErrConnection, name, err)
	}
	if exists {
		d.logger.Debug("qdrant collection already exists", zap.String("collection", name))
		return nil
	}

	distance := qdrant.Distance_Cosine
	if metric == "dot" {
		distance = qdrant.Distance_Dot
	}

	err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: distance,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", name, err)
	}

	d.logger.Info("created qdrant collection",
		zap.String("collection", name),
		zap.Uint("dimensions", dimensions),
	)

	return nil
}

// pointID derives a stable UUID point ID from a document ID. Qdrant point IDs
// must be UUIDs or integers; hashing keeps upserts of the same document
// idempotent while the original ID rides along in the payload.
func pointID(docID string) *qdrant.PointId {
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(docID)).String())
}

// Add upserts documents with their embeddings.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      pointID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"doc_id": doc.ID,
				"text":   doc.Text,
			}),
		}
	}

	_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: d.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting %d points: %w", len(docs), err)
	}

	d.logger.Debug("upserted points to qdrant",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK most similar documents to the given embedding.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 3
	}

	points, err := d.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: d.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	results := make([]vector.QueryResult, 0, len(points))
	for _, point := range points {
		result := vector.QueryResult{
			Score: point.GetScore(),
		}

		payload := point.GetPayload()
		if v, ok := payload["doc_id"]; ok {
			result.ID = v.GetStringValue()
		}
		if v, ok := payload["text"]; ok {
			result.Text = v.GetStringValue()
		}

		results = append(results, result)
	}

	d.logger.Debug("queried qdrant",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Delete removes documents by their IDs.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}

	_, err := d.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: d.collection,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return fmt.Errorf("deleting %d points: %w", len(ids), err)
	}

	return nil
}

// Close releases the underlying gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

var _ vector.Driver = (*Driver)(nil)
