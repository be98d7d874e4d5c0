// Package ingest turns source documents into embedded chunks in the vector
// store. Chunks are embedded with bounded concurrency; a chunk whose embedding
// fails is skipped with a warning rather than failing the document.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/chunk"
	"github.com/loomworksco/recall/pkg/embeddings"
	"github.com/loomworksco/recall/pkg/utils"
	"github.com/loomworksco/recall/pkg/vector"
)

const (
	// DefaultConcurrency bounds simultaneous embedding calls.
	DefaultConcurrency = 4

	// metadataTextLimit caps the chunk text stored alongside each vector.
	metadataTextLimit = 500
)

// Result summarizes one document's ingestion.
type Result struct {
	// SourceID is the document's identifier.
	SourceID string

	// Chunks is how many chunks the document split into.
	Chunks int

	// Stored is how many chunks made it into the vector store.
	Stored int

	// Skipped is how many chunks were dropped due to embedding failures.
	Skipped int
}

// Pipeline chunks, embeds, and stores documents.
type Pipeline struct {
	embedder    embeddings.Embedder
	vectors     vector.Driver
	chunkSize   int
	overlap     int
	concurrency int
	logger      *zap.Logger
}

// PipelineConfig holds the pipeline's collaborators and tuning knobs.
type PipelineConfig struct {
	Embedder embeddings.Embedder
	Vectors  vector.Driver

	// ChunkSize is the chunk window in characters.
	// Defaults to chunk.DefaultSize if zero.
	ChunkSize int

	// Overlap is the chunk overlap in characters.
	// Defaults to chunk.DefaultOverlap if zero.
	Overlap int

	// Concurrency bounds simultaneous embedding calls.
	// Defaults to DefaultConcurrency if zero.
	Concurrency int

	Logger *zap.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = chunk.DefaultSize
	}
	overlap := cfg.Overlap
	if overlap <= 0 {
		overlap = chunk.DefaultOverlap
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		embedder:    cfg.Embedder,
		vectors:     cfg.Vectors,
		chunkSize:   chunkSize,
		overlap:     overlap,
		concurrency: concurrency,
		logger:      logger,
	}
}

// IngestDocument splits the text, embeds each chunk with bounded concurrency,
// and upserts the successful ones. Chunk order in the store follows chunk IDs,
// not completion order.
func (p *Pipeline) IngestDocument(ctx context.Context, sourceID, text string) (Result, error) {
	chunks, err := chunk.Split(sourceID, text, p.chunkSize, p.overlap)
	if err != nil {
		return Result{}, fmt.Errorf("splitting document %q: %w", sourceID, err)
	}

	result := Result{SourceID: sourceID, Chunks: len(chunks)}
	if len(chunks) == 0 {
		return result, nil
	}

	docs := make([]*vector.Document, len(chunks))

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i, c := range chunks {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, c chunk.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			embedding, err := p.embedder.Embed(ctx, c.Text)
			if err != nil {
				p.logger.Warn("embedding chunk failed, skipping",
					zap.String("chunk_id", c.ID()),
					zap.Error(err),
				)
				return
			}

			docs[i] = &vector.Document{
				ID:        c.ID(),
				Text:      utils.Truncate(c.Text, metadataTextLimit),
				Embedding: embedding,
			}
		}(i, c)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	stored := make([]vector.Document, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			stored = append(stored, *doc)
		}
	}
	result.Stored = len(stored)
	result.Skipped = result.Chunks - result.Stored

	if len(stored) == 0 {
		return result, fmt.Errorf("no chunks of %q could be embedded", sourceID)
	}

	if err := p.vectors.Add(ctx, stored); err != nil {
		return result, fmt.Errorf("storing chunks of %q: %w", sourceID, err)
	}

	p.logger.Info("ingested document",
		zap.String("source_id", sourceID),
		zap.Int("chunks", result.Chunks),
		zap.Int("stored", result.Stored),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// IngestFile ingests one file, using its base name without extension as the
// source ID.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %q: %w", path, err)
	}

	base := filepath.Base(path)
	sourceID := strings.TrimSuffix(base, filepath.Ext(base))

	return p.IngestDocument(ctx, sourceID, string(data))
}

// IngestDir ingests every .txt and .md file directly in the directory.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %q: %w", dir, err)
	}

	var results []Result
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		result, err := p.IngestFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}
