// Package chunk splits source documents into fixed-size, overlapping windows
// for embedding. Splitting is a pure function: the same input always produces
// the same chunks, and chunks are immutable once produced.
package chunk

import (
	"errors"
	"fmt"
)

const (
	// DefaultSize is the default chunk window size in characters.
	DefaultSize = 1000

	// DefaultOverlap is the default character overlap between adjacent chunks.
	DefaultOverlap = 150
)

// ErrInvalidWindow is returned when the requested window parameters cannot
// produce forward progress (non-positive size, negative overlap, or an
// overlap as large as the window itself).
var ErrInvalidWindow = errors.New("invalid chunk window")

// Chunk is a bounded substring of a source document. Identity is
// (SourceID, Seq).
type Chunk struct {
	// SourceID identifies the originating document.
	SourceID string

	// Seq is the zero-based position of the chunk within the document.
	Seq int

	// Text is the chunk content, at most the configured window size.
	Text string
}

// ID returns the stable identifier for the chunk, "{sourceID}-{seq}".
func (c Chunk) ID() string {
	return fmt.Sprintf("%s-%d", c.SourceID, c.Seq)
}

// Split cuts text into windows of size characters, advancing the window start
// by size-overlap each step. The final chunk may be shorter than size. Empty
// text yields no chunks.
func Split(sourceID, text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrInvalidWindow, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidWindow, overlap, size)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	stride := size - overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += stride {
		end := min(start+size, len(runes))

		chunks = append(chunks, Chunk{
			SourceID: sourceID,
			Seq:      len(chunks),
			Text:     string(runes[start:end]),
		})
	}

	return chunks, nil
}
