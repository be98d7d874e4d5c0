package testutils

import (
	"context"
	"fmt"

	"github.com/loomworksco/recall/pkg/vector"
)

// MockVectorDriver is a test vector driver
type MockVectorDriver struct {
	Documents []vector.Document
	Results   []vector.QueryResult

	// EnsuredIndexes records EnsureIndex calls as "name/dimensions/metric".
	EnsuredIndexes []string

	// FailQuery causes Query to return an error.
	FailQuery bool

	// FailAdd causes Add to return an error.
	FailAdd bool
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Documents: make([]vector.Document, 0),
		Results:   make([]vector.QueryResult, 0),
	}
}

func (m *MockVectorDriver) EnsureIndex(_ context.Context, name string, dimensions uint, metric string) error {
	m.EnsuredIndexes = append(m.EnsuredIndexes, fmt.Sprintf("%s/%d/%s", name, dimensions, metric))
	return nil
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	if m.FailAdd {
		return vector.ErrConnection
	}
	m.Documents = append(m.Documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	if m.FailQuery {
		return nil, vector.ErrConnection
	}
	if len(m.Results) < topK {
		return m.Results, nil
	}
	return m.Results[:topK], nil
}

func (m *MockVectorDriver) Delete(_ context.Context, _ []string) error {
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}
