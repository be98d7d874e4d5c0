package testutils

import (
	"context"
	"fmt"

	"github.com/loomworksco/recall/pkg/eventstream"
)

// MockPublisher is a test turn event publisher that records published events.
type MockPublisher struct {
	// Events accumulates every event passed to PublishTurn.
	Events []*eventstream.TurnCompletedEvent

	// Fail causes PublishTurn to return an error.
	Fail bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Events: make([]*eventstream.TurnCompletedEvent, 0),
	}
}

func (m *MockPublisher) PublishTurn(_ context.Context, event *eventstream.TurnCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}
	if m.Fail {
		return fmt.Errorf("mock publish failure")
	}

	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
