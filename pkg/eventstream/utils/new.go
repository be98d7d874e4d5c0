// Package eventstreamutils constructs turn event publishers from configuration.
package eventstreamutils

import (
	"fmt"

	"github.com/loomworksco/recall/pkg/eventstream"
	"github.com/loomworksco/recall/pkg/eventstream/kafka"
	"github.com/loomworksco/recall/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	ProviderType string
	Brokers      []string
	Topic        string
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.PublisherConfig{
			Brokers: o.Brokers,
			Topic:   o.Topic,
		})
	default:
		return nil, fmt.Errorf("unsupported eventstream provider: %s", o.ProviderType)
	}
}
