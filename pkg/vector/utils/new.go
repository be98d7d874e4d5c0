// Package vectorutils constructs vector drivers from configuration.
package vectorutils

import (
	"fmt"
	"net"
	"strconv"

	"go.uber.org/zap"

	"github.com/loomworksco/recall/pkg/vector"
	"github.com/loomworksco/recall/pkg/vector/pinecone"
	"github.com/loomworksco/recall/pkg/vector/qdrantvec"
	"github.com/loomworksco/recall/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	// ProviderType selects the backend: "pinecone", "qdrant", or "sqlite".
	ProviderType string

	// Target is backend-specific: the Pinecone environment, a Qdrant
	// "host:port" address, or a SQLite database path.
	Target string

	// Index is the index/collection name.
	Index string

	// Dimensions is the embedding dimension, required by the sqlite backend
	// and by EnsureIndex.
	Dimensions uint

	// APIKey authenticates against hosted backends.
	APIKey string

	// Logger is the configured zap logger.
	Logger *zap.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "pinecone":
		return pinecone.NewDriver(pinecone.Config{
			APIKey:      o.APIKey,
			Environment: o.Target,
			IndexName:   o.Index,
		}, o.Logger)

	case "qdrant":
		host, port, err := splitHostPort(o.Target)
		if err != nil {
			return nil, fmt.Errorf("parsing qdrant target %q: %w", o.Target, err)
		}
		return qdrantvec.NewDriver(qdrantvec.Config{
			Host:       host,
			Port:       port,
			APIKey:     o.APIKey,
			Collection: o.Index,
		}, o.Logger)

	case "sqlite":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)

	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

// splitHostPort splits "host:port", tolerating a bare host (default port 0,
// letting the driver apply its own default).
func splitHostPort(target string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return target, 0, nil //nolint:nilerr // bare host is fine
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	return host, port, nil
}
