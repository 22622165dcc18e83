package databases

import "fmt"

// VectorBackend selects which VectorStore implementation NewVectorStore
// constructs.
type VectorBackend string

const (
	// BackendMemory uses an in-process cosine-similarity store. Suitable
	// for tests and local development; not durable.
	BackendMemory VectorBackend = "memory"
	// BackendQdrant connects to a Qdrant collection, modeling the managed
	// ANN index described in spec.md §4.4.
	BackendQdrant VectorBackend = "qdrant"
)

// NewVectorStore constructs the Query Client's ANN backend. dsn and
// collection are only used when backend is BackendQdrant; there, dsn is
// interpreted as spec.md's INDEX_ENDPOINT_ID (a Qdrant gRPC endpoint) and
// collection as DEPLOYED_INDEX_ID.
func NewVectorStore(backend VectorBackend, dsn, collection string, dimension int, metric string) (VectorStore, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryVector(dimension), nil
	case BackendQdrant:
		if dsn == "" {
			return nil, fmt.Errorf("qdrant backend requires a DSN (INDEX_ENDPOINT_ID)")
		}
		if collection == "" {
			return nil, fmt.Errorf("qdrant backend requires a collection name (DEPLOYED_INDEX_ID)")
		}
		return NewQdrantVector(dsn, collection, dimension, metric)
	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", backend)
	}
}
