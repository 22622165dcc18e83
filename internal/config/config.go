// Package config loads the Query Service's and ingestion pipeline's
// environment-variable configuration (spec.md §6), failing fast on any
// missing required variable.
package config

// Config holds every environment-derived setting the service needs.
type Config struct {
	// Required: identify the managed model/index deployment.
	ProjectID       string
	Location        string
	IndexEndpointID string
	DeployedIndexID string

	// Defaulted.
	EmbeddingModel        string
	SummaryModel          string
	CacheTTLSeconds       int
	CacheMaxEntries       int
	DefaultTopK           int
	MaxTopK               int
	RequestTimeoutSeconds int
	HTTPPort              int

	// Chunking, used only by cmd/ingest.
	ChunkSize int
	Overlap   int

	// Optional: vector backend selection (BackendMemory|BackendQdrant), and
	// the offline ingestion idempotency ledger's Postgres DSN.
	VectorBackend string
	VectorMetric  string
	IngestDSN     string

	// Observability.
	OTelEndpoint string
	LogLevel     string
}
