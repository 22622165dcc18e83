package ingest

// ReingestPolicy controls what happens when a document's content hash
// matches one already recorded in the idempotency ledger.
type ReingestPolicy int

const (
	// ReingestSkipIfUnchanged leaves the existing record alone.
	ReingestSkipIfUnchanged ReingestPolicy = iota
	// ReingestOverwrite replaces the existing record in place.
	ReingestOverwrite
	// ReingestNewVersion creates a new version alongside the existing one.
	ReingestNewVersion
)

// IngestOptions configures reingest behavior for one IngestRequest.
type IngestOptions struct {
	ReingestPolicy ReingestPolicy
	Version        int
}

// IngestRequest is one document submitted to the offline ingestion pipeline
// (cmd/ingest): a source document's raw text plus enough identity to
// dedupe it against prior runs.
type IngestRequest struct {
	ID      string
	Source  string
	URL     string
	Text    string
	Options IngestOptions
}
