package ingest

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger is a DocumentLookup backed by a Postgres table that records
// one row per (tenant, content hash) seen by the offline ingestion pipeline.
// It supplements spec.md's chunking/embedding/index-prep pipeline with the
// re-ingestion idempotency the original system's ingestion loop provided.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger constructs a PostgresLedger, creating its backing table
// if it does not already exist.
func NewPostgresLedger(ctx context.Context, pool *pgxpool.Pool) (*PostgresLedger, error) {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS ingest_ledger (
  tenant  TEXT NOT NULL,
  hash    TEXT NOT NULL,
  doc_id  TEXT NOT NULL,
  version INT  NOT NULL,
  PRIMARY KEY (tenant, hash)
)`)
	if err != nil {
		return nil, err
	}
	return &PostgresLedger{pool: pool}, nil
}

// LookupByHash implements DocumentLookup.
func (l *PostgresLedger) LookupByHash(ctx context.Context, hash string, tenant string) (string, int, bool, error) {
	var docID string
	var version int
	err := l.pool.QueryRow(ctx, `
SELECT doc_id, version FROM ingest_ledger WHERE tenant=$1 AND hash=$2
`, tenant, hash).Scan(&docID, &version)
	if err == pgx.ErrNoRows {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return docID, version, true, nil
}

// Record upserts the (tenant, hash) -> (docID, version) mapping after a
// successful ingest, so future runs over the same content resolve via
// ResolveIdempotency instead of re-embedding it.
func (l *PostgresLedger) Record(ctx context.Context, tenant, hash, docID string, version int) error {
	_, err := l.pool.Exec(ctx, `
INSERT INTO ingest_ledger(tenant, hash, doc_id, version) VALUES($1,$2,$3,$4)
ON CONFLICT (tenant, hash) DO UPDATE SET doc_id=EXCLUDED.doc_id, version=EXCLUDED.version
`, tenant, hash, docID, version)
	return err
}
