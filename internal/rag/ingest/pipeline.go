package ingest

import (
	"context"
	"fmt"

	"vecsearch/internal/rag/chunker"
	"vecsearch/internal/rag/embedder"
	"vecsearch/internal/rag/indexprep"
	"vecsearch/internal/rag/types"
)

// Result is the outcome of running one document through the offline
// ingestion Pipeline.
type Result struct {
	Decision IdempotencyDecision
	Records  []types.IndexRecord
}

// Pipeline chains Preprocess -> ResolveIdempotency -> Chunker -> Embedder ->
// indexprep.BuildRecords into the single offline path cmd/ingest drives over
// a directory of source documents.
type Pipeline struct {
	chunker   chunker.Chunker
	chunkCfg  chunker.Config
	embed     *embedder.Embedder
	lookup    DocumentLookup
	detector  LanguageDetector
	dimension int
}

// NewPipeline constructs a Pipeline. lookup and detector may be nil, in
// which case every document is treated as new (always "create") and
// language detection defaults to DefaultLanguageDetector.
func NewPipeline(chunkCfg chunker.Config, embed *embedder.Embedder, dimension int, lookup DocumentLookup, detector LanguageDetector) *Pipeline {
	return &Pipeline{
		chunker:   chunker.New(),
		chunkCfg:  chunkCfg,
		embed:     embed,
		lookup:    lookup,
		detector:  detector,
		dimension: dimension,
	}
}

// Ingest runs one IngestRequest through the pipeline for the given tenant.
// A "skip" idempotency decision short-circuits chunking/embedding entirely.
func (p *Pipeline) Ingest(ctx context.Context, tenant string, req IngestRequest) (Result, error) {
	pre, err := Preprocess(ctx, p.detector, req)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: preprocess: %w", err)
	}

	decision, err := ResolveIdempotency(ctx, p.lookup, tenant, req, pre)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: resolve idempotency: %w", err)
	}
	if decision.Action == "skip" {
		return Result{Decision: decision}, nil
	}

	metadata := map[string]any{
		"tenant":   tenant,
		"source":   req.Source,
		"url":      req.URL,
		"language": pre.Language,
		"version":  decision.Version,
	}
	chunks, err := p.chunker.Chunk(pre.Text, decision.DocID, metadata, p.chunkCfg)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: chunk: %w", err)
	}
	if len(chunks) == 0 {
		return Result{Decision: decision}, nil
	}

	vectors, err := p.embed.Embed(ctx, chunks)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: embed: %w", err)
	}

	lookup := make(indexprep.ChunkLookup, len(chunks))
	for _, c := range chunks {
		lookup[c.ChunkID] = c
	}
	records, err := indexprep.BuildRecords(vectors, lookup, p.dimension)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: build records: %w", err)
	}

	if ledger, ok := p.lookup.(*PostgresLedger); ok {
		if err := ledger.Record(ctx, tenant, pre.Hash, decision.DocID, decision.Version); err != nil {
			return Result{}, fmt.Errorf("ingest: record ledger: %w", err)
		}
	}

	return Result{Decision: decision, Records: records}, nil
}
