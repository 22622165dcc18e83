// Command ingest runs the offline Chunker -> Embedder -> Index-Prep pipeline
// (spec.md §4.1-§4.3) over a directory of HTML documents, writing the
// resulting vectors as JSONL for the external ANN index builder to consume.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"vecsearch/internal/config"
	"vecsearch/internal/logging"
	"vecsearch/internal/persistence/databases"
	"vecsearch/internal/rag/chunker"
	"vecsearch/internal/rag/embedder"
	"vecsearch/internal/rag/ingest"
	"vecsearch/internal/rag/indexprep"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("ingest failed")
		os.Exit(1)
	}
}

func run() error {
	inputDir := flag.String("input-dir", "", "directory of .html source documents to ingest")
	outputDir := flag.String("output-dir", "./out", "directory to write the JSONL index records into")
	tenant := flag.String("tenant", "default", "tenant identifier recorded in the idempotency ledger")
	reingest := flag.String("reingest", "skip", "reingest policy when a document's hash is unchanged: skip|overwrite|new_version")
	flag.Parse()

	if *inputDir == "" {
		return fmt.Errorf("ingest: -input-dir is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.ProjectID,
		Location: cfg.Location,
	})
	if err != nil {
		return err
	}

	dimension := 768
	emb := embedder.New(embedder.DefaultConfig(dimension, cfg.EmbeddingModel), &embedder.GenaiCaller{Client: genaiClient, Model: cfg.EmbeddingModel})

	policy, err := parseReingestPolicy(*reingest)
	if err != nil {
		return err
	}

	var lookup ingest.DocumentLookup
	if cfg.IngestDSN != "" {
		pool, err := databases.OpenPool(ctx, cfg.IngestDSN)
		if err != nil {
			return fmt.Errorf("ingest: open ledger pool: %w", err)
		}
		defer pool.Close()
		ledger, err := ingest.NewPostgresLedger(ctx, pool)
		if err != nil {
			return fmt.Errorf("ingest: init ledger: %w", err)
		}
		lookup = ledger
	}

	chunkCfg := chunker.Config{ChunkSize: cfg.ChunkSize, Overlap: cfg.Overlap}
	pipeline := ingest.NewPipeline(chunkCfg, emb, dimension, lookup, nil)

	files, err := htmlFiles(*inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Info().Str("dir", *inputDir).Msg("no .html files found, nothing to ingest")
		return nil
	}

	var total int
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("ingest: read %s: %w", path, err)
		}
		docID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		req := ingest.IngestRequest{
			ID:      docID,
			Source:  filepath.Base(path),
			Text:    string(raw),
			Options: ingest.IngestOptions{ReingestPolicy: policy},
		}

		result, err := pipeline.Ingest(ctx, *tenant, req)
		if err != nil {
			return fmt.Errorf("ingest: %s: %w", path, err)
		}
		if result.Decision.Action == "skip" {
			log.Info().Str("doc", docID).Msg("skipped, unchanged")
			continue
		}
		if len(result.Records) == 0 {
			log.Info().Str("doc", docID).Msg("no chunks produced, skipping")
			continue
		}

		out, err := indexprep.WriteJSONL(*outputDir, docID+".jsonl", result.Records)
		if err != nil {
			return fmt.Errorf("ingest: write %s: %w", docID, err)
		}
		log.Info().Str("doc", docID).Str("path", out).Int("records", len(result.Records)).Str("action", result.Decision.Action).Msg("ingested")
		total += len(result.Records)
	}

	log.Info().Int("documents", len(files)).Int("records", total).Msg("ingest complete")
	return nil
}

func htmlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".html") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

func parseReingestPolicy(s string) (ingest.ReingestPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return ingest.ReingestSkipIfUnchanged, nil
	case "overwrite":
		return ingest.ReingestOverwrite, nil
	case "new_version":
		return ingest.ReingestNewVersion, nil
	default:
		return 0, fmt.Errorf("ingest: unknown -reingest value %q", s)
	}
}
