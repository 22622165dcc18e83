// Command server runs the Query Service's HTTP API (spec.md §4.5): it wires
// configuration, logging, telemetry, the ANN backend, and the managed
// embedding/generative models into an internal/httpapi.Server and serves it.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"vecsearch/internal/config"
	"vecsearch/internal/httpapi"
	"vecsearch/internal/logging"
	"vecsearch/internal/persistence/databases"
	"vecsearch/internal/rag/cache"
	"vecsearch/internal/rag/embedder"
	"vecsearch/internal/rag/queryclient"
	"vecsearch/internal/rag/service"
	"vecsearch/internal/rag/summarizer"
	"vecsearch/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    "vecsearch-query-service",
		ServiceVersion: "dev",
		Environment:    firstNonEmpty(os.Getenv("ENVIRONMENT"), "development"),
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.ProjectID,
		Location: cfg.Location,
	})
	if err != nil {
		return err
	}

	dimension := embeddingDimension(cfg.EmbeddingModel)
	store, err := databases.NewVectorStore(databases.VectorBackend(cfg.VectorBackend), cfg.IndexEndpointID, cfg.DeployedIndexID, dimension, cfg.VectorMetric)
	if err != nil {
		return err
	}

	emb := embedder.New(embedder.DefaultConfig(dimension, cfg.EmbeddingModel), &embedder.GenaiCaller{Client: genaiClient, Model: cfg.EmbeddingModel})
	qc := queryclient.New(queryclient.Config{
		Project:         cfg.ProjectID,
		Location:        cfg.Location,
		EndpointID:      cfg.IndexEndpointID,
		DeployedIndexID: cfg.DeployedIndexID,
	}, emb, store)

	c := cache.New(time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxEntries)
	sm := summarizer.New(summarizer.DefaultConfig(cfg.SummaryModel), &summarizer.GenaiGenerator{Client: genaiClient, Model: cfg.SummaryModel})

	svc := service.New(qc, c, sm, service.Limits{DefaultTopK: cfg.DefaultTopK, MaxTopK: cfg.MaxTopK}, logging.ZerologAdapter{}, nil, nil)

	httpSrv := httpapi.NewHTTPServer(":"+strconv.Itoa(cfg.HTTPPort), svc, cfg)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("query service listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	case err := <-errCh:
		return err
	}
}

// embeddingDimension maps the managed embedding model name to its output
// dimensionality. Every model spec.md §6 names (text-embedding-004/005,
// text-multilingual-embedding-002) produces 768-dimension vectors.
func embeddingDimension(model string) int {
	return 768
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
