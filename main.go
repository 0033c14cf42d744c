// Command mindex is a content-addressed knowledge base for local
// documents, with semantic search and exact entity recall.
package main

import (
	"fmt"
	"os"

	"github.com/mindexhq/mindex/internal/adapters/driven/config/file"
	"github.com/mindexhq/mindex/internal/adapters/driven/embedding/ollama"
	"github.com/mindexhq/mindex/internal/adapters/driven/embedding/openai"
	"github.com/mindexhq/mindex/internal/adapters/driven/extract/pdftext"
	"github.com/mindexhq/mindex/internal/adapters/driven/storage/sqlite"
	"github.com/mindexhq/mindex/internal/adapters/driving/cli"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/core/services"
	"github.com/mindexhq/mindex/internal/extractors/regex"
	"github.com/mindexhq/mindex/internal/logger"
	"github.com/mindexhq/mindex/internal/segmenter"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString("storage.dir"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	var segOpts []segmenter.Option
	if n := cfg.GetInt("segmenter.sentences_per_segment"); n > 0 {
		segOpts = append(segOpts, segmenter.WithSentencesPerSegment(n))
	}
	seg := segmenter.New(segOpts...)

	extractor, err := regex.New()
	if err != nil {
		return fmt.Errorf("building extractor: %w", err)
	}
	for entityType, pattern := range cfg.StringMap("extractor.patterns") {
		if err := extractor.AddPattern(entityType, pattern); err != nil {
			return fmt.Errorf("config extractor pattern: %w", err)
		}
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	if embedder != nil {
		defer embedder.Close()
	}

	pipeline := services.NewIngestionPipeline(store, seg, extractor, pdftext.New(), embedder)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingestion: pipeline,
		Search:    services.NewSemanticSearch(store, embedder),
		Entity:    services.NewExactRecall(store),
		Catalog:   services.NewCatalog(store),
	})

	return cli.Execute()
}

// buildEmbedder constructs the configured embedding service, or nil
// when none is configured. Without an embedder, ingestion and exact
// recall work normally; only semantic search is unavailable.
func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "":
		logger.Debug("no embedding provider configured")
		return nil, nil
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	case "openai":
		apiKey := cfg.GetString("embedding.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
