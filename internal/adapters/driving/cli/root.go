// Package cli implements the mindex command line interface. Commands
// are thin wrappers over the driving ports; services are injected by
// the composition root before Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mindexhq/mindex/internal/core/ports/driving"
	"github.com/mindexhq/mindex/internal/logger"
)

// version is set by the composition root at startup.
var version = "dev"

// Injected services. Nil services make their commands report an error
// instead of panicking.
var (
	ingestionService driving.IngestionService
	searchService    driving.SearchService
	entityService    driving.EntityService
	catalogService   driving.CatalogService
)

var (
	flagVerbose   bool
	flagNamespace string
)

var rootCmd = &cobra.Command{
	Use:   "mindex",
	Short: "Content-addressed knowledge base with exact recall",
	Long: `mindex ingests documents into a content-addressed knowledge base.

Ingestion is idempotent: identical bytes always produce identical
segments, entities and links. Retrieval comes in two modes: semantic
similarity search over embeddings, and exact recall of every segment
that mentions a given entity.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagNamespace, "namespace", "default", "namespace (corpus partition)")
}

// Services bundles everything the CLI needs.
type Services struct {
	Ingestion driving.IngestionService
	Search    driving.SearchService
	Entity    driving.EntityService
	Catalog   driving.CatalogService
}

// SetServices injects the application services. Must be called before
// Execute.
func SetServices(s Services) {
	ingestionService = s.Ingestion
	searchService = s.Search
	entityService = s.Entity
	catalogService = s.Catalog
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
