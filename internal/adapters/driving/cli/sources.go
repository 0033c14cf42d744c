package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindexhq/mindex/internal/core/domain"
)

var sourcesJSON bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List ingested sources in the namespace",
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	resources, err := catalogService.Sources(context.Background(), flagNamespace)
	if err != nil {
		return fmt.Errorf("listing sources failed: %w", err)
	}

	if sourcesJSON {
		return printJSON(cmd, resources)
	}
	return outputSourcesTable(cmd, resources)
}

func outputSourcesTable(cmd *cobra.Command, resources []domain.InformationResource) error {
	if len(resources) == 0 {
		cmd.Println("No sources ingested.")
		return nil
	}

	cmd.Printf("%-5s %-60s %s\n", "TYPE", "URI", "UPDATED")
	for _, res := range resources {
		cmd.Printf("%-5s %-60s %s\n",
			res.SourceType, res.SourceURI, res.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
