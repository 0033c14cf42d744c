package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindexhq/mindex/internal/core/domain"
)

var (
	entityType string
	entityJSON bool
)

var entityCmd = &cobra.Command{
	Use:   "entity [name]",
	Short: "Recall every segment that mentions an entity",
	Long: `Exact recall: finds the named entity (by canonical name or alias)
and returns every segment linked to it, with provenance. Unlike search,
the result is complete, not ranked or truncated.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntity,
}

func init() {
	entityCmd.Flags().StringVarP(&entityType, "type", "t", "", "entity type filter (e.g. strain, gene)")
	entityCmd.Flags().BoolVar(&entityJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(entityCmd)
}

func runEntity(cmd *cobra.Command, args []string) error {
	name := args[0]

	if entityService == nil {
		return errors.New("entity service not configured")
	}

	matches, err := entityService.SearchEntity(context.Background(), name, entityType, flagNamespace)
	if err != nil {
		return fmt.Errorf("entity recall failed: %w", err)
	}

	if entityJSON {
		return printJSON(cmd, matches)
	}
	return outputEntityTable(cmd, name, matches)
}

func outputEntityTable(cmd *cobra.Command, name string, matches []domain.EntityMatch) error {
	if len(matches) == 0 {
		cmd.Printf("No segments mention %q.\n", name)
		return nil
	}

	cmd.Printf("%d segments mention %q:\n\n", len(matches), name)
	for i, m := range matches {
		cmd.Printf("  [%d] %s (%s, %.2f)\n", i+1, m.SourceURI, m.LinkType, m.Confidence)
		cmd.Printf("      %s\n", snippet(m.Text, 120))
		cmd.Println()
	}
	return nil
}
