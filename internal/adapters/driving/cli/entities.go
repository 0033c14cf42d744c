package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindexhq/mindex/internal/core/domain"
)

var (
	entitiesType        string
	entitiesMinMentions int
	entitiesJSON        bool
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List entities with mention counts",
	Args:  cobra.NoArgs,
	RunE:  runEntities,
}

func init() {
	entitiesCmd.Flags().StringVarP(&entitiesType, "type", "t", "", "entity type filter")
	entitiesCmd.Flags().IntVar(&entitiesMinMentions, "min-mentions", 1, "minimum mention count")
	entitiesCmd.Flags().BoolVar(&entitiesJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(entitiesCmd)
}

func runEntities(cmd *cobra.Command, _ []string) error {
	if entityService == nil {
		return errors.New("entity service not configured")
	}

	mentions, err := entityService.ListEntities(context.Background(), flagNamespace, entitiesType, entitiesMinMentions)
	if err != nil {
		return fmt.Errorf("listing entities failed: %w", err)
	}

	if entitiesJSON {
		return printJSON(cmd, mentions)
	}
	return outputEntitiesTable(cmd, mentions)
}

func outputEntitiesTable(cmd *cobra.Command, mentions []domain.EntityMention) error {
	if len(mentions) == 0 {
		cmd.Println("No entities found.")
		return nil
	}

	cmd.Printf("%-12s %-24s %8s  %s\n", "TYPE", "NAME", "MENTIONS", "ALIASES")
	for _, m := range mentions {
		cmd.Printf("%-12s %-24s %8d  %s\n",
			m.Entity.Type, m.Entity.Name, m.MentionCount, strings.Join(m.Entity.Aliases, ", "))
	}
	return nil
}
