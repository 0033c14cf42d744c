package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics for the namespace",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	stats, err := catalogService.Stats(context.Background(), flagNamespace)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Printf("Namespace:    %s\n", stats.Namespace)
	cmd.Printf("Resources:    %d\n", stats.ResourceCount)
	cmd.Printf("Segments:     %d\n", stats.SegmentCount)
	cmd.Printf("Entities:     %d (%d types)\n", stats.EntityCount, stats.EntityTypeCount)
	return nil
}
