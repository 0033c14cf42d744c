package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var segmentsJSON bool

var segmentsCmd = &cobra.Command{
	Use:   "segments [source-uri]",
	Short: "List one source's segments in document order",
	Args:  cobra.ExactArgs(1),
	RunE:  runSegments,
}

func init() {
	segmentsCmd.Flags().BoolVar(&segmentsJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(segmentsCmd)
}

func runSegments(cmd *cobra.Command, args []string) error {
	sourceURI := args[0]

	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	segments, err := catalogService.SegmentsForSource(context.Background(), sourceURI, flagNamespace)
	if err != nil {
		return fmt.Errorf("listing segments failed: %w", err)
	}

	if segmentsJSON {
		return printJSON(cmd, segments)
	}

	if len(segments) == 0 {
		cmd.Println("No segments stored for this source.")
		return nil
	}
	for _, seg := range segments {
		cmd.Printf("  [%d] %s\n", seg.SegmentIndex, snippet(seg.Text, 120))
	}
	return nil
}
