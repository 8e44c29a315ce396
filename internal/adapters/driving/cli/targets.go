package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

var (
	targetsIntent string
	targetsQuery  string
	targetsMax    int
	targetsJSON   bool
)

var targetsCmd = &cobra.Command{
	Use:   "targets [doc-id]",
	Short: "Select candidate blocks for an edit intent",
	Long: `Runs the retrieval pipeline: intent-specific regex prefilter, then
ranking through the search index when the prefilter leaves more
candidates than the cap.

Intents: reduce-adverbs, fix-passive-voice, tighten-prose,
remove-filler, expand, simplify, fix-grammar, custom.`,
	Args: cobra.ExactArgs(1),
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().StringVarP(&targetsIntent, "intent", "i", string(domain.IntentReduceAdverbs), "edit intent")
	targetsCmd.Flags().StringVarP(&targetsQuery, "query", "q", "", "custom instruction / ranking query")
	targetsCmd.Flags().IntVarP(&targetsMax, "max", "n", 5, "maximum blocks to return")
	targetsCmd.Flags().BoolVar(&targetsJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	result, err := retrievalService.FindTargets(
		context.Background(), args[0], domain.EditIntent(targetsIntent), targetsQuery, targetsMax)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if targetsJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Targets for %s (intent %s):\n\n", result.DocID, result.Intent)
	if len(result.Blocks) == 0 {
		cmd.Println("  (none)")
	}
	for i, blk := range result.Blocks {
		cmd.Printf("  [%d] %s  %.12s\n", i+1, blk.ID, blk.Hash)
		cmd.Printf("      %s\n", blk.Text)
	}

	if !result.Outline.Empty() {
		cmd.Println("\nOutline context:")
		printOutline(cmd, result.Outline)
	}

	cmd.Println("\nTrace:")
	for _, note := range result.Notes {
		cmd.Printf("  - %s\n", note)
	}
	cmd.Printf("\nBlocks: %d total, %d matched, %d returned\n",
		result.Stats.Total, result.Stats.Matched, result.Stats.Returned)
	return nil
}
