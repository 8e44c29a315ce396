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
	simulateFile string
	applyFile    string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Preview an edit batch without applying it",
	Long: `Validates a DocEditBatch read from --file or stdin and prints the
resulting diff and statistics. The document is never mutated; the same
batch can be applied afterwards with 'inkwell apply'.

The batch is JSON:
  { "docId": "...", "baseVersion": "...",
    "operations": [ {"kind":"replace","blockId":"...","expectedHash":"...",
                     "start":0,"end":5,"text":"..."} ] }`,
	RunE: runSimulate,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply an edit batch",
	Long: `Validates a DocEditBatch read from --file or stdin and, on success,
commits it atomically and advances the document's base version.

Validation failures are reported with a structured code (STALE_VERSION,
STALE_BLOCK, BLOCK_NOT_FOUND, RANGE_OUT_OF_BOUNDS, ...) and leave the
document untouched.`,
	RunE: runApply,
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateFile, "file", "f", "", "batch JSON file ('-' or empty = stdin)")
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "batch JSON file ('-' or empty = stdin)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(applyCmd)
}

// readBatch decodes a DocEditBatch from the given file or stdin.
func readBatch(cmd *cobra.Command, path string) (*domain.DocEditBatch, error) {
	text, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var batch domain.DocEditBatch
	if err := json.Unmarshal([]byte(text), &batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	return &batch, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if editService == nil {
		return errors.New("edit service not configured")
	}

	batch, err := readBatch(cmd, simulateFile)
	if err != nil {
		return err
	}

	result, err := editService.SimulateOps(context.Background(), *batch)
	if err != nil {
		return reportBatchFailure(cmd, err)
	}

	cmd.Println(result.DiffMarkup)
	cmd.Println()
	printStats(cmd, result.Stats)
	cmd.Printf("Would advance to version %s\n", result.NewVersion)
	return nil
}

func runApply(cmd *cobra.Command, _ []string) error {
	if editService == nil {
		return errors.New("edit service not configured")
	}

	batch, err := readBatch(cmd, applyFile)
	if err != nil {
		return err
	}

	result, err := editService.ApplyOps(context.Background(), *batch)
	if err != nil {
		return reportBatchFailure(cmd, err)
	}

	cmd.Println("Batch applied.")
	printStats(cmd, result.Stats)
	cmd.Printf("New version: %s\n", result.NewVersion)
	return nil
}

// reportBatchFailure surfaces a validation failure with its structured
// code and a retry hint for conflicts.
func reportBatchFailure(cmd *cobra.Command, err error) error {
	code := domain.CodeOf(err)
	if code == "" {
		return err
	}
	if code == domain.CodeStaleVersion || code == domain.CodeStaleBlock {
		cmd.Println("Document changed since the batch was proposed; re-read it and retry.")
	}
	return fmt.Errorf("batch rejected: %w", err)
}

func printStats(cmd *cobra.Command, stats domain.EditStats) {
	cmd.Printf("Stats: %d ops, %d/%d blocks edited, +%d/-%d chars\n",
		stats.Operations, stats.BlocksEdited, stats.BlocksScanned,
		stats.CharsAdded, stats.CharsRemoved)
}
