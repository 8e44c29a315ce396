package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

var (
	outlineGoal     string
	outlineConflict string
	outlineOutcome  string
	outlineClock    string
	outlineCrucible string
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Manage story outlines",
	Long: `Records story-level context (goal, conflict, outcome, clock,
crucible) for a document. Retrieval attaches it to results so the
agent sees the scene's intent alongside the target blocks.`,
}

var outlineSetCmd = &cobra.Command{
	Use:   "set [doc-id]",
	Short: "Set the outline for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutlineSet,
}

var outlineShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show the outline for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutlineShow,
}

func init() {
	outlineSetCmd.Flags().StringVar(&outlineGoal, "goal", "", "what the viewpoint character wants")
	outlineSetCmd.Flags().StringVar(&outlineConflict, "conflict", "", "what stands in the way")
	outlineSetCmd.Flags().StringVar(&outlineOutcome, "outcome", "", "how the scene resolves")
	outlineSetCmd.Flags().StringVar(&outlineClock, "clock", "", "ticking-clock pressure")
	outlineSetCmd.Flags().StringVar(&outlineCrucible, "crucible", "", "why nobody can walk away")

	outlineCmd.AddCommand(outlineSetCmd)
	outlineCmd.AddCommand(outlineShowCmd)
	rootCmd.AddCommand(outlineCmd)
}

func runOutlineSet(cmd *cobra.Command, args []string) error {
	if outlineProvider == nil {
		return errors.New("outline provider not configured")
	}

	outline := &domain.Outline{
		Goal:     outlineGoal,
		Conflict: outlineConflict,
		Outcome:  outlineOutcome,
		Clock:    outlineClock,
		Crucible: outlineCrucible,
	}
	if outline.Empty() {
		return errors.New("at least one outline field is required")
	}

	if err := outlineProvider.SetOutline(context.Background(), args[0], outline); err != nil {
		return fmt.Errorf("failed to set outline: %w", err)
	}

	cmd.Printf("Outline recorded for %s\n", args[0])
	return nil
}

func runOutlineShow(cmd *cobra.Command, args []string) error {
	if outlineProvider == nil {
		return errors.New("outline provider not configured")
	}

	outline, err := outlineProvider.GetOutline(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get outline: %w", err)
	}
	if outline.Empty() {
		cmd.Printf("No outline recorded for %s\n", args[0])
		return nil
	}

	cmd.Printf("Outline for %s:\n", args[0])
	printOutline(cmd, outline)
	return nil
}

// printOutline renders the non-empty outline fields.
func printOutline(cmd *cobra.Command, outline *domain.Outline) {
	if outline.Goal != "" {
		cmd.Printf("  Goal:     %s\n", outline.Goal)
	}
	if outline.Conflict != "" {
		cmd.Printf("  Conflict: %s\n", outline.Conflict)
	}
	if outline.Outcome != "" {
		cmd.Printf("  Outcome:  %s\n", outline.Outcome)
	}
	if outline.Clock != "" {
		cmd.Printf("  Clock:    %s\n", outline.Clock)
	}
	if outline.Crucible != "" {
		cmd.Printf("  Crucible: %s\n", outline.Crucible)
	}
}
