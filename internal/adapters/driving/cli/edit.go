package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/config/file"
	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driving/tui"
	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
)

var (
	editIntent string
	editQuery  string
	editMax    int
	editYes    bool
)

var editCmd = &cobra.Command{
	Use:   "edit [doc-id]",
	Short: "Run an agent-assisted edit workflow",
	Long: `Runs the full edit workflow: selects target blocks for the intent,
asks the configured language model to propose an edit batch, previews
it as a diff, and applies it only on confirmation.

Without --yes an interactive confirmation view shows the diff; nothing
is written until you accept it. Cancelling at any point before the
apply leaves the document untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editIntent, "intent", "i", string(domain.IntentTightenProse), "edit intent")
	editCmd.Flags().StringVarP(&editQuery, "query", "q", "", "custom instruction (required for --intent custom)")
	editCmd.Flags().IntVarP(&editMax, "max", "n", 5, "maximum blocks to target")
	editCmd.Flags().BoolVarP(&editYes, "yes", "y", false, "apply without interactive confirmation")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if workflowService == nil {
		return errors.New("workflow service not configured")
	}

	intent := domain.EditIntent(editIntent)
	if intent == domain.IntentCustom && strings.TrimSpace(editQuery) == "" {
		return errors.New("--intent custom requires --query")
	}

	// The configured cap applies unless --max was given explicitly.
	maxBlocks := editMax
	if !cmd.Flags().Changed("max") && configStore != nil {
		if n := configStore.GetInt(file.KeyMaxBlocks); n > 0 {
			maxBlocks = n
		}
	}

	ctx := context.Background()

	// Drain progress events to the terminal while the workflow runs.
	progress := make(chan driving.ProgressEvent, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			if ev.Total > 0 {
				cmd.Printf("  [%d/%d] %s\n", ev.Current, ev.Total, ev.Status)
			} else {
				cmd.Printf("  %s\n", ev.Status)
			}
		}
	}()

	proposal, err := workflowService.Propose(ctx, driving.EditRequest{
		DocID:       args[0],
		Intent:      intent,
		CustomQuery: editQuery,
		MaxBlocks:   maxBlocks,
		Progress:    progress,
	})
	close(progress)
	<-done
	if err != nil {
		return reportBatchFailure(cmd, err)
	}

	cmd.Println()
	if editYes {
		cmd.Println(proposal.Preview.DiffMarkup)
		return confirmEdit(cmd, ctx)
	}

	accepted, err := confirmInteractive(proposal)
	if err != nil {
		return err
	}
	if !accepted {
		if err := workflowService.Reject(); err != nil {
			return err
		}
		cmd.Println("Edit rejected; document unchanged.")
		return nil
	}
	return confirmEdit(cmd, ctx)
}

// confirmEdit commits the held proposal and reports the result.
func confirmEdit(cmd *cobra.Command, ctx context.Context) error {
	result, err := workflowService.Confirm(ctx)
	if err != nil {
		return reportBatchFailure(cmd, err)
	}
	cmd.Println("Edit applied.")
	printStats(cmd, result.Stats)
	cmd.Printf("New version: %s\n", result.NewVersion)
	return nil
}

// confirmInteractive runs the TUI confirmation view and reports the
// user's decision.
func confirmInteractive(proposal *driving.Proposal) (bool, error) {
	app := tui.NewConfirm(proposal)
	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation view failed: %w", err)
	}
	confirm, ok := final.(*tui.Confirm)
	if !ok {
		return false, errors.New("unexpected confirmation model")
	}
	return confirm.Accepted(), nil
}
