// Package cli provides the cobra command tree for the Inkwell CLI.
// Commands call core services through the driving ports; wiring happens
// in cmd/inkwell via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/inkwell-labs/inkwell-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the entry point. Commands nil-check the ones
// they need so a partially wired binary degrades with a clear message.
var (
	documentService  driving.DocumentService
	editService      driving.EditService
	retrievalService driving.RetrievalService
	workflowService  driving.WorkflowService
	outlineProvider  driven.OutlineProvider
	configStore      driven.ConfigStore
)

// verboseFlag enables pipeline logging to stderr.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Block-versioned manuscript editing",
	Long: `Inkwell manages documents as hash-versioned text blocks and applies
edits as atomic batches with optimistic concurrency control.

Batches are validated against the document's base version and each
block's content hash; a conflicting batch is rejected whole, never
merged or partially applied.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
}

// Services aggregates everything the command tree needs.
type Services struct {
	Document  driving.DocumentService
	Edit      driving.EditService
	Retrieval driving.RetrievalService
	Workflow  driving.WorkflowService
	Outline   driven.OutlineProvider
	Config    driven.ConfigStore
}

// SetServices injects the core services. Call before Execute.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	documentService = s.Document
	editService = s.Edit
	retrievalService = s.Retrieval
	workflowService = s.Workflow
	outlineProvider = s.Outline
	configStore = s.Config
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
