package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/config/file"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change configuration stored in the TOML config file.

Known keys:
  llm.provider     - "anthropic" or "openai"
  llm.model        - model name for the provider
  llm.api_key_env  - environment variable holding the API key
  edit.max_blocks  - default retrieval cap for automated edits
  data.dir         - data directory for the document store`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingsKeys are the keys printed by show, in display order.
var settingsKeys = []string{
	file.KeyLLMProvider,
	file.KeyLLMModel,
	file.KeyLLMAPIKeyEnv,
	file.KeyMaxBlocks,
	file.KeyDataDir,
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	for _, key := range settingsKeys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-16s (not set)\n", key)
			continue
		}
		cmd.Printf("  %-16s %v\n", key, val)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Integers stay integers in the TOML file.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}
