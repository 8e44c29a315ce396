// Package main is the entry point for the Inkwell CLI.
package main

import (
	"fmt"
	"os"

	configfile "github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/config/file"
	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/llm/anthropic"
	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/llm/openai"
	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driven/storage/sqlite"
	"github.com/inkwell-labs/inkwell-cli/internal/adapters/driving/cli"
	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/inkwell-labs/inkwell-cli/internal/core/services"
)

// version is set via ldflags during build.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	store, err := sqlite.NewStore(config.GetString(configfile.KeyDataDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open store: %v\n", err)
		return 1
	}
	defer store.Close() //nolint:errcheck

	docStore := store.DocumentStore()
	outlines := store.OutlineStore()
	index := store.SearchIndex()

	// The LLM is optional: without one, retrieval and manual batches
	// still work and only the agent workflow is disabled.
	llm := buildLLM(config)
	if llm != nil {
		defer llm.Close() //nolint:errcheck
	}

	documents := services.NewDocumentService(docStore)
	engine := services.NewEngine(docStore)
	retrieval := services.NewRetrievalService(docStore, index, outlines)
	workflow := services.NewOrchestrator(retrieval, engine, llm)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Document:  documents,
		Edit:      engine,
		Retrieval: retrieval,
		Workflow:  workflow,
		Outline:   outlines,
		Config:    config,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// buildLLM constructs the configured LLM service, or nil when no
// provider or API key is configured.
func buildLLM(config driven.ConfigStore) driven.LLMService {
	provider := config.GetString(configfile.KeyLLMProvider)
	if provider == "" {
		return nil
	}

	keyEnv := config.GetString(configfile.KeyLLMAPIKeyEnv)
	if keyEnv == "" {
		keyEnv = defaultKeyEnv(provider)
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "Warning: %s not set; agent editing disabled\n", keyEnv)
		return nil
	}

	model := config.GetString(configfile.KeyLLMModel)

	switch provider {
	case "anthropic":
		svc, err := anthropic.NewLLMService(anthropic.Config{APIKey: apiKey, Model: model})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; agent editing disabled\n", err)
			return nil
		}
		return svc
	case "openai":
		svc, err := openai.NewLLMService(openai.Config{APIKey: apiKey, Model: model})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; agent editing disabled\n", err)
			return nil
		}
		return svc
	default:
		fmt.Fprintf(os.Stderr, "Warning: unknown llm.provider %q; agent editing disabled\n", provider)
		return nil
	}
}

// defaultKeyEnv maps a provider to its conventional API key variable.
func defaultKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
