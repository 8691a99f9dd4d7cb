// Package cli implements the replyagent command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/nklarmann/replyagent/internal/adapters/driven/config/file"
	embeddingollama "github.com/nklarmann/replyagent/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/nklarmann/replyagent/internal/adapters/driven/embedding/openai"
	llmollama "github.com/nklarmann/replyagent/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/nklarmann/replyagent/internal/adapters/driven/llm/openai"
	"github.com/nklarmann/replyagent/internal/core/ports/driven"
	"github.com/nklarmann/replyagent/internal/index"
	"github.com/nklarmann/replyagent/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose      bool
	configPath   string
	embedBackend string

	cfg        *configfile.Config
	indexStore *index.Store
)

var rootCmd = &cobra.Command{
	Use:   "replyagent",
	Short: "Email reply drafting assistant",
	Long: `replyagent drafts email replies in Noah Klarmann's voice.

It builds a semantic index and a per-audience style profile from a
markdown email corpus, retrieves similar past correspondence for an
incoming message, and generates a styled reply draft with a local or
cloud language model. Text sent to a cloud backend is anonymised
first and the reply mapped back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		path := configPath
		if path == "" {
			var err error
			path, err = configfile.DefaultPath()
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
		}

		var err error
		cfg, err = configfile.Load(path)
		if err != nil {
			return err
		}

		indexStore = index.NewStore(cfg.Paths.IndexFile)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.replyagent/config.toml)")
	rootCmd.PersistentFlags().StringVar(&embedBackend, "embed-backend", "ollama", "embedding backend (ollama or openai)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newEmbedder builds the embedding service for the selected backend.
func newEmbedder() (driven.EmbeddingService, error) {
	switch embedBackend {
	case "", "ollama":
		return embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: cfg.Ollama.Endpoint,
			Model:   cfg.Ollama.EmbedModel,
		}), nil
	case "openai":
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey: cfg.OpenAI.APIKey,
		})
	default:
		return nil, fmt.Errorf("unknown embedding backend %q (expected ollama or openai)", embedBackend)
	}
}

// newLLM builds the generation service for the chosen backend.
func newLLM(backend string) (driven.LLMService, error) {
	switch backend {
	case "", "ollama":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.Ollama.Endpoint,
			Model:   cfg.Ollama.FastModel,
		}), nil
	case "ollama-strong":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.Ollama.Endpoint,
			Model:   cfg.Ollama.StrongModel,
		}), nil
	case "openai":
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey: cfg.OpenAI.APIKey,
			Model:  cfg.OpenAI.ChatModel,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q (expected ollama, ollama-strong or openai)", backend)
	}
}
