package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/core/services"
)

var (
	indexCorpusDir string
	indexLimit     int
	indexAuthored  bool
	indexRate      float64
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the semantic email index",
	Long: `Walks the markdown email corpus, classifies each message,
embeds it and writes the line-delimited JSON index. The index file is
replaced atomically, so a running server keeps serving the previous
index until the build completes.

Queries must use the same embedding backend the index was built with.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexCorpusDir, "corpus", "", "corpus directory (default from config)")
	indexCmd.Flags().IntVar(&indexLimit, "limit", 0, "maximum number of emails to process (0 = all)")
	indexCmd.Flags().BoolVar(&indexAuthored, "authored", false, "only index emails written by the corpus owner")
	indexCmd.Flags().Float64Var(&indexRate, "rate", 0, "embedding requests per second (0 = config default)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	corpusDir := indexCorpusDir
	if corpusDir == "" {
		corpusDir = cfg.Paths.CorpusDir
	}
	if corpusDir == "" {
		return fmt.Errorf("no corpus directory: pass --corpus or set paths.corpus_dir in the config")
	}

	rate := indexRate
	if rate <= 0 {
		rate = cfg.Index.EmbedRatePerSec
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	builder := services.NewIndexService(embedder, indexStore, rate)
	stats, err := builder.Build(cmd.Context(), driving.IndexBuildOptions{
		CorpusDir:    corpusDir,
		Limit:        indexLimit,
		AuthoredOnly: indexAuthored,
	})
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Index build complete: %d embedded, %d failed, %d skipped (of %d processed).\n",
		stats.Embedded, stats.Failed, stats.Skipped, stats.Processed)
	cmd.Printf("Output: %s\n", indexStore.Path())
	return nil
}
