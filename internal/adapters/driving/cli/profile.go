package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/core/services"
)

var (
	profileCorpusDir string
	profileLimit     int
	profileOut       string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build the per-audience style profile",
	Long: `Aggregates writing statistics (greetings, closings, pronouns,
sentence rhythm) from the corpus owner's sent emails, grouped by
audience category, and writes the style profile document.`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileCorpusDir, "corpus", "", "corpus directory (default from config)")
	profileCmd.Flags().IntVar(&profileLimit, "limit", 0, "maximum number of emails to process (0 = all)")
	profileCmd.Flags().StringVar(&profileOut, "out", "", "output file (default from config)")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	corpusDir := profileCorpusDir
	if corpusDir == "" {
		corpusDir = cfg.Paths.CorpusDir
	}
	if corpusDir == "" {
		return fmt.Errorf("no corpus directory: pass --corpus or set paths.corpus_dir in the config")
	}

	outPath := profileOut
	if outPath == "" {
		outPath = cfg.Paths.ProfileFile
	}

	builder := services.NewProfileService(outPath)
	doc, err := builder.Build(cmd.Context(), driving.ProfileBuildOptions{
		CorpusDir: corpusDir,
		Limit:     profileLimit,
	})
	if err != nil {
		return fmt.Errorf("profile build failed: %w", err)
	}

	cmd.Printf("Style profile built from %d emails: %s\n", doc.EmailSampleSize, outPath)

	categories := make([]string, 0, len(doc.Categories))
	for category := range doc.Categories {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)
	for _, category := range categories {
		profile := doc.Categories[domain.AudienceCategory(category)]
		cmd.Printf("  %-11s %4d emails, avg %.0f words\n", category, profile.TotalEmails, profile.AvgWords)
	}
	return nil
}
