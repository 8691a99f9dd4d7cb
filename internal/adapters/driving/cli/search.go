package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/services"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the email index",
	Long: `Performs semantic search across the indexed email corpus.
The query is embedded and ranked against every index record by
cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	topK := searchTopK
	if topK <= 0 {
		topK = cfg.Index.TopK
	}

	svc := services.NewSearchService(indexStore, embedder)
	matches, err := svc.Search(cmd.Context(), query, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, matches)
	}
	return outputSearchTable(cmd, matches)
}

func outputSearchJSON(cmd *cobra.Command, matches []domain.Match) error {
	type result struct {
		ID         string  `json:"id"`
		Subject    string  `json:"subject,omitempty"`
		Preview    string  `json:"preview,omitempty"`
		Category   string  `json:"category"`
		Date       string  `json:"date,omitempty"`
		Similarity float64 `json:"similarity"`
	}
	results := make([]result, 0, len(matches))
	for _, m := range matches {
		results = append(results, result{
			ID:         m.Email.ID,
			Subject:    m.Email.Subject,
			Preview:    m.Email.Preview,
			Category:   string(m.Email.Category),
			Date:       m.Email.Date,
			Similarity: m.Similarity,
		})
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, matches []domain.Match) error {
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, m := range matches {
		subject := m.Email.Subject
		if subject == "" {
			subject = m.Email.ID
		}

		cmd.Printf("  [%d] %s (%.1f%%)\n", i+1, subject, m.Similarity*100)
		cmd.Printf("      Category: %s", m.Email.Category)
		if m.Email.Date != "" {
			cmd.Printf("  Date: %s", m.Email.Date)
		}
		cmd.Println()
		if m.Email.Preview != "" {
			cmd.Printf("      %s\n", m.Email.Preview)
		}
		cmd.Println()
	}
	return nil
}
