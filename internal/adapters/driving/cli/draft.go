package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nklarmann/replyagent/internal/classifier"
	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
	"github.com/nklarmann/replyagent/internal/core/services"
	"github.com/nklarmann/replyagent/internal/logger"
	"github.com/nklarmann/replyagent/internal/style"
)

var (
	draftEmailFile string
	draftIntent    string
	draftMode      string
	draftBackend   string
	draftLanguage  string
	draftSalute    string
	draftCategory  string
	draftNoStyle   bool
	draftShowSrc   bool
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a reply to an email",
	Long: `Drafts a reply to an incoming email. The email text is read from
--email-file or from stdin; --intent states what the reply should say.
In the default rag mode the prompt is augmented with similar past
correspondence from the index; vanilla mode drafts from the email and
intent alone.`,
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().StringVar(&draftEmailFile, "email-file", "", "file containing the incoming email (default: stdin)")
	draftCmd.Flags().StringVarP(&draftIntent, "intent", "i", "", "what the reply should say (required)")
	draftCmd.Flags().StringVar(&draftMode, "mode", string(driving.ModeRetrieval), "drafting mode: rag or vanilla")
	draftCmd.Flags().StringVar(&draftBackend, "backend", "", "generation backend: ollama, ollama-strong or openai")
	draftCmd.Flags().StringVar(&draftLanguage, "language", "", "force reply language: de or en")
	draftCmd.Flags().StringVar(&draftSalute, "salutation", "", "force the exact opening salutation")
	draftCmd.Flags().StringVar(&draftCategory, "category", "", "audience category for style guidance (students, colleagues, industry)")
	draftCmd.Flags().BoolVar(&draftNoStyle, "no-style", false, "draft without style guidance")
	draftCmd.Flags().BoolVar(&draftShowSrc, "show-sources", false, "print the retrieved context emails")
	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(draftIntent) == "" {
		return errors.New("no intent: pass --intent to state what the reply should say")
	}

	email, err := readEmailInput(cmd)
	if err != nil {
		return err
	}

	llm, err := newLLM(draftBackend)
	if err != nil {
		return err
	}
	defer llm.Close()

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close()

	req := driving.DraftRequest{
		Email:              email,
		Intent:             draftIntent,
		Mode:               driving.DraftMode(draftMode),
		Backend:            draftBackend,
		Language:           draftLanguage,
		EnforcedSalutation: draftSalute,
	}
	if !draftNoStyle {
		req.StyleGuidance = loadStyleGuidance(email)
	}

	search := services.NewSearchService(indexStore, embedder)
	svc := services.NewDraftService(search, llm)

	result, err := svc.Draft(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("draft failed: %w", err)
	}

	if draftShowSrc && len(result.Sources) > 0 {
		cmd.Println("Context:")
		for i, m := range result.Sources {
			subject := m.Email.Subject
			if subject == "" {
				subject = m.Email.ID
			}
			cmd.Printf("  [%d] %s (%.1f%%)\n", i+1, subject, m.Similarity*100)
		}
		cmd.Println()
	}

	cmd.Println(result.Text)
	return nil
}

// readEmailInput reads the incoming email from --email-file or stdin.
func readEmailInput(cmd *cobra.Command) (string, error) {
	if draftEmailFile != "" {
		data, err := os.ReadFile(draftEmailFile)
		if err != nil {
			return "", fmt.Errorf("failed to read email file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read email from stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no email text: pass --email-file or pipe the email on stdin")
	}
	return string(data), nil
}

// loadStyleGuidance resolves the audience category and builds style
// guidance from the profile document. A missing profile degrades to
// guidance built from category defaults alone.
func loadStyleGuidance(email string) *domain.StyleGuidance {
	category := domain.AudienceCategory(draftCategory)
	if !category.Valid() {
		category = classifier.ClassifyText(email)
	}

	doc, err := services.LoadProfile(cfg.Paths.ProfileFile)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to load style profile: %v", err)
		}
		doc = nil
	}

	guidance := style.Guidance(category, doc)
	return &guidance
}
