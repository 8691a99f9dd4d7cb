package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nklarmann/replyagent/internal/anonymiser"
)

var anonymiseShowMappings bool

var anonymiseCmd = &cobra.Command{
	Use:   "anonymise [file]",
	Short: "Replace personal data with placeholders",
	Long: `Replaces company names, person names, email addresses and phone
numbers in the given text with indexed placeholders. Reads from the
file argument or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnonymise,
}

func init() {
	anonymiseCmd.Flags().BoolVar(&anonymiseShowMappings, "show-mappings", false, "print the placeholder mapping table")
	rootCmd.AddCommand(anonymiseCmd)
}

func runAnonymise(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("no input text: pass a file argument or pipe text on stdin")
	}

	result := anonymiser.New().Anonymise(text)
	cmd.Println(result.AnonymisedText)

	if anonymiseShowMappings && len(result.Mappings) > 0 {
		cmd.Println()
		cmd.Println("Mappings:")
		for _, m := range result.Mappings {
			cmd.Printf("  %s = %s\n", m.Placeholder, m.OriginalValue)
		}
	}
	return nil
}
