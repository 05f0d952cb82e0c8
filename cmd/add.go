package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/promptlib/internal/db"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a prompt",
	Long:  "Add a prompt to the library. The prompt text is read from stdin when --text is not given. Without --title the first line of the text becomes the title.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		text, err := promptText(cmd)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("prompt text is empty")
		}

		input := db.PromptInput{PromptText: text}
		input.Title, _ = flags.GetString("title")
		if strings.TrimSpace(input.Title) == "" {
			input.Title = titleFromText(text, "Untitled")
		}
		input.Notes = optionalString(cmd, "notes")
		input.Author = optionalString(cmd, "author")
		input.Language = optionalString(cmd, "language")
		input.Category = optionalString(cmd, "category")
		input.Favorite, _ = flags.GetBool("favorite")
		input.Status, _ = flags.GetString("status")

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Create(input)
		if err != nil {
			return fmt.Errorf("failed to add prompt: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", p.ID)
		return nil
	},
}

// addPromptFlags registers the per-field flags shared by add and edit.
func addPromptFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "Prompt title")
	cmd.Flags().String("text", "", "Prompt text (\"-\" reads stdin)")
	cmd.Flags().String("notes", "", "Notes")
	cmd.Flags().String("author", "", "Author")
	cmd.Flags().String("language", "", "Language")
	cmd.Flags().StringP("category", "c", "", "Category")
	cmd.Flags().Bool("favorite", false, "Mark as favorite")
	cmd.Flags().StringP("status", "s", db.StatusDraft, "Status: draft, ready or archived")
}

// promptText returns --text, or stdin when the flag is absent or "-".
func promptText(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("text")
	if cmd.Flags().Changed("text") && text != "-" {
		return text, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read prompt text: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// titleFromText uses the first non-empty line of text, minus a leading
// "Title:" label, or fallback when nothing is left.
func titleFromText(text, fallback string) string {
	line := firstLine(text, 80)
	if len(line) >= 6 && strings.EqualFold(line[:6], "title:") {
		line = strings.TrimSpace(line[6:])
	}
	if line == "" {
		return fallback
	}
	return line
}

func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func init() {
	addPromptFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}
