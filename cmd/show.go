package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/promptlib/internal/db"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := getExisting(store, args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return outputJSON(cmd.OutOrStdout(), p)
		}
		printPrompt(cmd.OutOrStdout(), p)
		return nil
	},
}

func printPrompt(w io.Writer, p *db.Prompt) {
	fmt.Fprintf(w, "%s %s\n", favoriteMark(*p), p.Title)
	fmt.Fprintf(w, "id:        %s\n", p.ID)
	fmt.Fprintf(w, "status:    %s\n", p.Status)
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"category:  ", p.Category},
		{"author:    ", p.Author},
		{"language:  ", p.Language},
	} {
		if field.value != nil && *field.value != "" {
			fmt.Fprintf(w, "%s%s\n", field.name, *field.value)
		}
	}
	fmt.Fprintf(w, "created:   %s\n", p.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(w, "updated:   %s\n", p.UpdatedAt.Local().Format(time.DateTime))
	if p.LastUsedAt != nil {
		fmt.Fprintf(w, "last used: %s\n", p.LastUsedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(w, "\n%s\n", p.PromptText)
	if p.Notes != nil && *p.Notes != "" {
		fmt.Fprintf(w, "\nNotes:\n%s\n", *p.Notes)
	}
}

func init() {
	showCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}
