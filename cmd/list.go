package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/promptlib/internal/db"
)

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls", "search"},
	Short:   "List prompts",
	Long:    "List prompts, optionally matching a query against title, text and notes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		flags := cmd.Flags()
		filter := db.Filter{Query: strings.Join(args, " ")}
		filter.Status, _ = flags.GetString("status")
		filter.FavoriteOnly, _ = flags.GetBool("favorites")
		filter.Sort = cfg.DefaultSort
		if flags.Changed("sort") {
			filter.Sort, _ = flags.GetString("sort")
		}
		if flags.Changed("category") {
			category, _ := flags.GetString("category")
			filter.Category = &category
		}

		results, err := store.List(filter)
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := flags.GetBool("json"); asJSON {
			return outputJSON(out, results)
		}
		if plain, _ := flags.GetBool("plaintext"); plain {
			return outputPlaintext(out, results)
		}
		return outputDefault(out, results)
	},
}

func outputPlaintext(w io.Writer, results []db.Prompt) error {
	for _, p := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Status, deref(p.Category), p.Title)
	}
	return nil
}

func outputDefault(w io.Writer, results []db.Prompt) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No prompts found.")
		return nil
	}
	for i, p := range results {
		fmt.Fprintf(w, "%d. %s %s %s\n", i+1, favoriteMark(p), statusIcon(p.Status), p.Title)
		fmt.Fprintf(w, "   %s", p.ID)
		if p.Category != nil {
			fmt.Fprintf(w, " · %s", *p.Category)
		}
		fmt.Fprintln(w)
		if line := firstLine(p.PromptText, 100); line != "" {
			fmt.Fprintf(w, "   %s\n", line)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func statusIcon(status string) string {
	switch status {
	case db.StatusDraft:
		return "[D]"
	case db.StatusReady:
		return "[R]"
	case db.StatusArchived:
		return "[A]"
	default:
		return "[?]"
	}
}

func init() {
	listCmd.Flags().StringP("category", "c", "", "Only prompts in this category")
	listCmd.Flags().StringP("status", "s", db.StatusAll, "Status filter: draft, ready, archived or all")
	listCmd.Flags().BoolP("favorites", "f", false, "Only favorites")
	listCmd.Flags().String("sort", "", "Sort: newest, recent or favorites (default from config)")
	listCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	listCmd.Flags().BoolP("plaintext", "p", false, "Output as tab-separated plaintext")
	rootCmd.AddCommand(listCmd)
}
