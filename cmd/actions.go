package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete prompts",
	Long:    "Delete prompts by id. Ids that do not exist are ignored.",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range args {
			if err := store.Delete(id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", id)
		}
		return nil
	},
}

var dupCmd = &cobra.Command{
	Use:   "dup <id>",
	Short: "Duplicate a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Duplicate(args[0])
		if err != nil {
			return fmt.Errorf("failed to duplicate prompt: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Duplicated: %s (%s)\n", p.ID, p.Title)
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Print a prompt's text and mark it used",
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
		if err := store.MarkUsed(p.ID); err != nil {
			return fmt.Errorf("failed to mark prompt used: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.PromptText)
		return nil
	},
}

var favCmd = &cobra.Command{
	Use:   "fav <id>",
	Short: "Toggle a prompt's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.ToggleFavorite(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle favorite: %w", err)
		}
		if p.Favorite {
			fmt.Fprintf(cmd.OutOrStdout(), "★ %s\n", p.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "☆ %s\n", p.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd, dupCmd, useCmd, favCmd)
}
