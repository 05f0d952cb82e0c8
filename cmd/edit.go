package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/promptlib/internal/db"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a prompt",
	Long:  "Change the fields of a prompt. Only the flags given are applied.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		patch := db.PromptPatch{
			Title:    optionalString(cmd, "title"),
			Notes:    optionalString(cmd, "notes"),
			Author:   optionalString(cmd, "author"),
			Language: optionalString(cmd, "language"),
			Category: optionalString(cmd, "category"),
			Status:   optionalString(cmd, "status"),
		}
		if flags.Changed("text") {
			text, err := promptText(cmd)
			if err != nil {
				return err
			}
			patch.PromptText = &text
		}
		if flags.Changed("favorite") {
			favorite, _ := flags.GetBool("favorite")
			patch.Favorite = &favorite
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Update(args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to edit prompt: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s\n", p.ID)
		return nil
	},
}

func init() {
	addPromptFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}
