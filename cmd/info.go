package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the database path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with prompt counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		categories, err := store.Categories()
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return outputJSON(cmd.OutOrStdout(), categories)
		}
		if len(categories) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No categories.")
			return nil
		}
		for _, c := range categories {
			fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", c.Count, c.Name)
		}
		return nil
	},
}

func init() {
	categoriesCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	rootCmd.AddCommand(whereCmd, categoriesCmd)
}
