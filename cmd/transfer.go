package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/promptlib/internal/codec"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every prompt",
	Long:  "Write every prompt to stdout or a file as JSON (default) or YAML.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		c, err := codec.For(transferFormat(cmd, output))
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prompts, err := store.Export()
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if output == "" || output == "-" {
			return c.Export(prompts, cmd.OutOrStdout())
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		if err := c.Export(prompts, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d prompts to %s\n", len(prompts), output)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import prompts",
	Long:  "Import prompts from a JSON or YAML export (\"-\" reads stdin). Records with a known id replace the stored prompt.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c, err := codec.For(transferFormat(cmd, path))
		if err != nil {
			return err
		}

		var r io.Reader = cmd.InOrStdin()
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()
			r = f
		}

		records, err := c.Parse(r)
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Import(records)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d prompts\n", n)
		return nil
	},
}

// transferFormat is --format when given, otherwise guessed from path.
func transferFormat(cmd *cobra.Command, path string) string {
	if cmd.Flags().Changed("format") {
		format, _ := cmd.Flags().GetString("format")
		return format
	}
	return codec.FormatFromPath(path)
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "Format: json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	importCmd.Flags().StringP("format", "f", "json", "Format: json or yaml")
	rootCmd.AddCommand(exportCmd, importCmd)
}
