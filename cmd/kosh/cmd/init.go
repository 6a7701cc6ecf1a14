package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/kosh/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize kosh configuration",
	Long: `Write the default discriminator profile to your config directory.

The profile names the fonts and ink colors that tell the fields of an entry
apart, the color tolerance and the default page range. Edit it to extract
from a different printing of the dictionary.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.ProfileFile)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("profile already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.EnsureConfigDir(configDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := config.SaveProfile(path, config.DefaultProfile()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Dump the characters of the PDF to JSON Lines (page, text, fontname, size, non_stroking_color)")
	fmt.Fprintln(out, "  2. Run 'kosh extract chars.jsonl' to build data.json")
	fmt.Fprintln(out, "  3. Run 'kosh' to browse the result")

	return nil
}
