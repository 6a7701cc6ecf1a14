package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/f3rmion/kosh/internal/tui"
	"github.com/f3rmion/kosh/internal/tui/bigchar"
)

var browseCmd = &cobra.Command{
	Use:   "browse [data.json|data.db]",
	Short: "Browse a dictionary in the TUI",
	Long: `Browse extracted entries in an interactive terminal UI.

The selected head word is drawn large when a Gujarati font is installed
(Noto Sans Gujarati, Lohit Gujarati, Shruti, ...).

Controls:
  ↑/↓ or j/k    Move
  PgUp/PgDn     Page
  g/G           First/last entry
  /             Search head words and glosses
  c             Clear search
  y             Copy head word
  Y             Copy whole entry
  q or Esc      Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	path := dataFile(args)

	dict, err := loadDictionary(cmd.Context(), path)
	if err != nil {
		return err
	}

	big := bigchar.Default()
	if big == nil {
		logger.Debug("no Gujarati font found, head words shown as text")
	}
	logger.Info("browsing", slog.String("path", path), slog.Int("entries", dict.Size()))

	p := tea.NewProgram(
		tui.New(dict, filepath.Base(path), tui.WithBigChar(big)),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
