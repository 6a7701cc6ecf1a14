package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/f3rmion/kosh/internal/anki"
	"github.com/f3rmion/kosh/internal/dictionary"
	"github.com/f3rmion/kosh/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [data.json|data.db]",
	Short: "Convert a dictionary to another format",
	Long: `Export every entry of a dictionary file.

Formats:
  plain     aligned columns for reading
  markdown  a table
  tsv       one tab-separated line per entry
  json      the extract output format
  sqlite    a SQLite database (requires --output)
  anki      an Anki flashcard deck, one card per entry (requires --output)

Examples:
  kosh export --format tsv > dict.tsv
  kosh export dict.db --format json -o data.json
  kosh export data.json --format sqlite -o dict.db
  kosh export --format anki -o gujarati.apkg --deck "Gujarati Vocabulary"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
	exportDeck   string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "plain", "export format: plain, markdown, tsv, json, sqlite, anki")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default is stdout)")
	exportCmd.Flags().StringVar(&exportDeck, "deck", "Gujarati-English", "deck name for anki export")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := dataFile(args)

	dict, err := loadDictionary(ctx, path)
	if err != nil {
		return err
	}

	switch strings.ToLower(exportFormat) {
	case "sqlite", "db":
		if exportOutput == "" {
			return fmt.Errorf("--output is required for sqlite export")
		}
		return exportSQLite(ctx, dict, path, exportOutput)
	case "anki", "apkg":
		if exportOutput == "" {
			return fmt.Errorf("--output is required for anki export")
		}
		logger.Info("writing anki deck", "deck", exportDeck, "entries", dict.Size())
		return anki.WriteDeck(exportOutput, anki.DeckOptions{Name: exportDeck}, dict.Entries())
	case "json":
		if exportOutput != "" {
			return store.WriteJSON(exportOutput, dict.Entries())
		}
		return store.EncodeJSON(cmd.OutOrStdout(), dict.Entries())
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		if err := os.MkdirAll(filepath.Dir(exportOutput), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		out = f
	}

	bw := bufio.NewWriter(out)
	if err := printWords(bw, dict.List(0, dict.Size()), exportFormat); err != nil {
		return err
	}
	return bw.Flush()
}

// exportSQLite stores the dictionary as a new run so the database carries its provenance.
func exportSQLite(ctx context.Context, dict *dictionary.Dictionary, from, to string) error {
	db, err := store.Open(to)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.SaveRun(ctx, store.Run{
		ID:        uuid.NewString(),
		Source:    from,
		FirstPage: -1,
		LastPage:  -1,
		Entries:   dict.Entries(),
		CreatedAt: time.Now(),
	})
}
