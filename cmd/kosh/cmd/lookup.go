package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/f3rmion/kosh/internal/dictionary"
	"github.com/f3rmion/kosh/internal/render"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [id|keyword]",
	Short: "Look up entries by id or keyword",
	Long: `Look up dictionary entries.

A numeric argument that names an entry prints that entry. Any other argument
searches head words and glosses, case-insensitively. With --list, entries are
listed in id order a page at a time.

Examples:
  kosh lookup 42
  kosh lookup lotus
  kosh lookup કમળ --format tsv
  kosh lookup --list --skip 100 --limit 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLookup,
}

var (
	lookupList   bool
	lookupSkip   int
	lookupLimit  int
	lookupFormat string
)

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolVarP(&lookupList, "list", "l", false, "list entries in id order")
	lookupCmd.Flags().IntVar(&lookupSkip, "skip", 0, "entries to skip when listing")
	lookupCmd.Flags().IntVar(&lookupLimit, "limit", dictionary.DefaultLimit, "entries per page when listing")
	lookupCmd.Flags().StringVarP(&lookupFormat, "format", "f", "plain", "output format: plain, markdown, tsv, json")
}

func runLookup(cmd *cobra.Command, args []string) error {
	if !lookupList && len(args) == 0 {
		return errors.New("give an id or keyword, or use --list")
	}

	dict, err := loadDictionary(cmd.Context(), dataFile(nil))
	if err != nil {
		return err
	}

	var words []*dictionary.Word
	switch {
	case lookupList:
		words = dict.List(lookupSkip, lookupLimit)
	default:
		query := args[0]
		if _, numErr := strconv.Atoi(query); numErr == nil {
			w, err := dict.Lookup(query)
			if err == nil {
				return printWords(cmd.OutOrStdout(), []*dictionary.Word{w}, lookupFormat)
			}
			if !errors.Is(err, dictionary.ErrNotFound) {
				return err
			}
		}
		words = dict.Search(query)
		if len(words) == 0 {
			return fmt.Errorf("%w: nothing matches %q", dictionary.ErrNotFound, query)
		}
	}

	return printWords(cmd.OutOrStdout(), words, lookupFormat)
}

// printWords writes words in one of the render formats or as JSON.
func printWords(w io.Writer, words []*dictionary.Word, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(words)
	}

	r, err := render.New(format)
	if err != nil {
		return err
	}
	out, err := r.RenderAll(words)
	if err != nil {
		return err
	}

	if format == "markdown" {
		fmt.Fprintln(w, render.MarkdownHeader)
	}
	if out != "" {
		fmt.Fprintln(w, out)
	}
	return nil
}
