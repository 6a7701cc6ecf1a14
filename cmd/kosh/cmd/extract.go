package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/f3rmion/kosh/internal/classify"
	"github.com/f3rmion/kosh/internal/extract"
	"github.com/f3rmion/kosh/internal/lex"
	"github.com/f3rmion/kosh/internal/source"
	"github.com/f3rmion/kosh/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract <chars.jsonl>",
	Short: "Extract dictionary entries from a character dump",
	Long: `Read a JSON Lines character dump (one object per glyph with page, text,
fontname, size and non_stroking_color) and write the accepted entries as JSON.

Each character is classified by its font and color, consecutive characters of
a field are joined, and a new head word closes the previous entry. Entries
without a word, pronunciation, transcription and part of speech are dropped.
Entries missing only their transcription are listed as suspects.

Examples:
  kosh extract chars.jsonl
  kosh extract chars.jsonl -o dict.json --db dict.db
  kosh extract chars.jsonl --first 20 --last 20 --explain`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractOutput    string
	extractFirst     int
	extractLast      int
	extractProfile   string
	extractDB        string
	extractTolerance float64
	extractExplain   bool
)

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", DefaultDataFile, "JSON output path")
	extractCmd.Flags().IntVar(&extractFirst, "first", 0, "first page index, 0-based (default from profile)")
	extractCmd.Flags().IntVar(&extractLast, "last", 0, "last page index, inclusive; negative means through the end (default from profile)")
	extractCmd.Flags().StringVarP(&extractProfile, "profile", "p", "", "discriminator profile YAML (default is <config>/profile.yaml)")
	extractCmd.Flags().StringVar(&extractDB, "db", "", "also store the run in this SQLite database")
	extractCmd.Flags().Float64Var(&extractTolerance, "tolerance", 0, "per-channel color tolerance (default from profile)")
	extractCmd.Flags().BoolVar(&extractExplain, "explain", false, "print every character with its field and matching rule to stderr")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	input := args[0]

	profile, err := loadProfile(extractProfile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		profile.ColorTolerance = extractTolerance
	}
	if flags.Changed("first") {
		profile.FirstPage = extractFirst
	}
	if flags.Changed("last") {
		profile.LastPage = extractLast
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	src, err := source.OpenCharDump(input)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.With(slog.String("run_id", runID))
	log.Info("extracting",
		slog.String("source", input),
		slog.String("profile", profile.Name),
		slog.Int("characters", src.Len()),
	)

	opts := []extract.Option{extract.WithLogger(log)}
	if extractExplain {
		opts = append(opts, extract.WithTrace(explainTo(cmd.ErrOrStderr())))
	}

	rng := source.PageRange{First: profile.FirstPage, Last: profile.LastPage}
	res, err := extract.New(classify.FromProfile(profile), opts...).Run(ctx, src, rng)
	if err != nil {
		return err
	}

	if err := store.WriteJSON(extractOutput, res.Entries); err != nil {
		return err
	}

	if extractDB != "" {
		if err := saveRun(cmd, runID, input, res); err != nil {
			return err
		}
		log.Info("run stored", slog.String("db", extractDB))
	}

	printSummary(cmd.OutOrStdout(), extractOutput, res)
	return nil
}

func saveRun(cmd *cobra.Command, runID, input string, res *extract.Result) error {
	db, err := store.Open(extractDB)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.SaveRun(cmd.Context(), store.Run{
		ID:        runID,
		Source:    input,
		FirstPage: res.Range.First,
		LastPage:  res.Range.Last,
		Entries:   res.Entries,
		Suspects:  res.Suspects,
		CreatedAt: time.Now(),
	})
}

// explainTo writes one tab-separated line per character.
func explainTo(w io.Writer) extract.TraceFunc {
	return func(page int, ch lex.Character, tag lex.FieldTag, rule string) {
		if rule == "" {
			rule = "-"
		}
		color := "none"
		if ch.Color.Valid {
			color = fmt.Sprintf("%.3f,%.3f,%.3f", ch.Color.R, ch.Color.G, ch.Color.B)
		}
		fmt.Fprintf(w, "%d\t%q\t%s\t%.2f\t%s\t%s\t%s\n",
			page, ch.Text, ch.FontName, ch.FontSize, color, tag, rule)
	}
}

var (
	summaryLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#a8dadc")).Bold(true).Width(16)
	summaryValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1faee"))
	summaryWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	summaryMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// printSummary reports the accepted count, the suspect ids and their number.
func printSummary(w io.Writer, output string, res *extract.Result) {
	row := func(label, value string, style lipgloss.Style) {
		fmt.Fprintln(w, summaryLabel.Render(label)+style.Render(value))
	}

	s := res.Stats
	row("Pages", fmt.Sprintf("%s (%d)", res.Range, s.Pages), summaryValue)
	row("Characters", fmt.Sprintf("%d (%d unclassified)", s.Characters, s.ByTag[lex.Unclassified]), summaryValue)
	row("Candidates", fmt.Sprintf("%d (%d discarded)", s.Candidates, s.Discarded), summaryValue)
	row("Accepted", fmt.Sprintf("%d → %s", len(res.Entries), output), summaryValue)

	suspects := make([]string, len(res.Suspects))
	for i, id := range res.Suspects {
		suspects[i] = fmt.Sprint(id)
	}
	style := summaryValue
	if len(suspects) > 0 {
		style = summaryWarn
	}
	row("Suspects", "["+strings.Join(suspects, ", ")+"]", style)
	row("Suspect count", fmt.Sprint(len(res.Suspects)), style)
	fmt.Fprintln(w, summaryMuted.Render(fmt.Sprintf("done in %s", s.Duration.Round(time.Millisecond))))
}
