// Package render formats dictionary words for terminal and file output.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/kosh/internal/dictionary"
)

// Renderer executes a word template.
type Renderer struct {
	template *template.Template
}

var funcs = template.FuncMap{
	// pad fills s with spaces up to w terminal cells; Gujarati vowel signs take no width.
	"pad": func(w int, s string) string { return runewidth.FillRight(s, w) },
	"trunc": func(w int, s string) string {
		return runewidth.Truncate(s, w, "…")
	},
	"tsv": func(s string) string {
		return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
	},
	"md": func(s string) string {
		return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
	},
}

// New creates a renderer using one of the built-in formats.
func New(format string) (*Renderer, error) {
	tmpl, ok := Formats[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(FormatNames(), ", "))
	}
	return Parse(tmpl)
}

// Parse creates a renderer from a custom template. The template receives a *dictionary.Word.
func Parse(tmpl string) (*Renderer, error) {
	t, err := template.New("word").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &Renderer{template: t}, nil
}

// Render formats a single word.
func (r *Renderer) Render(w *dictionary.Word) (string, error) {
	var buf bytes.Buffer
	if err := r.template.Execute(&buf, w); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// RenderAll formats words one per block, separated by newlines.
func (r *Renderer) RenderAll(words []*dictionary.Word) (string, error) {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		s, err := r.Render(w)
		if err != nil {
			return "", fmt.Errorf("rendering word %s: %w", w.ID, err)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

// FormatNames lists the built-in formats in a stable order.
func FormatNames() []string {
	return []string{"plain", "markdown", "tsv"}
}

// Formats maps format names to templates.
var Formats = map[string]string{
	"plain":    PlainTemplate,
	"markdown": MarkdownTemplate,
	"tsv":      TSVTemplate,
}

// PlainTemplate lines words up in columns for the terminal.
const PlainTemplate = `{{ pad 6 .ID }}{{ pad 16 .Word }}{{ pad 18 (trunc 16 .IPA) }}{{ pad 18 (trunc 16 .IPAAlt) }}
{{- range .Definitions }}{{ pad 8 .POS }}{{ .Definition }}{{ end }}`

// MarkdownTemplate renders a table row; pair it with MarkdownHeader.
const MarkdownTemplate = `| {{ .ID }} | {{ md .Word }} | {{ md .IPA }} | {{ md .IPAAlt }} |
{{- range .Definitions }} {{ md .POS }} | {{ md .Definition }} |{{ end }}`

// MarkdownHeader is the table header for MarkdownTemplate.
const MarkdownHeader = `| id | word | pronunciation | transcription | pos | gloss |
|---|---|---|---|---|---|`

// TSVTemplate renders one tab-separated line per word.
const TSVTemplate = `{{ .ID }}	{{ tsv .Word }}	{{ tsv .IPA }}	{{ tsv .IPAAlt }}
{{- range .Definitions }}	{{ tsv .POS }}	{{ tsv .Definition }}{{ end }}`
