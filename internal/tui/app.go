package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/kosh/internal/clipboard"
	"github.com/f3rmion/kosh/internal/dictionary"
	"github.com/f3rmion/kosh/internal/tui/bigchar"
)

const (
	listWidth = 38
	bigCols   = 40
	bigRows   = 8
)

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// Model is the dictionary browser.
type Model struct {
	dict  *dictionary.Dictionary
	title string
	big   *bigchar.Renderer
	clip  func(string) error

	// Entries currently shown, all of them or the search results.
	words  []*dictionary.Word
	cursor int
	offset int

	searchInput textinput.Model
	searching   bool
	searchTerm  string

	status string
	err    error

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithBigChar sets the renderer for the enlarged head word. A nil renderer
// falls back to plain styled text.
func WithBigChar(r *bigchar.Renderer) Option {
	return func(m *Model) { m.big = r }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.clip = fn }
}

// New creates a browser over dict. title names the loaded file.
func New(dict *dictionary.Dictionary, title string, opts ...Option) Model {
	si := textinput.New()
	si.Placeholder = "word or gloss..."
	si.CharLimit = 64
	si.Width = 30

	m := Model{
		dict:        dict,
		title:       title,
		clip:        clipboard.Write,
		words:       dict.List(0, dict.Size()),
		searchInput: si,
		width:       100,
		height:      30,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the word under the cursor, or nil when the list is empty.
func (m Model) Selected() *dictionary.Word {
	if m.cursor < 0 || m.cursor >= len(m.words) {
		return nil
	}
	return m.words[m.cursor]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil

	case clearStatusMsg:
		m.status = ""
		m.err = nil
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.pageSize())
		case "pgdown", " ":
			m.move(m.pageSize())
		case "home", "g":
			m.move(-len(m.words))
		case "end", "G":
			m.move(len(m.words))
		case "/":
			m.searching = true
			m.searchInput.SetValue(m.searchTerm)
			m.searchInput.Focus()
			return m, textinput.Blink
		case "c":
			m.filter("")
		case "y":
			if w := m.Selected(); w != nil {
				return m, m.copyText(w.Word)
			}
		case "Y":
			if w := m.Selected(); w != nil {
				return m, m.copyText(summary(w))
			}
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.filter(m.searchInput.Value())
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) filter(term string) {
	m.searchTerm = strings.TrimSpace(term)
	if m.searchTerm == "" {
		m.words = m.dict.List(0, m.dict.Size())
	} else {
		m.words = m.dict.Search(m.searchTerm)
	}
	m.cursor = 0
	m.offset = 0
}

func (m *Model) copyText(s string) tea.Cmd {
	if err := m.clip(s); err != nil {
		m.err = err
		m.status = ""
	} else {
		m.err = nil
		m.status = "Copied!"
	}
	return clearStatusAfter(2 * time.Second)
}

func (m *Model) move(delta int) {
	if len(m.words) == 0 {
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.words)-1))
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

// pageSize is the number of list rows that fit: title, counter, search and help take six.
func (m Model) pageSize() int {
	return max(1, m.height-6)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("kosh"))
	b.WriteString(CountStyle.Render(fmt.Sprintf("%s · %d of %d entries", m.title, len(m.words), m.dict.Size())))
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(SearchBoxStyle.Render("Search: " + m.searchInput.View()))
	case m.searchTerm != "":
		b.WriteString(HelpStyle.Render(fmt.Sprintf("Filter: %q (press 'c' to clear)", m.searchTerm)))
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderDetail()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(CopiedStyle.Render(m.status))
	default:
		b.WriteString(HelpStyle.Render("↑/↓: move • /: search • c: clear • y: copy word • Y: copy entry • q: quit"))
	}

	return b.String()
}

func (m Model) renderList() string {
	if len(m.words) == 0 {
		return ListStyle.Width(listWidth).Render(EmptyStyle.Render("No entries"))
	}

	end := min(m.offset+m.pageSize(), len(m.words))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		w := m.words[i]
		id := runewidth.FillLeft(w.ID, 5)
		word := runewidth.FillRight(runewidth.Truncate(w.Word, 14, "…"), 14)
		gloss := ""
		if len(w.Definitions) > 0 {
			gloss = runewidth.Truncate(w.Definitions[0].Definition, listWidth-24, "…")
		}
		line := fmt.Sprintf("%s %s %s", id, word, gloss)

		if i == m.cursor {
			lines = append(lines, ItemActiveStyle.Render(runewidth.FillRight(line, listWidth-2)))
		} else {
			lines = append(lines, IDStyle.Render(id)+" "+ItemStyle.Render(word+" "+gloss))
		}
	}
	return ListStyle.Width(listWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetail() string {
	w := m.Selected()
	if w == nil {
		return ""
	}

	var b strings.Builder
	if art := m.big.Render(w.Word, bigCols, bigRows); art != "" {
		b.WriteString(BigWordStyle.Render(art))
	} else {
		b.WriteString(WordStyle.Render(w.Word))
	}
	b.WriteString("\n")

	row := func(label, value string, style lipgloss.Style) {
		if value == "" {
			return
		}
		b.WriteString(LabelStyle.Render(label))
		b.WriteString(style.Render(value))
		b.WriteString("\n")
	}
	row("ID", w.ID, IDStyle)
	row("Pronunciation", w.IPA, IPAStyle)
	row("Transcription", w.IPAAlt, TransStyle)
	for _, d := range w.Definitions {
		row("Part of speech", d.POS, POSStyle)
		width := max(20, m.width-listWidth-LabelStyle.GetWidth()-8)
		row("Gloss", d.Definition, GlossStyle.Width(width))
	}

	return DetailStyle.Render(b.String())
}

// summary is the text copied for a whole entry.
func summary(w *dictionary.Word) string {
	parts := []string{w.Word}
	if w.IPA != "" {
		parts = append(parts, "["+w.IPA+"]")
	}
	if w.IPAAlt != "" {
		parts = append(parts, w.IPAAlt)
	}
	for _, d := range w.Definitions {
		if d.POS != "" {
			parts = append(parts, d.POS)
		}
		if d.Definition != "" {
			parts = append(parts, d.Definition)
		}
	}
	return strings.Join(parts, " ")
}
