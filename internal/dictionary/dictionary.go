// Package dictionary serves lookups over extracted Gujarati dictionary entries.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/f3rmion/kosh/internal/anki"
	"github.com/f3rmion/kosh/internal/lex"
	"github.com/f3rmion/kosh/internal/store"
)

// DefaultLimit is the page size used when List is called with a non-positive limit.
const DefaultLimit = 25

// ErrNotFound is returned when an id has no entry.
var ErrNotFound = errors.New("word not found")

// Definition is one sense of a word.
type Definition struct {
	POS        string `json:"pos"` // e.g. "adj.", "masc.", "fem.", "neut."
	Definition string `json:"definition"`
}

// Word is the lookup view of an entry.
type Word struct {
	ID          string       `json:"id"`
	Word        string       `json:"word"`
	IPA         string       `json:"ipa,omitempty"`     // Red-ink pronunciation
	IPAAlt      string       `json:"ipa_alt,omitempty"` // Graphemic transcription
	Definitions []Definition `json:"definitions"`
}

// Dictionary holds all entries in id order.
type Dictionary struct {
	order   []string
	entries map[string]lex.Entry
}

// NewDictionary creates a dictionary over entries, keeping their order.
// A later entry with a duplicate id replaces the earlier one in place.
func NewDictionary(entries []lex.Entry) *Dictionary {
	d := &Dictionary{
		entries: make(map[string]lex.Entry, len(entries)),
	}
	for _, e := range entries {
		key := strconv.Itoa(e.ID)
		if _, seen := d.entries[key]; !seen {
			d.order = append(d.order, key)
		}
		d.entries[key] = e
	}
	return d
}

// LoadFromFile loads a dictionary from a JSON artifact, a SQLite store
// (.db, .sqlite, .sqlite3) or an Anki package written by export (.apkg).
func LoadFromFile(ctx context.Context, path string) (*Dictionary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		// Open would create a missing database.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		db, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		entries, err := db.Entries(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		return NewDictionary(entries), nil
	case ".apkg":
		entries, err := anki.ReadEntries(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		return NewDictionary(entries), nil
	default:
		entries, err := store.ReadJSON(path)
		if err != nil {
			return nil, err
		}
		return NewDictionary(entries), nil
	}
}

// Size returns the number of entries in the dictionary.
func (d *Dictionary) Size() int {
	return len(d.order)
}

// Lookup returns the word with the given id.
func (d *Dictionary) Lookup(id string) (*Word, error) {
	e, ok := d.entries[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return toWord(e), nil
}

// Entry returns the raw entry with the given id.
func (d *Dictionary) Entry(id string) (lex.Entry, bool) {
	e, ok := d.entries[id]
	return e, ok
}

// List returns up to limit words starting after skip.
func (d *Dictionary) List(skip, limit int) []*Word {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if skip >= len(d.order) {
		return nil
	}

	end := min(skip+limit, len(d.order))
	words := make([]*Word, 0, end-skip)
	for _, key := range d.order[skip:end] {
		words = append(words, toWord(d.entries[key]))
	}
	return words
}

// Search returns words whose head word or gloss contains keyword, case-insensitively.
func (d *Dictionary) Search(keyword string) []*Word {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return nil
	}

	var results []*Word
	for _, key := range d.order {
		e := d.entries[key]
		if strings.Contains(strings.ToLower(e.Record.Word), needle) ||
			strings.Contains(strings.ToLower(e.Record.Gloss), needle) {
			results = append(results, toWord(e))
		}
	}
	return results
}

// Entries returns all entries in order.
func (d *Dictionary) Entries() []lex.Entry {
	out := make([]lex.Entry, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.entries[key])
	}
	return out
}

func toWord(e lex.Entry) *Word {
	r := e.Record
	return &Word{
		ID:     strconv.Itoa(e.ID),
		Word:   r.Word,
		IPA:    r.Pronunciation,
		IPAAlt: r.Transcription,
		Definitions: []Definition{
			{POS: r.PartOfSpeech, Definition: r.Gloss},
		},
	}
}
