package dictionary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/kosh/internal/anki"
	"github.com/f3rmion/kosh/internal/lex"
	"github.com/f3rmion/kosh/internal/store"
)

func sample() []lex.Entry {
	return []lex.Entry{
		{ID: 0, Record: lex.Record{Word: "કમળ", Pronunciation: "kəməɭ", Transcription: "kamaḷ", PartOfSpeech: "n.", Gloss: "Lotus"}},
		{ID: 1, Record: lex.Record{Word: "કલમ", Pronunciation: "kələm", Transcription: "kalam", PartOfSpeech: "fem.", Gloss: "pen; clause"}},
		{ID: 2, Record: lex.Record{Word: "ખરું", Pronunciation: "kʰəɾũ", Transcription: "kharũ", PartOfSpeech: "adj.", Gloss: "true, lotus-like"}},
	}
}

func TestLookup(t *testing.T) {
	d := NewDictionary(sample())

	w, err := d.Lookup("1")
	require.NoError(t, err)
	assert.Equal(t, &Word{
		ID:          "1",
		Word:        "કલમ",
		IPA:         "kələm",
		IPAAlt:      "kalam",
		Definitions: []Definition{{POS: "fem.", Definition: "pen; clause"}},
	}, w)

	_, err = d.Lookup("42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	entries := make([]lex.Entry, 30)
	for i := range entries {
		entries[i] = lex.Entry{ID: i, Record: lex.Record{Word: fmt.Sprintf("w%d", i)}}
	}
	d := NewDictionary(entries)

	tests := []struct {
		name      string
		skip      int
		limit     int
		wantLen   int
		wantFirst string
	}{
		{"default limit", 0, 0, DefaultLimit, "0"},
		{"page", 10, 5, 5, "10"},
		{"tail", 28, 5, 2, "28"},
		{"negative skip", -3, 2, 2, "0"},
		{"past end", 30, 5, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.List(tt.skip, tt.limit)
			require.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got[0].ID)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	d := NewDictionary(sample())

	ids := func(ws []*Word) []string {
		var out []string
		for _, w := range ws {
			out = append(out, w.ID)
		}
		return out
	}

	assert.Equal(t, []string{"0", "2"}, ids(d.Search("lotus")), "gloss match is case-insensitive")
	assert.Equal(t, []string{"0", "1"}, ids(d.Search("ક")), "head word match")
	assert.Equal(t, []string{"1"}, ids(d.Search("  PEN ")))
	assert.Empty(t, d.Search("zzz"))
	assert.Empty(t, d.Search(""))
}

func TestDuplicateIDsReplaceInPlace(t *testing.T) {
	entries := append(sample(), lex.Entry{ID: 0, Record: lex.Record{Word: "નવું"}})
	d := NewDictionary(entries)

	assert.Equal(t, 3, d.Size())
	w, err := d.Lookup("0")
	require.NoError(t, err)
	assert.Equal(t, "નવું", w.Word)
	assert.Equal(t, "0", d.List(0, 1)[0].ID)
}

func TestLoadFromFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "data.json")
	require.NoError(t, store.WriteJSON(jsonPath, sample()))

	dbPath := filepath.Join(dir, "data.db")
	db, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.SaveRun(ctx, store.Run{ID: "r", Entries: sample()}))
	require.NoError(t, db.Close())

	apkgPath := filepath.Join(dir, "data.apkg")
	require.NoError(t, anki.WriteDeck(apkgPath, anki.DeckOptions{Name: "test"}, sample()))

	for _, path := range []string{jsonPath, dbPath, apkgPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			d, err := LoadFromFile(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, sample(), d.Entries())
		})
	}

	_, err = LoadFromFile(ctx, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadFromFileMissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := LoadFromFile(context.Background(), path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, path, "a missing database is not created")
}
