package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/kosh/internal/lex"
)

func sampleEntries() []lex.Entry {
	return []lex.Entry{
		{ID: 0, Record: lex.Record{Word: "ક", Pronunciation: "k", Transcription: "ə", PartOfSpeech: "noun", Gloss: "a letter"}},
		{ID: 1, Record: lex.Record{Word: "કમળ", Pronunciation: "kəməɭ", Transcription: "kamaḷ", PartOfSpeech: "n.", Gloss: "lotus <&> flower"}},
		{ID: 2, Record: lex.Record{Word: "ખ", Pronunciation: "kʰ", Transcription: "kha", PartOfSpeech: "noun"}},
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleEntries()[:1]))

	want := `{
    "0": [
        "ક",
        "k",
        "ə",
        "noun",
        "a letter"
    ]
}
`
	assert.Equal(t, want, buf.String())
}

func TestEncodeJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, nil))
	assert.Equal(t, "{}\n", buf.String())
}

func TestEncodeJSONNoEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleEntries()))
	assert.Contains(t, buf.String(), "કમળ")
	assert.Contains(t, buf.String(), "lotus <&> flower")
}

func TestEncodeJSONKeepsIDOrder(t *testing.T) {
	entries := make([]lex.Entry, 12)
	for i := range entries {
		entries[i] = lex.Entry{ID: i, Record: lex.Record{Word: "w"}}
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, entries))
	out := buf.String()
	assert.Less(t, strings.Index(out, `"2"`), strings.Index(out, `"10"`))
}

func TestWriteAndReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "data.json")

	require.NoError(t, WriteJSON(path, sampleEntries()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)

	// Rewriting the same entries is byte-identical.
	require.NoError(t, WriteJSON(path, got))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".data.json.*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files are cleaned up")
}

func TestWriteJSONEmptyPath(t *testing.T) {
	assert.ErrorIs(t, WriteJSON("", nil), ErrEmptyPath)
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []lex.Entry
		wantErr bool
	}{
		{
			name:  "file order preserved",
			input: `{"5": ["b","","","",""], "1": ["a","p","t","n","g"]}`,
			want: []lex.Entry{
				{ID: 5, Record: lex.Record{Word: "b"}},
				{ID: 1, Record: lex.Record{Word: "a", Pronunciation: "p", Transcription: "t", PartOfSpeech: "n", Gloss: "g"}},
			},
		},
		{
			name:  "short and long arrays",
			input: `{"0": ["a","p"], "1": ["a","p","t","n","g","extra"]}`,
			want: []lex.Entry{
				{ID: 0, Record: lex.Record{Word: "a", Pronunciation: "p"}},
				{ID: 1, Record: lex.Record{Word: "a", Pronunciation: "p", Transcription: "t", PartOfSpeech: "n", Gloss: "g"}},
			},
		},
		{name: "empty object", input: `{}`, want: nil},
		{name: "array", input: `[]`, wantErr: true},
		{name: "non integer key", input: `{"x": []}`, wantErr: true},
		{name: "non string values", input: `{"0": [1, 2]}`, wantErr: true},
		{name: "truncated", input: `{"0": ["a"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadJSONMissing(t *testing.T) {
	_, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "kosh.db"))
	require.NoError(t, err)
	defer db.Close()

	run := Run{
		ID:        "run-1",
		Source:    "chars.jsonl",
		FirstPage: 11,
		LastPage:  235,
		Entries:   sampleEntries(),
		Suspects:  []int{1, 1, 3},
		CreatedAt: time.Unix(1700000000, 0),
	}
	require.NoError(t, db.SaveRun(ctx, run))

	got, err := db.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)

	last, err := db.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", last.ID)
	assert.Equal(t, []int{1, 1, 3}, last.Suspects)
	assert.Equal(t, 11, last.FirstPage)
	assert.Equal(t, 235, last.LastPage)
}

func TestSQLiteSaveReplacesEntries(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "kosh.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.SaveRun(ctx, Run{ID: "a", Entries: sampleEntries(), CreatedAt: time.Unix(1, 0)}))
	require.NoError(t, db.SaveRun(ctx, Run{ID: "b", Entries: sampleEntries()[:1], CreatedAt: time.Unix(2, 0)}))

	got, err := db.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	last, err := db.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", last.ID)
	assert.Empty(t, last.Suspects)

	assert.Error(t, db.SaveRun(ctx, Run{ID: "b"}), "run ids are unique")
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}
