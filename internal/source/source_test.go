package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/kosh/internal/lex"
)

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chars.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestOpenCharDump(t *testing.T) {
	path := writeDump(t, `{"page": 11, "text": "ક", "fontname": "LPDJPP+HitarthGujPrachiNormal", "size": 10.02, "non_stroking_color": [0, 0, 0]}
{"page": 11, "text": "k", "fontname": "LPDDKK+TimesNewRoman", "size": 9, "non_stroking_color": [1, 0, 0]}

{"page": 13, "text": "n", "fontname": "LPDDKK+TimesNewRoman", "size": 9, "non_stroking_color": null}
{"page": 13, "text": "g", "fontname": "LPDDKK+TimesNewRoman", "size": 9, "non_stroking_color": 0}
{"page": 13, "text": "c", "fontname": "LPDDKK+TimesNewRoman", "size": 9, "non_stroking_color": [0, 0, 0, 1]}
{"page": 13, "text": "x", "fontname": "LPDDKK+TimesNewRoman", "size": 9}
`)

	d, err := OpenCharDump(path)
	require.NoError(t, err)
	assert.Equal(t, 6, d.Len())

	first, last := d.Pages()
	assert.Equal(t, 11, first)
	assert.Equal(t, 13, last)

	ctx := context.Background()
	p11, err := d.Page(ctx, 11)
	require.NoError(t, err)
	require.Len(t, p11, 2)
	assert.Equal(t, lex.Character{
		Text:     "ક",
		FontName: "LPDJPP+HitarthGujPrachiNormal",
		FontSize: 10.02,
		Color:    lex.RGB(0, 0, 0),
	}, p11[0])
	assert.Equal(t, lex.RGB(1, 0, 0), p11[1].Color)

	p12, err := d.Page(ctx, 12)
	require.NoError(t, err)
	assert.Empty(t, p12)

	p13, err := d.Page(ctx, 13)
	require.NoError(t, err)
	require.Len(t, p13, 4)
	for _, ch := range p13 {
		assert.False(t, ch.Color.Valid, "color of %q should be invalid", ch.Text)
	}

	_, err = d.Page(ctx, 14)
	assert.ErrorIs(t, err, ErrPageRange)
}

func TestOpenCharDumpMissingFile(t *testing.T) {
	_, err := OpenCharDump(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCharDumpMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad json", "{\"page\": 1, \"text\": \"a\"\n"},
		{"bad color", `{"page": 1, "text": "a", "non_stroking_color": "red"}` + "\n"},
		{"negative page", `{"page": -2, "text": "a"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenCharDump(writeDump(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), ":1:")
		})
	}
}

func TestEmptyDump(t *testing.T) {
	d, err := OpenCharDump(writeDump(t, "\n"))
	require.NoError(t, err)

	_, err = All.Resolve(d)
	assert.ErrorIs(t, err, ErrPageRange)
}

func TestPageRangeResolve(t *testing.T) {
	src := NewSlice(5, nil, nil, nil, nil) // pages 5..8

	tests := []struct {
		name    string
		in      PageRange
		want    PageRange
		wantErr bool
	}{
		{"all", All, PageRange{5, 8}, false},
		{"open end", PageRange{6, -1}, PageRange{6, 8}, false},
		{"open start", PageRange{-1, 6}, PageRange{5, 6}, false},
		{"exact", PageRange{5, 8}, PageRange{5, 8}, false},
		{"single page", PageRange{7, 7}, PageRange{7, 7}, false},
		{"before start", PageRange{4, 8}, PageRange{}, true},
		{"past end", PageRange{5, 9}, PageRange{}, true},
		{"inverted", PageRange{7, 6}, PageRange{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Resolve(src)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPageRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSliceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSlice(0, nil).Page(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
