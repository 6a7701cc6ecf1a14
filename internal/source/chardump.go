package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/f3rmion/kosh/internal/lex"
)

// dumpChar is one line of a character dump, using pdfplumber's field names.
type dumpChar struct {
	Page     int             `json:"page"` // Zero-based page index
	Text     string          `json:"text"`
	FontName string          `json:"fontname"`
	Size     float64         `json:"size"`
	Color    json.RawMessage `json:"non_stroking_color"`
}

// CharDump serves pages from a JSON Lines character dump.
type CharDump struct {
	path  string
	pages map[int][]lex.Character
	first int
	last  int
	count int
}

// OpenCharDump reads a character dump file. Lines must be grouped in stream
// order; characters of the same page keep their relative order.
func OpenCharDump(path string) (*CharDump, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening character dump: %w", err)
	}
	defer file.Close()

	d := &CharDump{
		path:  path,
		pages: make(map[int][]lex.Character),
		first: 0,
		last:  -1,
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var dc dumpChar
		if err := json.Unmarshal(line, &dc); err != nil {
			return nil, fmt.Errorf("%s:%d: parsing character: %w", path, lineNum, err)
		}
		if dc.Page < 0 {
			return nil, fmt.Errorf("%s:%d: negative page %d", path, lineNum, dc.Page)
		}

		color, err := parseColor(dc.Color)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}

		d.add(dc.Page, lex.Character{
			Text:     dc.Text,
			FontName: dc.FontName,
			FontSize: dc.Size,
			Color:    color,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading character dump: %w", err)
	}

	return d, nil
}

func (d *CharDump) add(page int, ch lex.Character) {
	if d.count == 0 || page < d.first {
		d.first = page
	}
	if d.count == 0 || page > d.last {
		d.last = page
	}
	d.pages[page] = append(d.pages[page], ch)
	d.count++
}

// parseColor accepts a component array, a bare gray number or null.
// Only three-component arrays produce a valid color.
func parseColor(raw json.RawMessage) (lex.Color, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return lex.Color{}, nil
	}
	if raw[0] != '[' {
		var gray float64
		if err := json.Unmarshal(raw, &gray); err != nil {
			return lex.Color{}, fmt.Errorf("parsing color %s: %w", raw, err)
		}
		return lex.Color{}, nil
	}
	var comps []float64
	if err := json.Unmarshal(raw, &comps); err != nil {
		return lex.Color{}, fmt.Errorf("parsing color %s: %w", raw, err)
	}
	return lex.ColorFromComponents(comps), nil
}

// Pages returns the lowest and highest page index present in the dump.
func (d *CharDump) Pages() (int, int) {
	return d.first, d.last
}

// Page returns the characters of page n. Pages inside the dump's range
// without any characters are empty, not an error.
func (d *CharDump) Page(ctx context.Context, n int) ([]lex.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < d.first || n > d.last {
		return nil, fmt.Errorf("%w: page %d not in %s", ErrPageRange, n, d.path)
	}
	return d.pages[n], nil
}

// Len returns the total number of characters in the dump.
func (d *CharDump) Len() int {
	return d.count
}
