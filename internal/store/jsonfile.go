// Package store persists extracted dictionary entries.
//
// The primary artifact is a JSON object keyed by stringified ids, each value
// a five-element array [word, pronunciation, transcription, part_of_speech, gloss].
// A SQLite database holds the same entries plus the suspect list of each run.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/f3rmion/kosh/internal/lex"
)

// ErrEmptyPath is returned when an output path is blank.
var ErrEmptyPath = errors.New("empty output path")

// EncodeJSON writes entries as an ordered, indented JSON object.
// Non-ASCII text is written as UTF-8 and HTML characters are not escaped.
func EncodeJSON(w io.Writer, entries []lex.Entry) error {
	var compact bytes.Buffer
	enc := json.NewEncoder(&compact)
	enc.SetEscapeHTML(false)

	compact.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			compact.WriteByte(',')
		}
		if err := enc.Encode(strconv.Itoa(e.ID)); err != nil {
			return fmt.Errorf("encoding id %d: %w", e.ID, err)
		}
		compact.WriteByte(':')
		fields := e.Record.Fields()
		if err := enc.Encode(fields[:]); err != nil {
			return fmt.Errorf("encoding entry %d: %w", e.ID, err)
		}
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return fmt.Errorf("indenting output: %w", err)
	}
	out.WriteByte('\n')

	_, err := w.Write(out.Bytes())
	return err
}

// WriteJSON writes entries to path, replacing any existing file atomically.
func WriteJSON(path string, entries []lex.Entry) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := EncodeJSON(tmp, entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}

// DecodeJSON reads entries from the JSON artifact, keeping file order.
// Arrays shorter than five elements leave the missing fields empty.
func DecodeJSON(r io.Reader) ([]lex.Entry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("reading entries: expected object, got %v", tok)
	}

	var entries []lex.Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading entry key: %w", err)
		}
		key, _ := tok.(string)
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("entry key %q is not an integer id", key)
		}

		var values []string
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("reading entry %d: %w", id, err)
		}
		if len(values) > 5 {
			values = values[:5]
		}
		var fields [5]string
		copy(fields[:], values)
		entries = append(entries, lex.Entry{ID: id, Record: lex.RecordFromFields(fields)})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}

	return entries, nil
}

// ReadJSON loads entries from a JSON artifact on disk.
func ReadJSON(path string) ([]lex.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer file.Close()

	return DecodeJSON(file)
}
