// Package anki reads and writes Anki .apkg flashcard packages.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/f3rmion/kosh/internal/lex"
)

// ErrNoDictionaryModel is returned when a package has no note type with
// the fields of a dictionary entry.
var ErrNoDictionaryModel = errors.New("no dictionary note type in package")

// Package is an opened .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   []*Card
}

// Model is an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
	CSS    string  `json:"css"`
	Type   int     `json:"type"` // 0 = standard, 1 = cloze
}

// Field is one field of a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`
}

// Deck is an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Note is one Anki note; its fields are HTML.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	Tags    string
	Fields  []string
	SFLD    string
	CSum    int64
}

// Card is one scheduled card of a note.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Ord    int
	Due    int
}

// OpenPackage opens an .apkg file for reading. Close removes its temp files.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
		Decks:  make(map[int64]*Deck),
	}

	tempDir, err := os.MkdirTemp("", "kosh-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath := filepath.Join(tempDir, collectionFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = filepath.Join(tempDir, "collection.anki21")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening collection: %w", err)
	}
	pkg.db = db

	for _, load := range []func() error{pkg.loadCollection, pkg.loadNotes, pkg.loadCards} {
		if err := load(); err != nil {
			pkg.Close()
			return nil, err
		}
	}

	return pkg, nil
}

// extract unzips the package into the temp directory.
func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)

		// Prevent zip slip
		if !strings.HasPrefix(fpath, filepath.Clean(p.tempDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return err
		}
		if err := extractFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// loadCollection loads note types and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]*Model
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, m := range modelsMap {
		p.Models[m.ID] = m
	}

	var decksMap map[string]*Deck
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, d := range decksMap {
		p.Decks[d.ID] = d
	}

	return nil
}

func (p *Package) loadNotes() error {
	rows, err := p.db.Query("SELECT id, guid, mid, mod, tags, flds, sfld, csum FROM notes ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n Note
		var flds string
		if err := rows.Scan(&n.ID, &n.GUID, &n.ModelID, &n.Mod, &n.Tags, &flds, &n.SFLD, &n.CSum); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		n.Fields = strings.Split(flds, fieldSep)
		p.Notes = append(p.Notes, &n)
	}

	return rows.Err()
}

func (p *Package) loadCards() error {
	rows, err := p.db.Query("SELECT id, nid, did, ord, due FROM cards ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.NoteID, &c.DeckID, &c.Ord, &c.Due); err != nil {
			return fmt.Errorf("scanning card: %w", err)
		}
		p.Cards = append(p.Cards, &c)
	}

	return rows.Err()
}

// FieldValue returns a note field by name, HTML-decoded.
func (p *Package) FieldValue(note *Note, name string) (string, bool) {
	model := p.Models[note.ModelID]
	if model == nil {
		return "", false
	}
	for _, f := range model.Fields {
		if strings.EqualFold(f.Name, name) && f.Ord < len(note.Fields) {
			return html.UnescapeString(note.Fields[f.Ord]), true
		}
	}
	return "", false
}

// Entries returns the notes of the dictionary note type as entries, in note order.
// Notes without an ID field are numbered after the highest id seen.
func (p *Package) Entries() ([]lex.Entry, error) {
	var entries []lex.Entry
	next := 0
	found := false

	for _, n := range p.Notes {
		var vals [5]string
		ok := true
		for i, name := range entryFields {
			v, has := p.FieldValue(n, name)
			if !has {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		found = true

		id := next
		if s, has := p.FieldValue(n, idField); has {
			if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				id = v
			}
		}
		next = max(next, id+1)

		entries = append(entries, lex.Entry{ID: id, Record: lex.RecordFromFields(vals)})
	}

	if !found && len(p.Notes) > 0 {
		return nil, fmt.Errorf("%s: %w", p.path, ErrNoDictionaryModel)
	}
	return entries, nil
}

// Close removes the extracted files.
func (p *Package) Close() error {
	var err error
	if p.db != nil {
		err = p.db.Close()
	}
	if p.tempDir != "" {
		if rmErr := os.RemoveAll(p.tempDir); err == nil {
			err = rmErr
		}
	}
	return err
}

// ReadEntries reads the dictionary entries of a package written by WriteDeck.
func ReadEntries(path string) ([]lex.Entry, error) {
	pkg, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	return pkg.Entries()
}
