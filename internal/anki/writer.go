package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/kosh/internal/lex"
)

const (
	collectionFile = "collection.anki2"
	fieldSep       = "\x1f"
	idField        = "ID"
	defaultDeckID  = 1
)

// entryFields are the note fields holding a record, in record order.
var entryFields = [5]string{"Word", "Pronunciation", "Transcription", "PartOfSpeech", "Gloss"}

const schema = `
CREATE TABLE col (
	id integer primary key, crt integer not null, mod integer not null, scm integer not null,
	ver integer not null, dty integer not null, usn integer not null, ls integer not null,
	conf text not null, models text not null, decks text not null, dconf text not null, tags text not null
);
CREATE TABLE notes (
	id integer primary key, guid text not null, mid integer not null, mod integer not null,
	usn integer not null, tags text not null, flds text not null, sfld integer not null,
	csum integer not null, flags integer not null, data text not null
);
CREATE TABLE cards (
	id integer primary key, nid integer not null, did integer not null, ord integer not null,
	mod integer not null, usn integer not null, type integer not null, queue integer not null,
	due integer not null, ivl integer not null, factor integer not null, reps integer not null,
	lapses integer not null, left integer not null, odue integer not null, odid integer not null,
	flags integer not null, data text not null
);
CREATE TABLE revlog (
	id integer primary key, cid integer not null, usn integer not null, ease integer not null,
	ivl integer not null, lastIvl integer not null, factor integer not null, time integer not null,
	type integer not null
);
CREATE TABLE graves (usn integer not null, oid integer not null, type integer not null);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
CREATE INDEX ix_notes_csum ON notes (csum);
`

const cardCSS = `.card { font-family: "Noto Sans Gujarati", sans-serif; font-size: 28px; text-align: center; }
.ipa { color: #c0392b; }
.trans { font-style: italic; }
.pos { color: #1e8449; }`

const (
	frontTemplate = `<div class="word">{{Word}}</div>`
	backTemplate  = `{{FrontSide}}<hr id="answer">
<div class="ipa">{{Pronunciation}}</div>
<div class="trans">{{Transcription}}</div>
<div><span class="pos">{{PartOfSpeech}}</span> {{Gloss}}</div>`
)

// DeckOptions names the deck and note type of a written package.
type DeckOptions struct {
	Name    string    // Deck name
	Created time.Time // Creation and modification time; zero means now
}

// WriteDeck writes entries as a new .apkg package with one card per entry.
// Ids are derived from the deck name and entry ids, so the same input
// produces the same notes and Anki updates them on re-import.
func WriteDeck(path string, opts DeckOptions, entries []lex.Entry) error {
	if opts.Name == "" {
		opts.Name = "Gujarati-English"
	}
	if opts.Created.IsZero() {
		opts.Created = time.Now()
	}

	tempDir, err := os.MkdirTemp("", "kosh-anki-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, collectionFile)
	if err := writeCollection(dbPath, opts, entries); err != nil {
		return err
	}

	return zipPackage(path, dbPath)
}

func writeCollection(dbPath string, opts DeckOptions, entries []lex.Entry) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating collection schema: %w", err)
	}

	base := nameID(opts.Name)
	modelID, deckID := base, base+1
	mod := opts.Created.Unix()

	models, decks, err := collectionJSON(opts.Name, modelID, deckID, mod)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO col VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		mod, mod*1000, mod*1000, `{"nextPos": 1, "curDeck": 1, "sortType": "noteFld"}`,
		models, decks, dconfJSON)
	if err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}

	for i, e := range entries {
		fields := make([]string, 0, len(entryFields)+1)
		for _, v := range e.Record.Fields() {
			fields = append(fields, html.EscapeString(v))
		}
		fields = append(fields, strconv.Itoa(e.ID))

		noteID := base + 10 + int64(e.ID)
		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
			noteID, guid(opts.Name, e.ID), modelID, mod,
			strings.Join(fields, fieldSep), e.Record.Word, checksum(e.Record.Word))
		if err != nil {
			return fmt.Errorf("writing note %d: %w", e.ID, err)
		}

		_, err = tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
			noteID, noteID, deckID, mod, i+1)
		if err != nil {
			return fmt.Errorf("writing card %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return nil
}

func collectionJSON(name string, modelID, deckID, mod int64) (string, string, error) {
	flds := make([]map[string]any, 0, len(entryFields)+1)
	for i, f := range append(entryFields[:], idField) {
		flds = append(flds, map[string]any{
			"name": f, "ord": i, "sticky": false, "rtl": false,
			"font": "Noto Sans Gujarati", "size": 20, "media": []string{},
		})
	}

	models := map[string]any{
		strconv.FormatInt(modelID, 10): map[string]any{
			"id":        modelID,
			"name":      name,
			"type":      0,
			"mod":       mod,
			"usn":       -1,
			"sortf":     0,
			"did":       deckID,
			"flds":      flds,
			"css":       cardCSS,
			"latexPre":  "",
			"latexPost": "",
			"tags":      []string{},
			"vers":      []int{},
			"req":       []any{[]any{0, "any", []int{0}}},
			"tmpls": []map[string]any{{
				"name": "Gujarati → English", "ord": 0, "qfmt": frontTemplate, "afmt": backTemplate,
				"did": nil, "bqfmt": "", "bafmt": "",
			}},
		},
	}

	deck := func(id int64, name string) map[string]any {
		return map[string]any{
			"id": id, "name": name, "desc": "", "mod": mod, "usn": -1, "conf": 1,
			"dyn": 0, "collapsed": false, "extendNew": 10, "extendRev": 50,
			"newToday": []int{0, 0}, "revToday": []int{0, 0}, "lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
		}
	}
	decks := map[string]any{
		strconv.Itoa(defaultDeckID):   deck(defaultDeckID, "Default"),
		strconv.FormatInt(deckID, 10): deck(deckID, name),
	}

	m, err := json.Marshal(models)
	if err != nil {
		return "", "", fmt.Errorf("marshaling models: %w", err)
	}
	d, err := json.Marshal(decks)
	if err != nil {
		return "", "", fmt.Errorf("marshaling decks: %w", err)
	}
	return string(m), string(d), nil
}

const dconfJSON = `{"1": {"id": 1, "name": "Default", "usn": 0, "mod": 0, "maxTaken": 60, "autoplay": true, "timer": 0, "replayq": true, "dyn": false,
"new": {"bury": true, "delays": [1, 10], "initialFactor": 2500, "ints": [1, 4, 7], "order": 1, "perDay": 20},
"rev": {"bury": true, "ease4": 1.3, "fuzz": 0.05, "ivlFct": 1, "maxIvl": 36500, "perDay": 100},
"lapse": {"delays": [10], "leechAction": 0, "leechFails": 8, "minInt": 1, "mult": 0}}}`

// nameID derives a stable positive id for the note type and deck of a name.
func nameID(name string) int64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return int64(h.Sum32())<<16 + 1<<40
}

func guid(deck string, id int) string {
	sum := sha1.Sum([]byte(deck + fieldSep + strconv.Itoa(id)))
	return strconv.FormatUint(binary.BigEndian.Uint64(sum[:8]), 36)
}

// checksum is Anki's duplicate-detection hash: the first 8 hex digits of SHA-1
// of the sort field.
func checksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

func zipPackage(path, dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating package: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	if err := addFile(zw, collectionFile, dbPath); err != nil {
		return err
	}
	media, err := zw.Create("media")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(media, "{}"); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("writing package: %w", err)
	}
	return out.Close()
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	_, err = io.Copy(w, f)
	return err
}
