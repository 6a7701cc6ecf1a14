package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/f3rmion/kosh/internal/lex"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	first_page  INTEGER NOT NULL,
	last_page   INTEGER NOT NULL,
	accepted    INTEGER NOT NULL,
	suspects    INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	id             INTEGER PRIMARY KEY,
	word           TEXT NOT NULL,
	pronunciation  TEXT NOT NULL,
	transcription  TEXT NOT NULL,
	part_of_speech TEXT NOT NULL,
	gloss          TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS suspects (
	run_id TEXT NOT NULL REFERENCES runs(id),
	seq    INTEGER NOT NULL,
	id     INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS entries_word ON entries(word);
`

// Run describes one extraction run stored in the database.
type Run struct {
	ID        string
	Source    string
	FirstPage int
	LastPage  int
	Entries   []lex.Entry
	Suspects  []int
	CreatedAt time.Time
}

// DB is a SQLite-backed entry store.
type DB struct {
	path string
	db   *sql.DB
}

// Open opens (and if needed creates) a SQLite store.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{path: path, db: db}, nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// SaveRun replaces the stored entries with those of run and records the run
// with its suspect list.
func (s *DB) SaveRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, first_page, last_page, accepted, suspects, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.FirstPage, run.LastPage, len(run.Entries), len(run.Suspects), created.Unix())
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, word, pronunciation, transcription, part_of_speech, gloss)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range run.Entries {
		r := e.Record
		if _, err := stmt.ExecContext(ctx, e.ID, r.Word, r.Pronunciation, r.Transcription, r.PartOfSpeech, r.Gloss); err != nil {
			return fmt.Errorf("inserting entry %d: %w", e.ID, err)
		}
	}

	for i, id := range run.Suspects {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO suspects (run_id, seq, id) VALUES (?, ?, ?)", run.ID, i, id); err != nil {
			return fmt.Errorf("inserting suspect %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", run.ID, err)
	}

	return nil
}

// Entries returns all stored entries ordered by id.
func (s *DB) Entries(ctx context.Context) ([]lex.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, word, pronunciation, transcription, part_of_speech, gloss
		FROM entries ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []lex.Entry
	for rows.Next() {
		var e lex.Entry
		r := &e.Record
		if err := rows.Scan(&e.ID, &r.Word, &r.Pronunciation, &r.Transcription, &r.PartOfSpeech, &r.Gloss); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// LastRun returns the most recent run with its suspect list. Entries are not loaded.
func (s *DB) LastRun(ctx context.Context) (*Run, error) {
	var run Run
	var created int64
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, first_page, last_page, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1
	`)
	if err := row.Scan(&run.ID, &run.Source, &run.FirstPage, &run.LastPage, &created); err != nil {
		return nil, fmt.Errorf("loading last run: %w", err)
	}
	run.CreatedAt = time.Unix(created, 0)

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM suspects WHERE run_id = ? ORDER BY seq", run.ID)
	if err != nil {
		return nil, fmt.Errorf("querying suspects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning suspect: %w", err)
		}
		run.Suspects = append(run.Suspects, id)
	}

	return &run, rows.Err()
}
