package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/f3rmion/kosh/internal/classify"
	"github.com/f3rmion/kosh/internal/lex"
	"github.com/f3rmion/kosh/internal/source"
)

// Stats summarizes one extraction run.
type Stats struct {
	Pages      int
	Characters int
	ByTag      map[lex.FieldTag]int // Includes Unclassified
	Candidates int
	Accepted   int
	Discarded  int
	Suspects   int
	Duration   time.Duration
}

// Result is the outcome of an extraction run.
type Result struct {
	Entries  []lex.Entry // Accepted records, ids 0..n-1 in order
	Suspects []int       // Ids of candidates missing only their transcription
	Range    source.PageRange
	Stats    Stats
}

// TraceFunc observes every character together with its classification.
type TraceFunc func(page int, ch lex.Character, tag lex.FieldTag, rule string)

// Extractor runs the classify → accumulate → validate → emit pipeline.
type Extractor struct {
	classifier *classify.Classifier
	logger     *slog.Logger
	trace      TraceFunc
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithTrace registers a per-character observer.
func WithTrace(fn TraceFunc) Option {
	return func(e *Extractor) { e.trace = fn }
}

// New creates an extractor around a classifier.
func New(c *classify.Classifier, opts ...Option) *Extractor {
	e := &Extractor{
		classifier: c,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run scans the pages of r in order and returns the accepted entries.
// The context is only consulted between pages, so a record is never cut short.
func (e *Extractor) Run(ctx context.Context, src source.Source, r source.PageRange) (*Result, error) {
	pages, err := r.Resolve(src)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	emitter := NewEmitter()
	acc := NewAccumulator(func(rec lex.Record) { emitter.Emit(rec) })
	stats := Stats{ByTag: make(map[lex.FieldTag]int)}

	e.logger.Info("extraction started", "pages", pages.String())

	for n := pages.First; n <= pages.Last; n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction interrupted before page %d: %w", n, err)
		}

		chars, err := src.Page(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", n, err)
		}

		for _, ch := range chars {
			tag, rule := e.classifier.Explain(ch)
			stats.ByTag[tag]++
			if e.trace != nil {
				e.trace(n, ch, tag, rule)
			}
			acc.Feed(tag, ch.Text)
		}

		stats.Pages++
		stats.Characters += len(chars)
		e.logger.Debug("page scanned", "page", n, "chars", len(chars), "accepted", len(emitter.entries))
	}
	acc.Finish()

	res := &Result{
		Entries:  emitter.Entries(),
		Suspects: emitter.Suspects(),
		Range:    pages,
	}
	stats.Candidates = emitter.Candidates()
	stats.Accepted = len(res.Entries)
	stats.Discarded = emitter.Discarded()
	stats.Suspects = len(res.Suspects)
	stats.Duration = time.Since(start)
	res.Stats = stats

	e.logger.Info("extraction finished",
		"pages", stats.Pages,
		"chars", stats.Characters,
		"candidates", stats.Candidates,
		"accepted", stats.Accepted,
		"discarded", stats.Discarded,
		"suspects", stats.Suspects,
		"duration", stats.Duration,
	)

	return res, nil
}
