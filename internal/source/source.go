// Package source supplies typeset characters page by page.
//
// The pipeline never inspects glyph geometry, so a source only has to
// report, for each page, the characters in content-stream order with their
// text, font name, nominal size and fill color.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/kosh/internal/lex"
)

// ErrPageRange is returned when a requested page range does not fit the source.
var ErrPageRange = errors.New("page range out of bounds")

// Source yields the characters of each page in stream order.
type Source interface {
	// Pages returns the inclusive range of page numbers the source can serve.
	// An empty source returns last < first.
	Pages() (first, last int)
	// Page returns the characters of page n. It may block on I/O.
	Page(ctx context.Context, n int) ([]lex.Character, error)
}

// PageRange is an inclusive range of page numbers. A negative bound is open:
// it extends to the first or last page of the source.
type PageRange struct {
	First int
	Last  int
}

// All selects every page a source has.
var All = PageRange{First: -1, Last: -1}

// Resolve clamps open ends of r to the pages available in src and checks bounds.
func (r PageRange) Resolve(src Source) (PageRange, error) {
	first, last := src.Pages()
	out := r
	if out.First < 0 {
		out.First = first
	}
	if out.Last < 0 {
		out.Last = last
	}
	if last < first {
		return PageRange{}, fmt.Errorf("%w: source has no pages", ErrPageRange)
	}
	if out.First < first || out.Last > last || out.Last < out.First {
		return PageRange{}, fmt.Errorf("%w: requested %d..%d, source has %d..%d",
			ErrPageRange, out.First, out.Last, first, last)
	}
	return out, nil
}

func (r PageRange) String() string {
	if r.Last < 0 {
		return fmt.Sprintf("%d..end", r.First)
	}
	return fmt.Sprintf("%d..%d", r.First, r.Last)
}
