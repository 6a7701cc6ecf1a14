package source

import (
	"context"
	"fmt"

	"github.com/f3rmion/kosh/internal/lex"
)

// Slice is an in-memory source whose pages are numbered from First.
type Slice struct {
	First int
	Data  [][]lex.Character
}

// NewSlice creates an in-memory source with pages numbered from first.
func NewSlice(first int, pages ...[]lex.Character) *Slice {
	return &Slice{First: first, Data: pages}
}

// Pages returns the page numbers covered by the slice.
func (s *Slice) Pages() (int, int) {
	return s.First, s.First + len(s.Data) - 1
}

// Page returns the characters of page n.
func (s *Slice) Page(ctx context.Context, n int) ([]lex.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := n - s.First
	if i < 0 || i >= len(s.Data) {
		return nil, fmt.Errorf("%w: page %d", ErrPageRange, n)
	}
	return s.Data[i], nil
}
