package extract

import "github.com/f3rmion/kosh/internal/lex"

// Emitter numbers accepted records and collects suspect ids.
//
// Accepted and suspect ids come from one counter that only advances on
// accept, so a suspect id names the slot the candidate would have taken.
type Emitter struct {
	next       int
	entries    []lex.Entry
	suspects   []int
	candidates int
	discarded  int
}

// NewEmitter creates an emitter whose first id is 0.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit validates a candidate and records the outcome.
func (e *Emitter) Emit(r lex.Record) Verdict {
	e.candidates++
	v := Validate(r)

	if v.Suspect {
		e.suspects = append(e.suspects, e.next)
	}
	if v.Accept {
		e.entries = append(e.entries, lex.Entry{ID: e.next, Record: r})
		e.next++
	} else {
		e.discarded++
	}

	return v
}

// Entries returns the accepted records in id order.
func (e *Emitter) Entries() []lex.Entry {
	out := make([]lex.Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Suspects returns the flagged ids in the order they were found.
func (e *Emitter) Suspects() []int {
	out := make([]int, len(e.suspects))
	copy(out, e.suspects)
	return out
}

// Candidates returns how many candidates were evaluated.
func (e *Emitter) Candidates() int { return e.candidates }

// Discarded returns how many candidates failed the accept check.
func (e *Emitter) Discarded() int { return e.discarded }
