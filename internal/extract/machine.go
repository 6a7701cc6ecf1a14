// Package extract reconstructs dictionary entries from classified characters.
package extract

import (
	"strings"

	"github.com/f3rmion/kosh/internal/lex"
)

// State is the field the accumulator is currently inside.
type State int

const (
	AwaitingWord State = iota
	InWord
	InPronunciation
	InTranscription
	InPartOfSpeech
	InGloss
)

func (s State) String() string {
	switch s {
	case InWord:
		return "in-word"
	case InPronunciation:
		return "in-pronunciation"
	case InTranscription:
		return "in-transcription"
	case InPartOfSpeech:
		return "in-part-of-speech"
	case InGloss:
		return "in-gloss"
	default:
		return "awaiting-word"
	}
}

type transition struct {
	next  State
	flush bool
}

// transitions is indexed by current state, then by the incoming tag's record index
// (word, pronunciation, transcription, part of speech, gloss).
//
// Head words arrive glyph by glyph, so only the edge into InWord starts a new
// record. Staying in InWord appends to the same word.
var transitions = [...][5]transition{
	AwaitingWord:    {{InWord, true}, {InPronunciation, false}, {InTranscription, false}, {InPartOfSpeech, false}, {InGloss, false}},
	InWord:          {{InWord, false}, {InPronunciation, false}, {InTranscription, false}, {InPartOfSpeech, false}, {InGloss, false}},
	InPronunciation: {{InWord, true}, {InPronunciation, false}, {InTranscription, false}, {InPartOfSpeech, false}, {InGloss, false}},
	InTranscription: {{InWord, true}, {InPronunciation, false}, {InTranscription, false}, {InPartOfSpeech, false}, {InGloss, false}},
	InPartOfSpeech:  {{InWord, true}, {InPronunciation, false}, {InTranscription, false}, {InPartOfSpeech, false}, {InGloss, false}},
	InGloss:         {{InWord, true}, {InPronunciation, false}, {InTranscription, false}, {InPartOfSpeech, false}, {InGloss, false}},
}

// Accumulator groups classified characters into candidate records.
// It is not safe for concurrent use.
type Accumulator struct {
	state State
	buf   [5]strings.Builder
	sink  func(lex.Record)
}

// NewAccumulator creates an accumulator that hands every flushed candidate to sink.
func NewAccumulator(sink func(lex.Record)) *Accumulator {
	return &Accumulator{sink: sink}
}

// State returns the current state.
func (a *Accumulator) State() State {
	return a.state
}

// Feed appends text under tag. Unclassified input is ignored entirely.
func (a *Accumulator) Feed(tag lex.FieldTag, text string) {
	idx := tag.Index()
	if idx < 0 {
		return
	}

	t := transitions[a.state][idx]
	if t.flush {
		a.flush()
	}
	a.buf[idx].WriteString(text)
	a.state = t.next
}

// Finish flushes the trailing candidate and returns to AwaitingWord.
func (a *Accumulator) Finish() {
	a.flush()
	a.state = AwaitingWord
}

func (a *Accumulator) flush() {
	var fields [5]string
	dirty := false
	for i := range a.buf {
		fields[i] = a.buf[i].String()
		if fields[i] != "" {
			dirty = true
		}
		a.buf[i].Reset()
	}
	if !dirty {
		return
	}
	a.sink(lex.RecordFromFields(fields).Normalize())
}
