// Package lex provides the core types shared by the kosh extraction pipeline.
package lex

import (
	"math"
	"strings"
)

// Color is a fill color as reported by the character source.
// Only RGB triples are valid; gray, CMYK and missing colors leave Valid unset.
type Color struct {
	R, G, B float64
	Valid   bool
}

// RGB returns a valid color from its three channels.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

// ColorFromComponents converts a raw component list (as found in PDF
// graphics state dumps) into a Color. Anything but three components is invalid.
func ColorFromComponents(c []float64) Color {
	if len(c) != 3 {
		return Color{}
	}
	return RGB(c[0], c[1], c[2])
}

// Near reports whether both colors are valid and every channel differs by at most tol.
func (c Color) Near(o Color, tol float64) bool {
	if !c.Valid || !o.Valid {
		return false
	}
	return math.Abs(c.R-o.R) <= tol &&
		math.Abs(c.G-o.G) <= tol &&
		math.Abs(c.B-o.B) <= tol
}

// Character is one glyph from the typeset page stream.
type Character struct {
	Text     string  // Usually a single glyph
	FontName string  // Font resource name, including subset prefix (e.g. "LPDDKK+TimesNewRoman")
	FontSize float64 // Nominal size in points
	Color    Color   // Non-stroking (fill) color
}

// FieldTag identifies which field of a dictionary entry a character belongs to.
type FieldTag int

const (
	Unclassified FieldTag = iota
	Word                  // Head word, Gujarati script
	Pronunciation         // Phonetic reading, red ink
	Transcription         // Graphemic transcription, black phonetic typeface
	PartOfSpeech          // Grammatical category, green ink
	Gloss                 // English definition
)

// Fields lists the classified tags in record order.
var Fields = [5]FieldTag{Word, Pronunciation, Transcription, PartOfSpeech, Gloss}

func (t FieldTag) String() string {
	switch t {
	case Word:
		return "word"
	case Pronunciation:
		return "pronunciation"
	case Transcription:
		return "transcription"
	case PartOfSpeech:
		return "part_of_speech"
	case Gloss:
		return "gloss"
	default:
		return "unclassified"
	}
}

// Index returns the position of the tag within a record, or -1 for Unclassified.
func (t FieldTag) Index() int {
	if t < Word || t > Gloss {
		return -1
	}
	return int(t - Word)
}

// Record is a reconstructed dictionary entry.
type Record struct {
	Word          string
	Pronunciation string
	Transcription string
	PartOfSpeech  string
	Gloss         string
}

// RecordFromFields builds a record from the five fields in record order.
func RecordFromFields(f [5]string) Record {
	return Record{
		Word:          f[0],
		Pronunciation: f[1],
		Transcription: f[2],
		PartOfSpeech:  f[3],
		Gloss:         f[4],
	}
}

// Fields returns the five fields in record order.
func (r Record) Fields() [5]string {
	return [5]string{r.Word, r.Pronunciation, r.Transcription, r.PartOfSpeech, r.Gloss}
}

// Empty counts the fields that are empty strings.
func (r Record) Empty() int {
	n := 0
	for _, f := range r.Fields() {
		if f == "" {
			n++
		}
	}
	return n
}

// Normalize trims whitespace from every field and drops "<>" markers from the gloss.
func (r Record) Normalize() Record {
	return Record{
		Word:          strings.TrimSpace(r.Word),
		Pronunciation: strings.TrimSpace(r.Pronunciation),
		Transcription: strings.TrimSpace(r.Transcription),
		PartOfSpeech:  strings.TrimSpace(r.PartOfSpeech),
		Gloss:         strings.TrimSpace(strings.ReplaceAll(r.Gloss, "<>", "")),
	}
}

// Entry is an accepted record with its sequential id.
type Entry struct {
	ID     int
	Record Record
}
