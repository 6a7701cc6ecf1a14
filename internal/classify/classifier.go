// Package classify assigns typeset characters to dictionary entry fields.
//
// Fields in the source dictionary carry no textual markup; they are told
// apart only by typeface, glyph size and ink color. A Classifier holds an
// ordered list of rules and returns the tag of the first rule that matches.
package classify

import (
	"slices"

	"github.com/f3rmion/kosh/internal/config"
	"github.com/f3rmion/kosh/internal/lex"
)

// Rule maps characters satisfying Match to Tag.
type Rule struct {
	Name  string
	Tag   lex.FieldTag
	Match func(lex.Character) bool
}

// Classifier evaluates rules top to bottom; first match wins.
type Classifier struct {
	rules []Rule
}

// New creates a classifier from an explicit rule list.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// FromProfile builds the standard five-rule classifier for a profile.
func FromProfile(p config.Profile) *Classifier {
	red := lex.ColorFromComponents(p.Red)
	black := lex.ColorFromComponents(p.Black)
	green := lex.ColorFromComponents(p.Green)
	tol := p.ColorTolerance

	return New(
		Rule{
			Name: "word",
			Tag:  lex.Word,
			Match: func(c lex.Character) bool {
				return c.Text != "" && c.FontSize < p.WordMaxSize && c.FontName == p.WordFont
			},
		},
		Rule{
			Name: "pronunciation",
			Tag:  lex.Pronunciation,
			Match: func(c lex.Character) bool {
				return c.Color.Near(red, tol) && slices.Contains(p.PronunciationFonts, c.FontName)
			},
		},
		Rule{
			Name: "transcription",
			Tag:  lex.Transcription,
			Match: func(c lex.Character) bool {
				return c.Color.Near(black, tol) && c.FontName == p.TranscriptionFont
			},
		},
		Rule{
			Name: "part-of-speech",
			Tag:  lex.PartOfSpeech,
			Match: func(c lex.Character) bool {
				return c.Color.Near(green, tol)
			},
		},
		Rule{
			Name: "gloss",
			Tag:  lex.Gloss,
			Match: func(c lex.Character) bool {
				return c.Color.Near(black, tol) && slices.Contains(p.GlossFonts, c.FontName)
			},
		},
	)
}

// Default returns the classifier for the reference dictionary.
func Default() *Classifier {
	return FromProfile(config.DefaultProfile())
}

// Classify returns the field tag for a character.
func (c *Classifier) Classify(ch lex.Character) lex.FieldTag {
	tag, _ := c.Explain(ch)
	return tag
}

// Explain returns the field tag along with the name of the rule that produced it.
// Unclassified characters report an empty rule name.
func (c *Classifier) Explain(ch lex.Character) (lex.FieldTag, string) {
	for _, r := range c.rules {
		if r.Match(ch) {
			return r.Tag, r.Name
		}
	}
	return lex.Unclassified, ""
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	return slices.Clone(c.rules)
}
