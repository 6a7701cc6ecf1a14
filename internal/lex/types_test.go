package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFromComponents(t *testing.T) {
	assert.Equal(t, RGB(0, 0.502, 0), ColorFromComponents([]float64{0, 0.502, 0}))
	assert.False(t, ColorFromComponents(nil).Valid)
	assert.False(t, ColorFromComponents([]float64{0}).Valid, "gray is not an RGB color")
	assert.False(t, ColorFromComponents([]float64{0, 0, 0, 1}).Valid, "CMYK is not an RGB color")
}

func TestColorNear(t *testing.T) {
	black := RGB(0, 0, 0)
	assert.True(t, black.Near(RGB(0, 0, 0), 0))
	assert.True(t, black.Near(RGB(0.001, 0, 0.001), 0.002))
	assert.False(t, black.Near(RGB(0.01, 0, 0), 0.002))
	assert.False(t, Color{}.Near(Color{}, 1), "invalid colors never match")
	assert.False(t, black.Near(Color{}, 1))
}

func TestFieldTagIndex(t *testing.T) {
	for i, tag := range Fields {
		assert.Equal(t, i, tag.Index())
	}
	assert.Equal(t, -1, Unclassified.Index())
	assert.Equal(t, "part_of_speech", PartOfSpeech.String())
	assert.Equal(t, "unclassified", Unclassified.String())
}

func TestRecordNormalize(t *testing.T) {
	r := Record{
		Word:          " ક ",
		Pronunciation: "\tk\n",
		Transcription: "ə ",
		PartOfSpeech:  " noun",
		Gloss:         " <>a <>letter<> ",
	}
	want := Record{Word: "ક", Pronunciation: "k", Transcription: "ə", PartOfSpeech: "noun", Gloss: "a letter"}
	assert.Equal(t, want, r.Normalize())
}

func TestRecordEmpty(t *testing.T) {
	assert.Equal(t, 5, Record{}.Empty())
	assert.Equal(t, 1, Record{Word: "a", Pronunciation: "b", PartOfSpeech: "c", Gloss: "d"}.Empty())
	r := RecordFromFields([5]string{"a", "b", "c", "d", "e"})
	assert.Equal(t, 0, r.Empty())
	assert.Equal(t, [5]string{"a", "b", "c", "d", "e"}, r.Fields())
}
