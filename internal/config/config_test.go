package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfileIsValid(t *testing.T) {
	require.NoError(t, DefaultProfile().Validate())
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"empty word font", func(p *Profile) { p.WordFont = "" }},
		{"zero word size", func(p *Profile) { p.WordMaxSize = 0 }},
		{"no pronunciation fonts", func(p *Profile) { p.PronunciationFonts = nil }},
		{"empty transcription font", func(p *Profile) { p.TranscriptionFont = "" }},
		{"no gloss fonts", func(p *Profile) { p.GlossFonts = nil }},
		{"short color", func(p *Profile) { p.Green = []float64{0, 0.5} }},
		{"color out of range", func(p *Profile) { p.Red = []float64{1.5, 0, 0} }},
		{"negative tolerance", func(p *Profile) { p.ColorTolerance = -0.1 }},
		{"inverted pages", func(p *Profile) { p.FirstPage, p.LastPage = 10, 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestProfileOpenEndedPages(t *testing.T) {
	p := DefaultProfile()
	p.FirstPage, p.LastPage = 40, -1
	assert.NoError(t, p.Validate())
}

func TestSaveAndLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProfileFile)

	p := DefaultProfile()
	p.Name = "custom"
	p.ColorTolerance = 0.01
	require.NoError(t, SaveProfile(path, p))

	got, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestLoadProfilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProfileFile)
	content := "profile:\n  color_tolerance: 0\n  first_page: 3\n  last_page: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.ColorTolerance)
	assert.Equal(t, 3, got.FirstPage)
	assert.Equal(t, DefaultProfile().WordFont, got.WordFont)
	assert.Equal(t, DefaultProfile().GlossFonts, got.GlossFonts)
}

func TestLoadProfileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProfileFile)
	require.NoError(t, os.WriteFile(path, []byte("profile:\n  word_font: \"\"\n"), 0644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadConfigWithoutProfile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), cfg.Profile)
}
