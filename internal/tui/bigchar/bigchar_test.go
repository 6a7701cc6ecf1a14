package bigchar

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

func TestRenderShape(t *testing.T) {
	r := New(basicfont.Face7x13)

	out := r.Render("Hi", 20, 6)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 20, len([]rune(l)))
	}
	assert.True(t, strings.ContainsAny(out, "█▀▄"), "something is drawn")
}

func TestRenderCaches(t *testing.T) {
	r := New(basicfont.Face7x13)
	first := r.Render("A", 8, 4)
	assert.Len(t, r.cache, 1)
	assert.Equal(t, first, r.Render("A", 8, 4))
	assert.Len(t, r.cache, 1)
	r.Render("A", 8, 5)
	assert.Len(t, r.cache, 2)
}

func TestRenderDegenerate(t *testing.T) {
	var nilRenderer *Renderer
	assert.Empty(t, nilRenderer.Render("A", 8, 4))

	r := New(basicfont.Face7x13)
	assert.Empty(t, r.Render("", 8, 4))
	assert.Empty(t, r.Render("A", 0, 4))
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 255})
	img.SetGray(0, 1, color.Gray{Y: 255})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(2, 1, color.Gray{Y: 255})

	assert.Equal(t, "█▀▄", halfBlocks(img, 3, 1))
}

func TestLoadNoFont(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.ErrorIs(t, err, ErrNoFont)
}
