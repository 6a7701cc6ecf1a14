// Package bigchar renders head words as block art using half-block characters.
package bigchar

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontPaths lists system fonts with Gujarati coverage, most preferred first.
var FontPaths = []string{
	// Linux
	"/usr/share/fonts/truetype/noto/NotoSansGujarati-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansGujarati-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansGujarati-Regular.otf",
	"/usr/share/fonts/truetype/lohit-gujarati/Lohit-Gujarati.ttf",
	"/usr/share/fonts/lohit-gujarati/Lohit-Gujarati.ttf",
	"/usr/share/fonts/truetype/samyak-fonts/Samyak-Gujarati.ttf",
	// macOS
	"/System/Library/Fonts/Supplemental/Gujarati Sangam MN.ttc",
	"/System/Library/Fonts/GujaratiMT.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Windows
	"C:\\Windows\\Fonts\\shruti.ttf",
	"C:\\Windows\\Fonts\\Nirmala.ttf",
}

// ErrNoFont is returned when none of the candidate fonts could be loaded.
var ErrNoFont = errors.New("no usable font found")

// threshold is the gray level above which a half cell is drawn.
const threshold = 40

// Renderer draws text with one font face and caches the results.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	text       string
	cols, rows int
}

// New creates a renderer around a font face.
func New(face font.Face) *Renderer {
	return &Renderer{face: face, cache: make(map[cacheKey]string)}
}

// Load creates a renderer from the first font in paths that parses.
// Collections use their first font.
func Load(paths ...string) (*Renderer, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fnt, err := parseFont(data)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: 64, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, fmt.Errorf("creating face from %s: %w", path, err)
		}
		return New(face), nil
	}
	return nil, ErrNoFont
}

func parseFont(data []byte) (*opentype.Font, error) {
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		return coll.Font(0)
	}
	return opentype.Parse(data)
}

var (
	defaultOnce sync.Once
	defaultR    *Renderer
)

// Default returns a renderer over the first available system font, or nil.
func Default() *Renderer {
	defaultOnce.Do(func() {
		defaultR, _ = Load(FontPaths...)
	})
	return defaultR
}

// Render draws text into cols×rows terminal cells. Glyphs are drawn one by one
// without shaping, so conjuncts fall back to their component forms.
func (r *Renderer) Render(text string, cols, rows int) string {
	if r == nil || text == "" || cols <= 0 || rows <= 0 {
		return ""
	}

	key := cacheKey{text, cols, rows}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[key]; ok {
		return s
	}

	s := r.render(text, cols, rows)
	r.cache[key] = s
	return s
}

func (r *Renderer) render(text string, cols, rows int) string {
	const padding = 4

	m := r.face.Metrics()
	width := font.MeasureString(r.face, text).Ceil()
	height := (m.Ascent + m.Descent).Ceil()

	src := image.NewGray(image.Rect(0, 0, max(width+padding*2, 16), max(height+padding*2, 16)))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(padding, padding+m.Ascent.Ceil()),
	}
	d.DrawString(text)

	return halfBlocks(scaleDown(src, cols, rows*2), cols, rows)
}

// scaleDown scales a grayscale image using area averaging.
func scaleDown(src *image.Gray, w, h int) *image.Gray {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	xr := float64(sw) / float64(w)
	yr := float64(sh) / float64(h)

	for dy := range h {
		for dx := range w {
			x1, y1 := int(float64(dx)*xr), int(float64(dy)*yr)
			x2, y2 := min(int(float64(dx+1)*xr), sw), min(int(float64(dy+1)*yr), sh)

			sum, n := 0, 0
			for sy := y1; sy < y2; sy++ {
				for sx := x1; sx < x2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					n++
				}
			}
			if n > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / n)})
			}
		}
	}
	return dst
}

// halfBlocks maps two vertical pixels to one cell.
func halfBlocks(img *image.Gray, cols, rows int) string {
	on := func(x, y int) bool {
		b := img.Bounds()
		if x >= b.Max.X || y >= b.Max.Y {
			return false
		}
		return img.GrayAt(x, y).Y > threshold
	}

	var sb strings.Builder
	for row := range rows {
		for col := range cols {
			top, bottom := on(col, row*2), on(col, row*2+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
