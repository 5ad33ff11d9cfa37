// Package palette maps escape counts to colors and colorizes whole fields.
package palette

import (
	"image"
	"image/color"
	"math"
	"slices"
	"sort"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/field"
)

// Palette maps an escape count with its iteration cap to a color.
type Palette interface {
	Color(count, maxIterations uint32) color.RGBA
}

const (
	NameGray = "gray"
	NameHSV  = "hsv"
)

var registry = map[string]Palette{
	NameGray: NewGray(),
	NameHSV:  HSV{},
}

// ByName returns the palette registered under name.
func ByName(name string) (Palette, error) {
	if p, ok := registry[name]; ok {
		return p, nil
	}
	return nil, mberr.New(mberr.ErrCodeInvalidPalette, "unknown palette %q (valid: %v)", name, Names())
}

// Names returns the registered palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsValid reports whether name is a registered palette.
func IsValid(name string) bool {
	return slices.Contains(Names(), name)
}

// Gray is a 255-entry grayscale ramp with sqrt falloff, brightening towards
// the interior.
type Gray struct {
	ramp []color.RGBA
}

const grayEntries = 255

// NewGray builds the grayscale ramp.
func NewGray() *Gray {
	ramp := make([]color.RGBA, grayEntries)
	for i := range ramp {
		v := uint8(math.Sqrt(float64(i)/255) * 255)
		ramp[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	return &Gray{ramp: ramp}
}

// Color indexes the ramp by count/maxIterations. The index is clamped into
// range and maxIterations == 0 selects the first entry.
func (g *Gray) Color(count, maxIterations uint32) color.RGBA {
	if maxIterations == 0 {
		return g.ramp[0]
	}
	idx := int(float64(len(g.ramp)) * float64(count) / float64(maxIterations))
	idx = max(0, min(idx, len(g.ramp)-1))
	return g.ramp[idx]
}

// HSV cycles hue with the escape count. Interior samples are black.
type HSV struct{}

func (HSV) Color(count, maxIterations uint32) color.RGBA {
	if count >= maxIterations {
		return color.RGBA{A: 255}
	}
	return hsv(float64(count)/float64(maxIterations), 1, 1)
}

func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}

// Colorize paints f into a new image, one pixel per sample.
func Colorize(f field.Field, maxIterations uint32, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width(), f.Height()))
	for y, row := range f {
		for x, c := range row {
			img.SetRGBA(x, y, p.Color(c, maxIterations))
		}
	}
	return img
}
