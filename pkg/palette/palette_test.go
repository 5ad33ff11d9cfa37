package palette

import (
	"image/color"
	"testing"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/field"
)

func TestGrayRamp(t *testing.T) {
	g := NewGray()
	tests := []struct {
		name       string
		count, max uint32
		want       uint8
	}{
		{"escaped immediately", 0, 100, 0},
		{"interior clamps to last entry", 100, 100, 254},
		{"half way", 50, 100, 179},
		{"zero cap", 7, 0, 0},
		{"count above cap", 500, 100, 254},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := g.Color(tt.count, tt.max)
			if c.R != tt.want || c.G != tt.want || c.B != tt.want || c.A != 255 {
				t.Errorf("Color(%d, %d) = %v, want gray %d", tt.count, tt.max, c, tt.want)
			}
		})
	}
}

func TestHSVInteriorIsBlack(t *testing.T) {
	if got := (HSV{}).Color(64, 64); got != (color.RGBA{A: 255}) {
		t.Errorf("HSV interior = %v, want opaque black", got)
	}
	if got := (HSV{}).Color(0, 64); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("HSV count 0 = %v, want red", got)
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
		if !IsValid(name) {
			t.Errorf("IsValid(%q) = false", name)
		}
	}
	_, err := ByName("sepia")
	if !mberr.Is(err, mberr.ErrCodeInvalidPalette) {
		t.Errorf("ByName(sepia) err = %v, want INVALID_PALETTE", err)
	}
}

func TestColorize(t *testing.T) {
	f := field.Field{
		{0, 10},
		{10, 5},
		{1, 2},
	}
	img := Colorize(f, 10, NewGray())
	b := img.Bounds()
	if b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 2x3", b)
	}
	if got := img.RGBAAt(1, 0); got.R != 254 {
		t.Errorf("pixel (1,0) = %v, want interior gray 254", got)
	}
	if got := img.RGBAAt(0, 0); got.R != 0 {
		t.Errorf("pixel (0,0) = %v, want black", got)
	}
}
