package fractal

import (
	"fmt"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
)

// View is a rectangle of the complex plane. Right must exceed Left and Top
// must exceed Bottom; see Validate.
//
// Views are values: transforms return a new View and never mutate the
// receiver, so a generation call can hold one for its whole duration.
type View struct {
	Left   float64 `json:"left" toml:"left" bson:"left"`
	Right  float64 `json:"right" toml:"right" bson:"right"`
	Top    float64 `json:"top" toml:"top" bson:"top"`
	Bottom float64 `json:"bottom" toml:"bottom" bson:"bottom"`
}

// DefaultView returns the start view that frames the whole set.
func DefaultView() View {
	return View{Left: -2.5, Right: 1.0, Top: 1.5, Bottom: -1.5}
}

// Width returns Right - Left.
func (v View) Width() float64 { return v.Right - v.Left }

// Height returns Top - Bottom.
func (v View) Height() float64 { return v.Top - v.Bottom }

// Aspect returns Height / Width. Renderers use it to derive a raster height
// that keeps samples square.
func (v View) Aspect() float64 { return v.Height() / v.Width() }

// Center returns the midpoint of the view.
func (v View) Center() (re, im float64) {
	return v.Left + v.Width()/2, v.Bottom + v.Height()/2
}

// Contains reports whether (re, im) lies inside the view, edges included.
func (v View) Contains(re, im float64) bool {
	return re >= v.Left && re <= v.Right && im >= v.Bottom && im <= v.Top
}

// Validate checks that the bounds are finite and correctly ordered.
func (v View) Validate() error {
	return mberr.ValidateBounds(v.Left, v.Right, v.Top, v.Bottom)
}

// String formats the view as "[left, right] × [bottom, top]".
func (v View) String() string {
	return fmt.Sprintf("[%g, %g] × [%g, %g]", v.Left, v.Right, v.Bottom, v.Top)
}

// Scale returns the plane distance between adjacent samples of a w×h raster.
func (v View) Scale(w, h int) (scaleX, scaleY float64) {
	return v.Width() / float64(w), v.Height() / float64(h)
}

// PixelToPoint maps raster pixel (x, y) of a w×h raster to its sample.
func (v View) PixelToPoint(x, y, w, h int) (re, im float64) {
	sx, sy := v.Scale(w, h)
	return v.Left + float64(float64(x)*sx), v.Top - float64(float64(y)*sy)
}

// Zoom returns a view centred on (cx, cy) with half the width and height of
// v, i.e. a 2× magnification.
func Zoom(v View, cx, cy float64) View {
	return ZoomBy(v, cx, cy, 2)
}

// ZoomBy returns a view centred on (cx, cy) magnified by factor. Factors
// below 1 zoom out. A non-positive factor returns v unchanged.
func ZoomBy(v View, cx, cy, factor float64) View {
	if factor <= 0 {
		return v
	}
	hw := v.Width() / (2 * factor)
	hh := v.Height() / (2 * factor)
	return View{
		Left:   cx - hw,
		Right:  cx + hw,
		Top:    cy + hh,
		Bottom: cy - hh,
	}
}

// ZoomAtPixel zooms 2× on the sample drawn at pixel (x, y) of a w×h raster.
func ZoomAtPixel(v View, x, y, w, h int) View {
	cx, cy := v.PixelToPoint(x, y, w, h)
	return Zoom(v, cx, cy)
}

// Pan shifts the view by fractions of its own size. Positive dx moves right,
// positive dy moves up.
func Pan(v View, dx, dy float64) View {
	ox := v.Width() * dx
	oy := v.Height() * dy
	return View{
		Left:   v.Left + ox,
		Right:  v.Right + ox,
		Top:    v.Top + oy,
		Bottom: v.Bottom + oy,
	}
}
