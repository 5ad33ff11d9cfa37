package fractal

import (
	"math"
	"testing"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
)

func TestDefaultView(t *testing.T) {
	v := DefaultView()
	if v.Width() != 3.5 {
		t.Errorf("Width() = %g, want 3.5", v.Width())
	}
	if v.Height() != 3 {
		t.Errorf("Height() = %g, want 3", v.Height())
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestViewValidate(t *testing.T) {
	bad := []View{
		{Left: 1, Right: 1, Top: 1, Bottom: 0},
		{Left: 0, Right: 1, Top: 0, Bottom: 1},
		{Left: math.NaN(), Right: 1, Top: 1, Bottom: 0},
	}
	for _, v := range bad {
		err := v.Validate()
		if err == nil {
			t.Errorf("Validate(%v) = nil, want error", v)
			continue
		}
		if !mberr.Is(err, mberr.ErrCodeInvalidView) {
			t.Errorf("Validate(%v) code = %v, want %v", v, mberr.GetCode(err), mberr.ErrCodeInvalidView)
		}
	}
}

func TestPixelToPointTopLeft(t *testing.T) {
	v := View{Left: -1.25, Right: 0.75, Top: 0.5, Bottom: -0.5}
	re, im := v.PixelToPoint(0, 0, 1, 1)
	if re != v.Left || im != v.Top {
		t.Errorf("PixelToPoint(0, 0) = (%g, %g), want (%g, %g)", re, im, v.Left, v.Top)
	}
}

func TestPixelToPointDownward(t *testing.T) {
	v := DefaultView()
	_, im0 := v.PixelToPoint(0, 0, 4, 4)
	_, im1 := v.PixelToPoint(0, 1, 4, 4)
	if im1 >= im0 {
		t.Errorf("imaginary part should decrease downward: row0=%g row1=%g", im0, im1)
	}
	re, im := v.PixelToPoint(2, 2, 4, 4)
	if re != -0.75 || im != 0 {
		t.Errorf("PixelToPoint(2, 2) = (%g, %g), want (-0.75, 0)", re, im)
	}
}

func TestZoom(t *testing.T) {
	v := DefaultView()
	z := Zoom(v, -0.5, 0.25)

	if z.Width() != v.Width()/2 {
		t.Errorf("zoomed width = %g, want %g", z.Width(), v.Width()/2)
	}
	if z.Height() != v.Height()/2 {
		t.Errorf("zoomed height = %g, want %g", z.Height(), v.Height()/2)
	}
	cx, cy := z.Center()
	if cx != -0.5 || cy != 0.25 {
		t.Errorf("zoomed center = (%g, %g), want (-0.5, 0.25)", cx, cy)
	}
	if v != DefaultView() {
		t.Error("Zoom must not mutate its input")
	}
}

func TestZoomByOutAndInvalid(t *testing.T) {
	v := DefaultView()
	out := ZoomBy(v, 0, 0, 0.5)
	if out.Width() != v.Width()*2 {
		t.Errorf("zoom out width = %g, want %g", out.Width(), v.Width()*2)
	}
	if got := ZoomBy(v, 0, 0, 0); got != v {
		t.Errorf("ZoomBy factor 0 = %v, want unchanged %v", got, v)
	}
}

func TestZoomAtPixel(t *testing.T) {
	v := DefaultView()
	z := ZoomAtPixel(v, 2, 2, 4, 4)
	cx, cy := z.Center()
	if cx != -0.75 || cy != 0 {
		t.Errorf("ZoomAtPixel center = (%g, %g), want (-0.75, 0)", cx, cy)
	}
}

func TestPan(t *testing.T) {
	v := View{Left: 0, Right: 2, Top: 1, Bottom: -1}
	p := Pan(v, 0.5, -0.25)
	want := View{Left: 1, Right: 3, Top: 0.5, Bottom: -1.5}
	if p != want {
		t.Errorf("Pan() = %v, want %v", p, want)
	}
}

func TestContains(t *testing.T) {
	v := DefaultView()
	if !v.Contains(0, 0) {
		t.Error("default view should contain the origin")
	}
	if v.Contains(2, 0) {
		t.Error("default view should not contain 2+0i")
	}
}

func TestRegions(t *testing.T) {
	names := RegionNames()
	if len(names) == 0 {
		t.Fatal("RegionNames() is empty")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("RegionNames() not sorted: %q before %q", names[i-1], names[i])
		}
	}
	for _, name := range names {
		v, ok := Region(name)
		if !ok {
			t.Errorf("Region(%q) not found", name)
			continue
		}
		if err := v.Validate(); err != nil {
			t.Errorf("Region(%q) invalid: %v", name, err)
		}
	}
	if _, ok := Region("nowhere"); ok {
		t.Error("Region(nowhere) should not exist")
	}
}
