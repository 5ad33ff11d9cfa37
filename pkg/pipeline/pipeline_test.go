package pipeline

import (
	"testing"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"bmp", false},
		{"tiff", false},
		{"json", false},
		{"svg", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !mberr.Is(err, mberr.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, mberr.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"png", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"png", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidatePalette(t *testing.T) {
	tests := []struct {
		palette string
		wantErr bool
	}{
		{"gray", false},
		{"hsv", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidatePalette(tt.palette)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePalette(%q) error = %v, wantErr %v", tt.palette, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero Options should validate: %v", err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", o.Width, o.Height, DefaultWidth, DefaultHeight)
	}
	if o.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", o.MaxIterations, DefaultMaxIterations)
	}
	if o.Palette != DefaultPalette {
		t.Errorf("Palette = %q, want %q", o.Palette, DefaultPalette)
	}
	if len(o.Formats) != 1 || o.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", o.Formats, DefaultFormat)
	}
	if o.ResolvedView() != fractal.DefaultView() {
		t.Errorf("view = %v, want default view", o.ResolvedView())
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call failed: %v", err)
	}
}

func TestValidateRegion(t *testing.T) {
	o := Options{Region: "seahorse-valley"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	want, _ := fractal.Region("seahorse-valley")
	if o.ResolvedView() != want {
		t.Errorf("view = %v, want %v", o.ResolvedView(), want)
	}
}

func TestValidateErrors(t *testing.T) {
	inverted := fractal.View{Left: 1, Right: 0, Top: 1, Bottom: 0}
	bounds := fractal.DefaultView()

	tests := []struct {
		name string
		opts Options
		code mberr.Code
	}{
		{"negative width", Options{Width: -1}, mberr.ErrCodeInvalidDimensions},
		{"oversized", Options{Width: MaxDimension + 1, Height: 10}, mberr.ErrCodeInvalidDimensions},
		{"inverted view", Options{View: &inverted}, mberr.ErrCodeInvalidView},
		{"unknown region", Options{Region: "atlantis"}, mberr.ErrCodeInvalidView},
		{"region and bounds", Options{Region: "full", View: &bounds}, mberr.ErrCodeInvalidInput},
		{"bad palette", Options{Palette: "sepia"}, mberr.ErrCodeInvalidPalette},
		{"bad format", Options{Formats: []string{"gif"}}, mberr.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !mberr.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestKeyOpts(t *testing.T) {
	o := Options{Width: 10, Height: 20, MaxIterations: 30, Palette: "hsv"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	fk := o.FieldKeyOpts()
	if fk.Width != 10 || fk.Height != 20 || fk.MaxIterations != 30 || fk.View != fractal.DefaultView() {
		t.Errorf("FieldKeyOpts() = %+v", fk)
	}
	ak := o.ArtifactKeyOpts("tiff")
	if ak.Palette != "hsv" || ak.Format != "tiff" {
		t.Errorf("ArtifactKeyOpts() = %+v", ak)
	}
}
