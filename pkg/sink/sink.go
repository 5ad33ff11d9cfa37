package sink

import (
	"image"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/field"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatBMP:  true,
	FormatTIFF: true,
	FormatJSON: true,
}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
	FormatJSON: "application/json",
}

// ContentType returns the MIME type for format, or application/octet-stream
// for unknown formats.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsRaster reports whether format is encoded from the colorized image.
func IsRaster(format string) bool {
	return format != FormatJSON && ValidFormats[format]
}

// Encode writes img or f in the given format. Raster formats require img;
// JSON requires f.
func Encode(img image.Image, f field.Field, format string, opts ...JSONOption) ([]byte, error) {
	switch format {
	case FormatPNG:
		return RenderPNG(img)
	case FormatBMP:
		return RenderBMP(img)
	case FormatTIFF:
		return RenderTIFF(img)
	case FormatJSON:
		return RenderJSON(f, opts...)
	default:
		return nil, mberr.New(mberr.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}
