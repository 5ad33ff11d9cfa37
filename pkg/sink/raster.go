package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// RenderPNG encodes img as PNG.
func RenderPNG(img image.Image) ([]byte, error) {
	return encodeRaster(img, FormatPNG, func(buf *bytes.Buffer) error {
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		return enc.Encode(buf, img)
	})
}

// RenderBMP encodes img as an uncompressed BMP.
func RenderBMP(img image.Image) ([]byte, error) {
	return encodeRaster(img, FormatBMP, func(buf *bytes.Buffer) error {
		return bmp.Encode(buf, img)
	})
}

// RenderTIFF encodes img as a deflate-compressed TIFF.
func RenderTIFF(img image.Image) ([]byte, error) {
	return encodeRaster(img, FormatTIFF, func(buf *bytes.Buffer) error {
		return tiff.Encode(buf, img, &tiff.Options{Compression: tiff.Deflate})
	})
}

func encodeRaster(img image.Image, format string, encode func(*bytes.Buffer) error) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode %s: nil image", format)
	}
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
