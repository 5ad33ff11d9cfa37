// Package sink encodes rendered fields into output formats.
//
// # Overview
//
// A "sink" turns a colorized image or the raw escape field into bytes:
//
//   - PNG: lossless raster via image/png
//   - BMP: uncompressed raster via golang.org/x/image/bmp
//   - TIFF: deflate-compressed raster via golang.org/x/image/tiff
//   - JSON: the raw escape counts with their dimensions
//
// Raster formats consume the image, JSON consumes the field. [Encode]
// dispatches on the format name:
//
//	data, err := sink.Encode(img, f, sink.FormatPNG)
//
// JSON output can carry the view and iteration cap that produced the field:
//
//	data, err := sink.RenderJSON(f,
//	    sink.WithJSONView(v),
//	    sink.WithJSONMaxIterations(256),
//	)
package sink
