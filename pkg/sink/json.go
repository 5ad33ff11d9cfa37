package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/mandelbrot/pkg/field"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	view          *fractal.View
	maxIterations uint32
	indent        bool
}

// WithJSONView records the plane bounds that produced the field.
func WithJSONView(v fractal.View) JSONOption { return func(r *jsonRenderer) { r.view = &v } }

// WithJSONMaxIterations records the iteration cap so readers can tell
// interior samples apart.
func WithJSONMaxIterations(n uint32) JSONOption {
	return func(r *jsonRenderer) { r.maxIterations = n }
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// FieldDocument is the JSON form of an escape field.
type FieldDocument struct {
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	MaxIterations uint32        `json:"max_iterations,omitempty"`
	View          *fractal.View `json:"view,omitempty"`
	Rows          [][]uint32    `json:"rows"`
}

// RenderJSON encodes f with its dimensions.
func RenderJSON(f field.Field, opts ...JSONOption) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("encode json: nil field")
	}
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	doc := FieldDocument{
		Width:         f.Width(),
		Height:        f.Height(),
		MaxIterations: r.maxIterations,
		View:          r.view,
		Rows:          f,
	}
	if r.indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// ReadJSON decodes a document written by [RenderJSON].
func ReadJSON(data []byte) (*FieldDocument, error) {
	var doc FieldDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if len(doc.Rows) != doc.Height {
		return nil, fmt.Errorf("decode json: %d rows, header says %d", len(doc.Rows), doc.Height)
	}
	for y, row := range doc.Rows {
		if len(row) != doc.Width {
			return nil, fmt.Errorf("decode json: row %d has %d samples, header says %d", y, len(row), doc.Width)
		}
	}
	return &doc, nil
}
