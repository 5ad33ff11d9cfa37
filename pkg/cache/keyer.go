package cache

import "github.com/matzehuels/mandelbrot/pkg/fractal"

// Keyer derives cache keys from generation inputs.
type Keyer interface {
	// FieldKey identifies an escape field.
	FieldKey(opts FieldKeyOpts) string

	// ArtifactKey identifies an encoded output derived from a field.
	ArtifactKey(fieldKey string, opts ArtifactKeyOpts) string
}

// FieldKeyOpts are the inputs that fully determine a field. The worker
// count is deliberately absent: it never changes the result.
type FieldKeyOpts struct {
	View          fractal.View `json:"view"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	MaxIterations uint32       `json:"max_iterations"`
}

// ArtifactKeyOpts are the inputs that turn a field into an artifact.
type ArtifactKeyOpts struct {
	Palette string `json:"palette"`
	Format  string `json:"format"`
}

// DefaultKeyer produces "field:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FieldKey hashes the view, raster size and iteration cap.
func (DefaultKeyer) FieldKey(opts FieldKeyOpts) string {
	return hashKey("field", opts)
}

// ArtifactKey hashes the field key with palette and format.
func (DefaultKeyer) ArtifactKey(fieldKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", fieldKey, opts)
}
