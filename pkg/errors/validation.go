package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// bookmarkNameRegex matches bookmark names: letters, digits, dash, underscore and dot.
var bookmarkNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateBookmarkName validates a bookmark name for safety and correctness.
// Names become file names and store keys, so anything that could escape a
// directory is rejected:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (..) or separators
//   - Maximum length of 128 characters
func ValidateBookmarkName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "bookmark name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "bookmark name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "bookmark name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "bookmark name cannot contain %q", "..")
	}

	if !bookmarkNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid bookmark name: %q", name)
	}

	return nil
}

// ValidateDimensions checks raster dimensions before any work is dispatched.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidDimensions, "raster dimensions must be positive, got %dx%d", width, height)
	}
	return nil
}

// ValidateBounds checks that plane bounds are finite and strictly ordered.
func ValidateBounds(left, right, top, bottom float64) error {
	for _, v := range []float64{left, right, top, bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidView, "view bounds must be finite")
		}
	}
	if right <= left {
		return New(ErrCodeInvalidView, "right (%g) must be greater than left (%g)", right, left)
	}
	if top <= bottom {
		return New(ErrCodeInvalidView, "top (%g) must be greater than bottom (%g)", top, bottom)
	}
	return nil
}
