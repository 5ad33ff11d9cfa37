package field

// Field is a row-major grid of escape counts: Field[y][x] is the count for
// raster pixel (x, y). Every row has the same length.
type Field [][]uint32

// New allocates a zeroed width×height field.
func New(width, height int) Field {
	f := make(Field, height)
	for y := range f {
		f[y] = make([]uint32, width)
	}
	return f
}

// Width returns the number of columns.
func (f Field) Width() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// Height returns the number of rows.
func (f Field) Height() int { return len(f) }

// At returns the count at pixel (x, y).
func (f Field) At(x, y int) uint32 { return f[y][x] }

// Max returns the largest count in the field.
func (f Field) Max() uint32 {
	var m uint32
	for _, row := range f {
		for _, c := range row {
			if c > m {
				m = c
			}
		}
	}
	return m
}

// Interior returns how many samples saturated at maxIterations.
func (f Field) Interior(maxIterations uint32) int {
	n := 0
	for _, row := range f {
		for _, c := range row {
			if c == maxIterations {
				n++
			}
		}
	}
	return n
}

// Histogram returns counts per iteration value, indexed 0..maxIterations.
// Values above maxIterations are folded into the last bucket.
func (f Field) Histogram(maxIterations uint32) []int {
	h := make([]int, int(maxIterations)+1)
	for _, row := range f {
		for _, c := range row {
			if c > maxIterations {
				c = maxIterations
			}
			h[c]++
		}
	}
	return h
}

// Equal reports whether f and o have the same shape and counts.
func (f Field) Equal(o Field) bool {
	if len(f) != len(o) {
		return false
	}
	for y := range f {
		if len(f[y]) != len(o[y]) {
			return false
		}
		for x := range f[y] {
			if f[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}
