package fractal

// escapeRadiusSq is the squared escape radius. Comparing squared magnitudes
// avoids a square root per iteration.
const escapeRadiusSq = 4.0

// Escape returns the number of iterations after which the orbit of c = re+im·i
// leaves the radius-2 disc, or maxIterations if it never does.
//
// The orbit starts at z_0 = c and the magnitude test runs before each step, so
// a sample already outside the disc returns 0 and maxIterations == 0 always
// returns 0.
func Escape(re, im float64, maxIterations uint32) uint32 {
	zr, zi := re, im
	for i := uint32(0); i < maxIterations; i++ {
		// Explicit conversions stop the compiler from fusing multiply-adds,
		// which keeps results identical across architectures.
		rr := float64(zr * zr)
		ii := float64(zi * zi)
		if rr+ii >= escapeRadiusSq {
			return i
		}
		zr, zi = rr-ii+re, float64(2*zr*zi)+im
	}
	return maxIterations
}

// EscapeLine computes one raster row starting at (re0, im), stepping re by
// step for each of the width samples, and writes the counts into dst.
// dst must have at least width entries.
func EscapeLine(dst []uint32, re0, im, step float64, width int, maxIterations uint32) {
	for x := 0; x < width; x++ {
		dst[x] = Escape(re0+float64(float64(x)*step), im, maxIterations)
	}
}
