// Package fractal holds the pure numeric side of the renderer: the View
// rectangle of the complex plane, the pixel-to-plane mapping, view
// transforms (zoom and pan) and the escape-time kernel.
//
// Nothing in this package holds mutable state, so every function is safe to
// call from any number of goroutines.
//
// # Coordinates
//
// A raster of w×h pixels is mapped onto a View with y growing downward and
// the imaginary part decreasing downward:
//
//	re = left + x*(width/w)
//	im = top  - y*(height/h)
//
// The same mapping is used by the field generator and by click-to-zoom, so a
// zoom on pixel (x, y) centres the next view on exactly the sample that was
// drawn there.
//
// # Escape time
//
// [Escape] iterates z_{n+1} = z_n² + c starting at z_0 = c and returns the
// first index whose iterate satisfies |z|² >= 4. Points that never escape
// saturate at the iteration cap.
package fractal
