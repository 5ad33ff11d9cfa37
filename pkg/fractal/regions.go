package fractal

import "sort"

// Classic regions / landmarks in the Mandelbrot set, usable wherever a View
// is expected (the --region flag, the [view] config section, /render?region=).
var regions = map[string]View{
	// The whole set, the same frame as DefaultView.
	"full": DefaultView(),

	// Seahorse Valley: dense filaments and repeating "seahorse" curls.
	"seahorse-valley": {Left: -0.8, Right: -0.7, Top: 0.15, Bottom: 0.05},

	// Elephant Valley: large bulb with trunk-like tendrils.
	"elephant-valley": {Left: -1.85, Right: -1.75, Top: -0.02, Bottom: -0.10},

	// Spiral Minibrot: small copy of the set with tight spiral arms.
	"spiral-minibrot": {Left: -0.7435, Right: -0.7420, Top: 0.1325, Bottom: 0.1310},

	// Triple Spiral: threefold symmetric spiral structure.
	"triple-spiral": {Left: -0.7480, Right: -0.7450, Top: 0.0980, Bottom: 0.0950},

	// Valley of the Dragon: deep, highly detailed spiral filaments.
	"valley-of-the-dragon": {Left: -0.7400, Right: -0.7350, Top: 0.1850, Bottom: 0.1800},

	// Minibrot in a mini-spiral: self-similar copy inside a spiral arm.
	"minibrot-mini-spiral": {Left: -1.7390, Right: -1.7375, Top: -0.0220, Bottom: -0.0235},
}

// Region returns the named landmark view.
func Region(name string) (View, bool) {
	v, ok := regions[name]
	return v, ok
}

// RegionNames returns the known region names in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
