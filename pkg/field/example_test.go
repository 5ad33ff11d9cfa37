package field_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/mandelbrot/pkg/field"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
)

func ExampleGenerator_Generate() {
	gen := field.NewGenerator(field.WithWorkers(2))
	f, err := gen.Generate(context.Background(), fractal.DefaultView(), 4, 4, 50)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, row := range f {
		fmt.Println(row)
	}
	// Output:
	// [0 0 1 1]
	// [0 2 3 6]
	// [0 50 50 50]
	// [0 2 3 6]
}
