// Package field generates escape-time fields: the row-major grid of
// iteration counts for a View sampled on a w×h raster.
//
// # Work partitioning
//
// Work is partitioned one unit per raster row. A fixed pool of worker
// goroutines pulls row indices from a dispatch channel, computes the row with
// [fractal.EscapeLine], and sends the row back tagged with its index on a
// completion channel. The calling goroutine is the single consumer: it writes
// each row into a preallocated field by index, so completion order never
// affects the result.
//
// # Guarantees
//
//   - The output is identical for identical inputs, whatever the worker count.
//   - A call either returns a field with exactly height rows of width counts,
//     or an error and no field. A panic in a worker, a lost or duplicated row,
//     or a cancelled context all fail the whole call.
//   - Cancellation is cooperative: workers check the context between rows.
//
// # Usage
//
//	gen := field.NewGenerator(field.WithWorkers(8))
//	f, err := gen.Generate(ctx, fractal.DefaultView(), 800, 686, 256)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(f.At(400, 343))
package field
