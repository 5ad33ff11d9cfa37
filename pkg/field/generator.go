package field

import (
	"context"
	"errors"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/observability"
)

// Generator computes escape fields on a fixed-size worker pool.
//
// A Generator holds only configuration; workers are started and torn down
// within each Generate call, so one Generator may serve concurrent calls.
type Generator struct {
	workers int
	logger  *log.Logger

	// beforeSend runs on the worker after a row is computed and before it is
	// delivered. Tests use it to force completion orders and worker faults.
	beforeSend func(y int)
}

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers sets the worker count. Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(g *Generator) { g.workers = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a Generator. Without options it uses one worker per
// available CPU and discards log output.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.workers <= 0 {
		g.workers = runtime.GOMAXPROCS(0)
	}
	if g.logger == nil {
		g.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return g
}

// Workers returns the configured worker count.
func (g *Generator) Workers() int { return g.workers }

// job is the read-only input shared by every worker of one call.
type job struct {
	left, top      float64
	scaleX, scaleY float64
	width          int
	maxIterations  uint32
}

// rowResult is one completed row tagged with its raster index.
type rowResult struct {
	y    int
	line []uint32
}

// Generate computes the width×height escape field of v with the given
// iteration cap. It blocks until every row is computed.
//
// Invalid dimensions or bounds are rejected before any worker starts. On
// any failure no field is returned.
func (g *Generator) Generate(ctx context.Context, v fractal.View, width, height int, maxIterations uint32) (Field, error) {
	if err := mberr.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, mberr.Wrap(mberr.ErrCodeCanceled, err, "generation canceled before dispatch")
	}

	hooks := observability.Generator()
	hooks.OnGenerateStart(ctx, width, height, g.workers)
	start := time.Now()

	f, err := g.run(ctx, v, width, height, maxIterations)

	duration := time.Since(start)
	hooks.OnGenerateComplete(ctx, width, height, duration, err)
	if err != nil {
		g.logger.Debug("generation failed", "width", width, "height", height, "err", err)
		return nil, err
	}

	g.logger.Debug("generated field",
		"width", width,
		"height", height,
		"max_iterations", maxIterations,
		"workers", g.workers,
		"duration", duration)
	return f, nil
}

// run fans rows out to the worker pool and reassembles them by index.
func (g *Generator) run(ctx context.Context, v fractal.View, width, height int, maxIterations uint32) (Field, error) {
	scaleX, scaleY := v.Scale(width, height)
	j := job{
		left:          v.Left,
		top:           v.Top,
		scaleX:        scaleX,
		scaleY:        scaleY,
		width:         width,
		maxIterations: maxIterations,
	}

	rows := make(chan int)
	results := make(chan rowResult, g.workers)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(rows)
		for y := 0; y < height; y++ {
			select {
			case rows <- y:
			case <-egctx.Done():
				return egctx.Err()
			}
		}
		return nil
	})
	for i := 0; i < g.workers; i++ {
		eg.Go(func() error {
			return g.work(egctx, j, rows, results)
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- eg.Wait()
		close(results)
	}()

	hooks := observability.Generator()
	f := make(Field, height)
	received := 0
	var dispatchErr error
	for r := range results {
		if r.y < 0 || r.y >= height || f[r.y] != nil {
			if dispatchErr == nil {
				dispatchErr = mberr.New(mberr.ErrCodeDispatchFailure, "row %d delivered twice or out of range", r.y)
			}
			continue
		}
		f[r.y] = r.line
		received++
		hooks.OnRowComplete(ctx, r.y)
	}

	if err := <-waitErr; err != nil {
		return nil, classify(ctx, err)
	}
	if dispatchErr != nil {
		return nil, dispatchErr
	}
	if received != height {
		return nil, mberr.New(mberr.ErrCodeDispatchFailure, "received %d of %d rows", received, height)
	}
	return f, nil
}

// work computes rows until the dispatch channel closes or ctx is done.
// A panic while computing a row fails the whole call.
func (g *Generator) work(ctx context.Context, j job, rows <-chan int, results chan<- rowResult) (err error) {
	y := -1
	defer func() {
		if r := recover(); r != nil {
			err = mberr.New(mberr.ErrCodeWorkerFault, "worker panic on row %d: %v", y, r)
		}
	}()

	for y = range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := make([]uint32, j.width)
		im := j.top - float64(float64(y)*j.scaleY)
		fractal.EscapeLine(line, j.left, im, j.scaleX, j.width, j.maxIterations)

		if g.beforeSend != nil {
			g.beforeSend(y)
		}

		select {
		case results <- rowResult{y: y, line: line}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// classify maps a pool error onto the error taxonomy.
func classify(ctx context.Context, err error) error {
	var e *mberr.Error
	if errors.As(err, &e) {
		return err
	}
	if cerr := ctx.Err(); cerr != nil {
		return mberr.Wrap(mberr.ErrCodeCanceled, cerr, "generation canceled")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return mberr.Wrap(mberr.ErrCodeCanceled, err, "generation canceled")
	}
	return mberr.Wrap(mberr.ErrCodeInternal, err, "generation failed")
}
