package field

import (
	"context"
	"sync"
	"testing"
	"time"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/observability"
)

var golden4x4 = Field{
	{0, 0, 1, 1},
	{0, 2, 3, 6},
	{0, 50, 50, 50},
	{0, 2, 3, 6},
}

var golden8x6 = Field{
	{0, 0, 0, 1, 1, 1, 1, 1},
	{0, 0, 1, 2, 2, 4, 3, 1},
	{0, 0, 2, 4, 5, 30, 30, 3},
	{0, 0, 30, 30, 30, 30, 30, 3},
	{0, 0, 2, 4, 5, 30, 30, 3},
	{0, 0, 1, 2, 2, 4, 3, 1},
}

func TestGenerateGolden(t *testing.T) {
	tests := []struct {
		name          string
		view          fractal.View
		width, height int
		max           uint32
		want          Field
	}{
		{"default 4x4", fractal.DefaultView(), 4, 4, 50, golden4x4},
		{"default 8x6", fractal.DefaultView(), 8, 6, 30, golden8x6},
		{"single sample", fractal.View{Left: -2, Right: 2, Top: 2, Bottom: -2}, 1, 1, 10, Field{{0}}},
		{"unit square", fractal.View{Left: -1, Right: 1, Top: 1, Bottom: -1}, 2, 2, 20, Field{{2, 20}, {20, 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewGenerator(WithWorkers(3)).Generate(context.Background(), tt.view, tt.width, tt.height, tt.max)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Generate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateShapeAndBounds(t *testing.T) {
	const w, h, max = 37, 23, 64
	f, err := NewGenerator().Generate(context.Background(), fractal.DefaultView(), w, h, max)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if f.Height() != h {
		t.Fatalf("Height() = %d, want %d", f.Height(), h)
	}
	for y, row := range f {
		if len(row) != w {
			t.Fatalf("row %d len = %d, want %d", y, len(row), w)
		}
		for x, c := range row {
			if c > max {
				t.Errorf("f[%d][%d] = %d exceeds max %d", y, x, c, max)
			}
		}
	}
}

func TestGenerateMatchesEscape(t *testing.T) {
	v := fractal.View{Left: -0.8, Right: -0.7, Top: 0.15, Bottom: 0.05}
	const w, h, max = 16, 12, 200
	f, err := NewGenerator(WithWorkers(4)).Generate(context.Background(), v, w, h, max)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			re, im := v.PixelToPoint(x, y, w, h)
			if want := fractal.Escape(re, im, max); f[y][x] != want {
				t.Errorf("f[%d][%d] = %d, want %d", y, x, f[y][x], want)
			}
		}
	}
}

func TestGenerateDeterministicAcrossWorkers(t *testing.T) {
	v := fractal.View{Left: -0.75, Right: -0.73, Top: 0.12, Bottom: 0.1}
	ref, err := NewGenerator(WithWorkers(1)).Generate(context.Background(), v, 64, 48, 300)
	if err != nil {
		t.Fatalf("Generate with 1 worker: %v", err)
	}
	for _, n := range []int{2, 8, 64} {
		got, err := NewGenerator(WithWorkers(n)).Generate(context.Background(), v, 64, 48, 300)
		if err != nil {
			t.Fatalf("Generate with %d workers: %v", n, err)
		}
		if !got.Equal(ref) {
			t.Errorf("field with %d workers differs from single-worker field", n)
		}
	}
}

func TestGenerateReverseCompletionOrder(t *testing.T) {
	const h = 6
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	next := h - 1

	g := NewGenerator(WithWorkers(h))
	g.beforeSend = func(y int) {
		mu.Lock()
		defer mu.Unlock()
		for next != y {
			cond.Wait()
		}
		next--
		cond.Broadcast()
	}

	got, err := g.Generate(context.Background(), fractal.DefaultView(), 8, h, 30)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !got.Equal(golden8x6) {
		t.Errorf("Generate() = %v, want %v", got, golden8x6)
	}
}

func TestGenerateZeroIterations(t *testing.T) {
	f, err := NewGenerator().Generate(context.Background(), fractal.DefaultView(), 5, 4, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if f.Max() != 0 {
		t.Errorf("Max() = %d, want 0 for max iterations 0", f.Max())
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		view fractal.View
		w, h int
		code mberr.Code
	}{
		{"zero width", fractal.DefaultView(), 0, 4, mberr.ErrCodeInvalidDimensions},
		{"negative height", fractal.DefaultView(), 4, -1, mberr.ErrCodeInvalidDimensions},
		{"inverted view", fractal.View{Left: 1, Right: -1, Top: 1, Bottom: -1}, 4, 4, mberr.ErrCodeInvalidView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator()
			g.beforeSend = func(int) { t.Error("worker ran for invalid input") }

			f, err := g.Generate(context.Background(), tt.view, tt.w, tt.h, 10)
			if f != nil {
				t.Errorf("Generate() returned a field for invalid input")
			}
			if !mberr.Is(err, tt.code) {
				t.Errorf("Generate() err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGenerateWorkerFault(t *testing.T) {
	g := NewGenerator(WithWorkers(4))
	g.beforeSend = func(y int) {
		if y == 3 {
			panic("boom")
		}
	}

	f, err := g.Generate(context.Background(), fractal.DefaultView(), 8, 16, 20)
	if f != nil {
		t.Error("Generate() returned a partial field after a worker fault")
	}
	if !mberr.Is(err, mberr.ErrCodeWorkerFault) {
		t.Errorf("Generate() err = %v, want WORKER_FAULT", err)
	}
}

func TestGenerateCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator().Generate(ctx, fractal.DefaultView(), 4, 4, 10)
	if !mberr.Is(err, mberr.ErrCodeCanceled) {
		t.Errorf("Generate() err = %v, want CANCELED", err)
	}
}

func TestGenerateCanceledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := NewGenerator(WithWorkers(2))
	g.beforeSend = func(y int) {
		if y == 0 {
			cancel()
		}
	}

	done := make(chan struct{})
	var (
		f   Field
		err error
	)
	go func() {
		defer close(done)
		f, err = g.Generate(ctx, fractal.DefaultView(), 32, 256, 50)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Generate did not return after cancellation")
	}
	if f != nil {
		t.Error("Generate() returned a field after cancellation")
	}
	if !mberr.Is(err, mberr.ErrCodeCanceled) {
		t.Errorf("Generate() err = %v, want CANCELED", err)
	}
}

type recordingHooks struct {
	observability.NoopGeneratorHooks

	mu       sync.Mutex
	started  int
	rows     map[int]int
	finished int
	lastErr  error
}

func (r *recordingHooks) OnGenerateStart(context.Context, int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingHooks) OnRowComplete(_ context.Context, row int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row]++
}

func (r *recordingHooks) OnGenerateComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
	r.lastErr = err
}

func TestGenerateHooks(t *testing.T) {
	rec := &recordingHooks{rows: map[int]int{}}
	observability.SetGeneratorHooks(rec)
	t.Cleanup(observability.Reset)

	const h = 12
	if _, err := NewGenerator(WithWorkers(3)).Generate(context.Background(), fractal.DefaultView(), 10, h, 20); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if rec.started != 1 || rec.finished != 1 {
		t.Errorf("start/complete = %d/%d, want 1/1", rec.started, rec.finished)
	}
	if rec.lastErr != nil {
		t.Errorf("OnGenerateComplete err = %v, want nil", rec.lastErr)
	}
	for y := 0; y < h; y++ {
		if rec.rows[y] != 1 {
			t.Errorf("row %d reported %d times, want 1", y, rec.rows[y])
		}
	}
}

func TestNewGeneratorDefaults(t *testing.T) {
	if NewGenerator().Workers() < 1 {
		t.Error("default worker count < 1")
	}
	if got := NewGenerator(WithWorkers(-3)).Workers(); got < 1 {
		t.Errorf("WithWorkers(-3) Workers() = %d, want >= 1", got)
	}
	if got := NewGenerator(WithWorkers(5)).Workers(); got != 5 {
		t.Errorf("WithWorkers(5) Workers() = %d, want 5", got)
	}
}

func BenchmarkGenerate(b *testing.B) {
	g := NewGenerator()
	v := fractal.DefaultView()
	for i := 0; i < b.N; i++ {
		if _, err := g.Generate(context.Background(), v, 256, 192, 256); err != nil {
			b.Fatal(err)
		}
	}
}
