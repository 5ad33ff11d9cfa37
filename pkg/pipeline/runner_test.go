package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/matzehuels/mandelbrot/pkg/cache"
	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/field"
	"github.com/matzehuels/mandelbrot/pkg/sink"
)

var golden4x4 = field.Field{
	{0, 0, 1, 1},
	{0, 2, 3, 6},
	{0, 50, 50, 50},
	{0, 2, 3, 6},
}

func smallOptions() Options {
	return Options{
		Width:         4,
		Height:        4,
		MaxIterations: 50,
		Workers:       2,
		Formats:       []string{sink.FormatPNG, sink.FormatJSON},
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), smallOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Field.Equal(golden4x4) {
		t.Errorf("Field = %v, want %v", res.Field, golden4x4)
	}
	if res.Stats.Pixels != 16 || res.Stats.Interior != 3 || res.Stats.Workers != 2 {
		t.Errorf("Stats = %+v, want 16 pixels, 3 interior, 2 workers", res.Stats)
	}

	img, err := png.Decode(bytes.NewReader(res.Artifacts[sink.FormatPNG]))
	if err != nil {
		t.Fatalf("png artifact: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("png bounds = %v, want 4x4", b)
	}

	doc, err := sink.ReadJSON(res.Artifacts[sink.FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !field.Field(doc.Rows).Equal(golden4x4) || doc.MaxIterations != 50 {
		t.Errorf("json artifact = %+v", doc)
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache(16)
	r := NewRunner(mem, nil, nil)

	first, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.FieldHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}

	second, err := r.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.FieldHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !second.Field.Equal(first.Field) {
		t.Error("cached field differs from computed field")
	}
	if first.FieldKey != second.FieldKey {
		t.Error("field key changed between identical runs")
	}

	// Worker count does not affect the key
	opts := smallOptions()
	opts.Workers = 7
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if !third.CacheInfo.FieldHit {
		t.Error("changing workers should still hit the field cache")
	}

	opts = smallOptions()
	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fresh.CacheInfo.FieldHit || fresh.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", fresh.CacheInfo)
	}
}

func TestRunnerPaletteChangeReusesField(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(16), nil, nil)

	if _, err := r.Execute(ctx, smallOptions()); err != nil {
		t.Fatal(err)
	}
	opts := smallOptions()
	opts.Palette = "hsv"
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.FieldHit || res.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want field hit and render miss", res.CacheInfo)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := smallOptions()
	opts.Height = -4

	_, err := r.Execute(context.Background(), opts)
	if !mberr.Is(err, mberr.ErrCodeInvalidDimensions) {
		t.Errorf("Execute err = %v, want INVALID_DIMENSIONS", err)
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).GenerateField(ctx, smallOptions())
	if !mberr.Is(err, mberr.ErrCodeCanceled) {
		t.Errorf("GenerateField err = %v, want CANCELED", err)
	}
}

// ttlCache records the TTL of every Set.
type ttlCache struct {
	cache.NullCache
	ttls []time.Duration
}

func (c *ttlCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.ttls = append(c.ttls, ttl)
	return nil
}

func TestRunnerTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want []time.Duration
	}{
		{"defaults", 0, []time.Duration{cache.TTLField, cache.TTLArtifact, cache.TTLArtifact}},
		{"override", time.Minute, []time.Duration{time.Minute, time.Minute, time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &ttlCache{}
			r := NewRunner(c, nil, nil)
			r.TTL = tt.ttl
			if _, err := r.Execute(context.Background(), smallOptions()); err != nil {
				t.Fatal(err)
			}
			if len(c.ttls) != len(tt.want) {
				t.Fatalf("Set called %d times, want %d", len(c.ttls), len(tt.want))
			}
			for i, got := range c.ttls {
				if got != tt.want[i] {
					t.Errorf("ttl[%d] = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}
