package field

import "testing"

func TestNewShape(t *testing.T) {
	f := New(3, 2)
	if f.Width() != 3 || f.Height() != 2 {
		t.Fatalf("New(3, 2) shape = %dx%d, want 3x2", f.Width(), f.Height())
	}
	if got := Field(nil).Width(); got != 0 {
		t.Errorf("nil field Width() = %d, want 0", got)
	}
}

func TestFieldStats(t *testing.T) {
	f := Field{
		{0, 2, 5},
		{5, 5, 1},
	}

	if got := f.Max(); got != 5 {
		t.Errorf("Max() = %d, want 5", got)
	}
	if got := f.Interior(5); got != 3 {
		t.Errorf("Interior(5) = %d, want 3", got)
	}
	if got := f.At(1, 0); got != 2 {
		t.Errorf("At(1, 0) = %d, want 2", got)
	}

	h := f.Histogram(5)
	want := []int{1, 1, 1, 0, 0, 3}
	if len(h) != len(want) {
		t.Fatalf("Histogram(5) len = %d, want %d", len(h), len(want))
	}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("Histogram(5)[%d] = %d, want %d", i, h[i], want[i])
		}
	}
}

func TestHistogramFoldsOverflow(t *testing.T) {
	h := Field{{9, 1}}.Histogram(3)
	if h[3] != 1 || h[1] != 1 {
		t.Errorf("Histogram(3) = %v, want overflow folded into last bucket", h)
	}
}

func TestFieldEqual(t *testing.T) {
	a := Field{{1, 2}, {3, 4}}
	tests := []struct {
		name string
		b    Field
		want bool
	}{
		{"same", Field{{1, 2}, {3, 4}}, true},
		{"value differs", Field{{1, 2}, {3, 5}}, false},
		{"fewer rows", Field{{1, 2}}, false},
		{"ragged", Field{{1, 2}, {3}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
