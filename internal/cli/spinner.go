package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/mandelbrot/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a single-line progress indicator on stderr. The message can be
// replaced while it runs; it stops when its context is cancelled.
type Spinner struct {
	out    io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	message string
	width   int // widest line written, for clearing

	started  atomic.Bool
	stopOnce sync.Once
	stopped  chan struct{}
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     w,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		message: message,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started.Store(true)
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	if n := len(s.message) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.out, "\r%s", line)
}

// Stop stops the spinner and clears the line. It may be called repeatedly.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context was cancelled, as opposed to
// the spinner being stopped by its owner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// =============================================================================
// Row Progress
// =============================================================================

// rowProgress is a GeneratorHooks implementation that reports completed rows
// on a spinner.
type rowProgress struct {
	observability.NoopGeneratorHooks
	spinner *Spinner
	label   string
	height  atomic.Int64
	rows    atomic.Int64
}

func (p *rowProgress) OnGenerateStart(ctx context.Context, width, height, workers int) {
	p.height.Store(int64(height))
	p.rows.Store(0)
}

func (p *rowProgress) OnRowComplete(ctx context.Context, row int) {
	n := p.rows.Add(1)
	p.spinner.SetMessage(fmt.Sprintf("%s %d/%d rows", p.label, n, p.height.Load()))
}

// trackRows installs a rowProgress for s and returns a function that restores
// the previous hooks.
func trackRows(s *Spinner, label string) (restore func()) {
	prev := observability.Generator()
	observability.SetGeneratorHooks(&rowProgress{spinner: s, label: label})
	return func() { observability.SetGeneratorHooks(prev) }
}
