package server

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
)

func TestExplorerApply(t *testing.T) {
	e := newExplorer(fractal.DefaultView(), pipeline.Options{Width: 4, Height: 4})

	if err := e.apply(wsCommand{Type: cmdZoom, X: 0, Y: 0}); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	want := fractal.View{Left: -3.375, Right: -1.625, Top: 2.25, Bottom: 0.75}
	if e.view != want {
		t.Errorf("after zoom view = %v, want %v", e.view, want)
	}

	if err := e.apply(wsCommand{Type: cmdReset}); err != nil {
		t.Fatal(err)
	}
	if e.view != fractal.DefaultView() {
		t.Errorf("after reset view = %v", e.view)
	}

	if err := e.apply(wsCommand{Type: cmdRender, Region: "seahorse-valley", Width: 8, Palette: "hsv"}); err != nil {
		t.Fatal(err)
	}
	sh, _ := fractal.Region("seahorse-valley")
	if e.view != sh || e.opts.Width != 8 || e.opts.Height != 4 || e.opts.Palette != "hsv" {
		t.Errorf("after render state = %v %+v", e.view, e.opts)
	}
}

func TestExplorerApplyErrorsLeaveStateUnchanged(t *testing.T) {
	e := newExplorer(fractal.DefaultView(), pipeline.Options{Width: 4, Height: 4})
	tests := []struct {
		cmd  wsCommand
		code mberr.Code
	}{
		{wsCommand{Type: "teleport"}, mberr.ErrCodeInvalidInput},
		{wsCommand{Type: cmdZoom, X: 4, Y: 0}, mberr.ErrCodeInvalidInput},
		{wsCommand{Type: cmdZoom, X: 1, Y: 1, Factor: -1}, mberr.ErrCodeInvalidInput},
		{wsCommand{Type: cmdRender, Width: -3}, mberr.ErrCodeInvalidDimensions},
		{wsCommand{Type: cmdRender, Palette: "sepia"}, mberr.ErrCodeInvalidPalette},
		{wsCommand{Type: cmdRender, Region: "atlantis"}, mberr.ErrCodeInvalidView},
	}
	for _, tt := range tests {
		before := *e
		err := e.apply(tt.cmd)
		if !mberr.Is(err, tt.code) {
			t.Errorf("apply(%+v) err = %v, want %s", tt.cmd, err, tt.code)
		}
		if e.view != before.view || e.opts.Width != before.opts.Width || e.opts.Palette != before.opts.Palette {
			t.Errorf("apply(%+v) changed state on error", tt.cmd)
		}
	}
}

func TestWebsocketExplorer(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.CloseNow()

	if err := wsjson.Write(ctx, c, wsCommand{Type: cmdRender}); err != nil {
		t.Fatal(err)
	}
	var frame wsFrame
	if err := wsjson.Read(ctx, c, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Type != "view" || frame.View == nil || *frame.View != fractal.DefaultView() || frame.Width != 4 {
		t.Fatalf("frame = %+v", frame)
	}
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("message type = %v, want binary", typ)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("png frame: %v", err)
	}

	// Zoom at the top-left pixel
	if err := wsjson.Write(ctx, c, wsCommand{Type: cmdZoom, X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	if err := wsjson.Read(ctx, c, &frame); err != nil {
		t.Fatal(err)
	}
	want := fractal.View{Left: -3.375, Right: -1.625, Top: 2.25, Bottom: 0.75}
	if frame.View == nil || *frame.View != want {
		t.Errorf("zoomed view = %v, want %v", frame.View, want)
	}
	if _, _, err := c.Read(ctx); err != nil {
		t.Fatal(err)
	}

	// Unknown commands produce an error frame and keep the connection open
	if err := wsjson.Write(ctx, c, wsCommand{Type: "teleport"}); err != nil {
		t.Fatal(err)
	}
	var errFrame wsFrame
	if err := wsjson.Read(ctx, c, &errFrame); err != nil {
		t.Fatal(err)
	}
	if errFrame.Type != "error" || errFrame.Code != string(mberr.ErrCodeInvalidInput) {
		t.Errorf("error frame = %+v", errFrame)
	}

	c.Close(websocket.StatusNormalClosure, "")
}
