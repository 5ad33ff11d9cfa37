package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
	"github.com/matzehuels/mandelbrot/pkg/sink"
)

// Explorer command types sent by websocket clients.
const (
	cmdRender = "render"
	cmdZoom   = "zoom"
	cmdPan    = "pan"
	cmdReset  = "reset"
)

const wsReadLimit = 4096

// wsCommand is a client message. Fields apply only to the commands that use
// them; zero values mean "unchanged".
type wsCommand struct {
	Type string `json:"type"`

	// zoom
	X      int     `json:"x,omitempty"`
	Y      int     `json:"y,omitempty"`
	Factor float64 `json:"factor,omitempty"`

	// pan, as fractions of the view size
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// render settings
	Region        string `json:"region,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	MaxIterations uint32 `json:"max_iterations,omitempty"`
	Palette       string `json:"palette,omitempty"`
}

// wsFrame is a server text message. A "view" frame is always followed by
// one binary PNG frame.
type wsFrame struct {
	Type          string        `json:"type"`
	View          *fractal.View `json:"view,omitempty"`
	Width         int           `json:"width,omitempty"`
	Height        int           `json:"height,omitempty"`
	MaxIterations uint32        `json:"max_iterations,omitempty"`
	Palette       string        `json:"palette,omitempty"`
	Cached        bool          `json:"cached,omitempty"`
	GenerateTime  string        `json:"generate_time,omitempty"`
	Code          string        `json:"code,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// explorer is the per-connection navigation state.
type explorer struct {
	start fractal.View
	view  fractal.View
	opts  pipeline.Options
}

func newExplorer(start fractal.View, defaults pipeline.Options) *explorer {
	opts := pipeline.Options{
		Width:         defaults.Width,
		Height:        defaults.Height,
		MaxIterations: defaults.MaxIterations,
		Workers:       defaults.Workers,
		Palette:       defaults.Palette,
	}
	if opts.Width == 0 {
		opts.Width = pipeline.DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = pipeline.DefaultHeight
	}
	return &explorer{start: start, view: start, opts: opts}
}

// apply updates the state for cmd. On error the state is unchanged.
func (e *explorer) apply(cmd wsCommand) error {
	next := *e

	if cmd.Width != 0 || cmd.Height != 0 {
		w, h := next.opts.Width, next.opts.Height
		if cmd.Width != 0 {
			w = cmd.Width
		}
		if cmd.Height != 0 {
			h = cmd.Height
		}
		if err := mberr.ValidateDimensions(w, h); err != nil {
			return err
		}
		next.opts.Width, next.opts.Height = w, h
	}
	if cmd.MaxIterations != 0 {
		next.opts.MaxIterations = cmd.MaxIterations
	}
	if cmd.Palette != "" {
		if err := pipeline.ValidatePalette(cmd.Palette); err != nil {
			return err
		}
		next.opts.Palette = cmd.Palette
	}

	switch cmd.Type {
	case cmdRender:
		if cmd.Region != "" {
			v, ok := fractal.Region(cmd.Region)
			if !ok {
				return mberr.New(mberr.ErrCodeInvalidView, "unknown region %q", cmd.Region)
			}
			next.view = v
		}
	case cmdZoom:
		if cmd.X < 0 || cmd.X >= next.opts.Width || cmd.Y < 0 || cmd.Y >= next.opts.Height {
			return mberr.New(mberr.ErrCodeInvalidInput, "pixel (%d, %d) outside %dx%d raster",
				cmd.X, cmd.Y, next.opts.Width, next.opts.Height)
		}
		factor := cmd.Factor
		if factor == 0 {
			factor = 2
		}
		if factor < 0 {
			return mberr.New(mberr.ErrCodeInvalidInput, "factor must be positive")
		}
		cx, cy := next.view.PixelToPoint(cmd.X, cmd.Y, next.opts.Width, next.opts.Height)
		next.view = fractal.ZoomBy(next.view, cx, cy, factor)
	case cmdPan:
		next.view = fractal.Pan(next.view, cmd.DX, cmd.DY)
	case cmdReset:
		next.view = next.start
	default:
		return mberr.New(mberr.ErrCodeInvalidInput, "unknown command %q", cmd.Type)
	}

	if err := next.view.Validate(); err != nil {
		return err
	}
	*e = next
	return nil
}

func (e *explorer) options() pipeline.Options {
	opts := e.opts
	v := e.view
	opts.View = &v
	opts.Formats = []string{sink.FormatPNG}
	return opts
}

// handleWebsocket serves GET /ws. Commands are handled in order; each one
// produces either a view frame plus a PNG frame, or an error frame.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.AllowedOrigins,
	})
	if err != nil {
		s.logger.Debug("websocket accept failed", "err", err)
		return
	}
	defer c.CloseNow()
	c.SetReadLimit(wsReadLimit)

	ctx := r.Context()
	e := newExplorer(s.cfg.StartView, s.cfg.Defaults)
	s.logger.Debug("explorer connected", "request_id", RequestID(ctx))

	for {
		var cmd wsCommand
		if err := wsjson.Read(ctx, c, &cmd); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.Close(websocket.StatusNormalClosure, "")
			default:
				if !errors.Is(err, context.Canceled) {
					s.logger.Debug("explorer read failed", "err", err)
				}
			}
			return
		}

		if err := s.exploreStep(ctx, c, e, cmd); err != nil {
			s.logger.Debug("explorer write failed", "err", err)
			return
		}
	}
}

// exploreStep applies one command and writes the response frames. Only
// connection errors are returned; command errors are reported to the client.
func (s *Server) exploreStep(ctx context.Context, c *websocket.Conn, e *explorer, cmd wsCommand) error {
	if err := e.apply(cmd); err != nil {
		return writeErrorFrame(ctx, c, err)
	}

	opts := e.options()
	res, err := s.cfg.Runner.Execute(ctx, opts)
	if err != nil {
		return writeErrorFrame(ctx, c, err)
	}

	frame := wsFrame{
		Type:          "view",
		View:          &res.View,
		Width:         res.Stats.Width,
		Height:        res.Stats.Height,
		MaxIterations: opts.MaxIterations,
		Palette:       opts.Palette,
		Cached:        res.CacheInfo.FieldHit,
		GenerateTime:  res.Stats.GenerateTime.String(),
	}
	if frame.MaxIterations == 0 {
		frame.MaxIterations = pipeline.DefaultMaxIterations
	}
	if frame.Palette == "" {
		frame.Palette = pipeline.DefaultPalette
	}
	if err := wsjson.Write(ctx, c, frame); err != nil {
		return err
	}
	return c.Write(ctx, websocket.MessageBinary, res.Artifacts[sink.FormatPNG])
}

func writeErrorFrame(ctx context.Context, c *websocket.Conn, err error) error {
	code := mberr.GetCode(err)
	if code == "" {
		code = mberr.ErrCodeInternal
	}
	return wsjson.Write(ctx, c, wsFrame{Type: "error", Code: string(code), Error: mberr.UserMessage(err)})
}
