package render

import (
	"log/slog"

	"github.com/lixenwraith/gridview/terminal"
	"github.com/lixenwraith/gridview/terminal/tui"
)

// Renderer composes element trees and writes whole frames to the terminal
type Renderer struct {
	term       terminal.Terminal
	compositor *tui.Compositor
	logger     *slog.Logger
}

// NewRenderer creates a renderer over term, nil logger discards
func NewRenderer(term terminal.Terminal, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		term:       term,
		compositor: tui.NewCompositor(logger),
		logger:     logger,
	}
}

// Frame composes root at the terminal's current size and flushes it
func (r *Renderer) Frame(root tui.Element) *tui.Buffer {
	w, h := r.term.Size()
	buf := r.compositor.Compose(root, w, h)
	r.Flush(buf)
	return buf
}

// Flush writes buf row by row
// The cursor is moved to column 0 before every row, including the last, so the
// device never wraps or scrolls; a failed move is logged and the row written
// anyway
func (r *Renderer) Flush(buf *tui.Buffer) {
	for y := 0; y < buf.H; y++ {
		if err := r.term.MoveCursor(0, y); err != nil {
			r.logger.Debug("cursor move failed", "row", y, "error", err)
		}
		if err := r.term.Write(buf.RowString(y)); err != nil {
			r.logger.Debug("row write failed", "row", y, "error", err)
		}
	}
	if err := r.term.Sync(); err != nil {
		r.logger.Debug("terminal sync failed", "error", err)
	}
}
