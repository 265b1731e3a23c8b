package tui

import (
	"log/slog"
)

// Compositor lays an element tree out into a Buffer
// Stateless apart from the logger; safe to reuse across frames
type Compositor struct {
	logger *slog.Logger
}

// NewCompositor returns a compositor logging layout anomalies to logger, nil discards
func NewCompositor(logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compositor{logger: logger}
}

var defaultCompositor = NewCompositor(nil)

// Compose renders root into a fresh blank buffer of w×h
func Compose(root Element, w, h int) *Buffer {
	return defaultCompositor.Compose(root, w, h)
}

// RenderElement renders e into v
func RenderElement(e Element, v View) {
	defaultCompositor.RenderElement(e, v)
}

// Compose renders root into a fresh blank buffer of w×h
func (c *Compositor) Compose(root Element, w, h int) *Buffer {
	buf := NewBuffer(w, h)
	buf.Fill(Blank)
	if root != nil {
		c.RenderElement(root, buf.View())
	}
	return buf
}

// RenderElement applies margin and border insets then dispatches on the variant
// An element whose insets leave no room is skipped
func (c *Compositor) RenderElement(e Element, v View) {
	p := e.placement()

	v = v.Shrink(p.Margin)
	if v.Empty() {
		return
	}

	if p.BorderThickness > 0 {
		drawBorder(v, p.BorderThickness, p.HorizontalBorder, p.VerticalBorder)
		v = v.Inset(p.BorderThickness)
		if v.Empty() {
			return
		}
	}

	e.render(c, v)
}
