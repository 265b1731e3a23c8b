package tui

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrIncompatibleViews is returned when merging views over different buffers
var ErrIncompatibleViews = errors.New("views reference different buffers")

// View is a rectangular window onto a Buffer
// X, Y are absolute buffer coordinates; all access through a View uses local
// coordinates and is clipped to its extent. W == 0 or H == 0 is the empty view.
// Always clamped: X+W <= buf.W, Y+H <= buf.H
type View struct {
	buf  *Buffer
	X, Y int
	W, H int
}

// Buffer returns the backing buffer
func (v View) Buffer() *Buffer {
	return v.buf
}

// Empty reports whether the view covers no cells
func (v View) Empty() bool {
	return v.W <= 0 || v.H <= 0
}

// Bounds returns absolute position and dimensions
func (v View) Bounds() (x, y, w, h int) {
	return v.X, v.Y, v.W, v.H
}

// Sub returns a nested view with coordinates relative to v, clipped to v
// Negative offsets clamp to 0 without reducing the extent
func (v View) Sub(x, y, w, h int) View {
	x, y = max(x, 0), max(y, 0)
	if x > v.W {
		x = v.W
	}
	if y > v.H {
		y = v.H
	}
	w = min(w, v.W-x)
	h = min(h, v.H-y)
	if w <= 0 || h <= 0 {
		return v.empty(v.X+x, v.Y+y)
	}
	return View{buf: v.buf, X: v.X + x, Y: v.Y + y, W: w, H: h}
}

// Shrink trims a margin from each edge; negative sides count as 0
// A zero margin returns v itself
func (v View) Shrink(m Margin) View {
	m = m.normalized()
	if m == (Margin{}) {
		return v
	}
	w := v.W - m.Left - m.Right
	h := v.H - m.Top - m.Bottom
	if w <= 0 || h <= 0 {
		return v.empty(v.X, v.Y)
	}
	return View{buf: v.buf, X: v.X + m.Left, Y: v.Y + m.Top, W: w, H: h}
}

// Inset shrinks by n cells on all sides
func (v View) Inset(n int) View {
	return v.Shrink(Uniform(n))
}

// Merge returns the bounding box of both rectangles
// Cells between two disjoint views become part of the result; grid span
// merging relies on this since adjacent cells always tile the box
func (v View) Merge(o View) (View, error) {
	if v.buf != nil && o.buf != nil && v.buf != o.buf {
		return View{}, errors.WithStack(ErrIncompatibleViews)
	}
	if o.Empty() {
		return v, nil
	}
	if v.Empty() {
		return o, nil
	}

	x0 := min(v.X, o.X)
	y0 := min(v.Y, o.Y)
	x1 := max(v.X+v.W, o.X+o.W)
	y1 := max(v.Y+v.H, o.Y+o.H)
	return View{buf: v.buf, X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, nil
}

// At reads a local cell, NoRune when out of range
func (v View) At(x, y int) rune {
	if x < 0 || x >= v.W || y < 0 || y >= v.H {
		return NoRune
	}
	return v.buf.At(v.X+x, v.Y+y)
}

// Set writes a local cell, out-of-range writes are ignored
func (v View) Set(x, y int, r rune) {
	if x < 0 || x >= v.W || y < 0 || y >= v.H {
		return
	}
	v.buf.Set(v.X+x, v.Y+y, r)
}

// Fill sets every cell of the view
func (v View) Fill(r rune) {
	for y := 0; y < v.H; y++ {
		for x := 0; x < v.W; x++ {
			v.buf.Set(v.X+x, v.Y+y, r)
		}
	}
}

// Equal compares the underlying buffers by dimensions and content, not the
// rectangles. Diagnostics and tests only
func (v View) Equal(o View) bool {
	return v.buf.Equal(o.buf)
}

// String dumps the view's rows joined by '\n'
func (v View) String() string {
	if v.Empty() {
		return ""
	}
	var sb strings.Builder
	for y := 0; y < v.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := v.buf.Row(v.Y + y)
		writeRow(&sb, row[v.X:v.X+v.W])
	}
	return sb.String()
}

func (v View) empty(x, y int) View {
	return View{buf: v.buf, X: x, Y: y}
}
