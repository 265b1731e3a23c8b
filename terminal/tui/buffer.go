package tui

import "strings"

// Glyph sentinels stored in a Buffer
const (
	NoRune   rune = 0  // No character written; rendered as Blank
	Blank    rune = ' '
	WideTail rune = -1 // Second column of a double-width rune; skipped on output
)

// Buffer is a width×height rune grid backing one frame
// Cells are row-major in a single slice; every View of a frame aliases it
type Buffer struct {
	Cells []rune
	W, H  int
}

// NewBuffer allocates a buffer filled with NoRune, negative dimensions clamp to 0
func NewBuffer(w, h int) *Buffer {
	w, h = max(w, 0), max(h, 0)
	return &Buffer{
		Cells: make([]rune, w*h),
		W:     w,
		H:     h,
	}
}

// At returns the rune at (x, y) or NoRune when out of range
func (b *Buffer) At(x, y int) rune {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return NoRune
	}
	return b.Cells[y*b.W+x]
}

// Set writes a rune, out-of-range writes are ignored
// A write that splits a wide rune from its WideTail blanks the other half, so
// every row keeps its display width
func (b *Buffer) Set(x, y int, r rune) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	i := y*b.W + x
	old := b.Cells[i]
	switch {
	case old == WideTail && r != WideTail:
		// Overwriting a tail orphans the lead on its left
		if x > 0 {
			b.Cells[i-1] = Blank
		}
	case old != WideTail && x+1 < b.W && b.Cells[i+1] == WideTail:
		// Overwriting a lead orphans its tail; a new wide lead rewrites it next
		b.Cells[i+1] = Blank
	}
	b.Cells[i] = r
}

// Fill sets every cell
func (b *Buffer) Fill(r rune) {
	for i := range b.Cells {
		b.Cells[i] = r
	}
}

// Row returns the backing slice of row y, nil when out of range
func (b *Buffer) Row(y int) []rune {
	if y < 0 || y >= b.H {
		return nil
	}
	return b.Cells[y*b.W : (y+1)*b.W]
}

// View returns the full-extent view
func (b *Buffer) View() View {
	return View{buf: b, W: b.W, H: b.H}
}

// Equal compares dimensions and contents
func (b *Buffer) Equal(o *Buffer) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil || b.W != o.W || b.H != o.H {
		return false
	}
	for i, r := range b.Cells {
		if o.Cells[i] != r {
			return false
		}
	}
	return true
}

// String dumps the whole buffer, rows joined by '\n'
func (b *Buffer) String() string {
	return b.View().String()
}

// RowString renders row y for output: NoRune becomes Blank, WideTail is skipped
func (b *Buffer) RowString(y int) string {
	var sb strings.Builder
	writeRow(&sb, b.Row(y))
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []rune) {
	sb.Grow(len(cells))
	for _, r := range cells {
		switch r {
		case WideTail:
		case NoRune:
			sb.WriteRune(Blank)
		default:
			sb.WriteRune(r)
		}
	}
}
