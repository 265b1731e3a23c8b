package tui

import (
	"strings"
	"testing"
)

func TestTrackSizes(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []Size
		available int
		expected  []int
	}{
		{"Even remainder", []Size{Fixed(3), Auto, Auto}, 13, []int{3, 5, 5}},
		{"Odd remainder dropped", []Size{Fixed(3), Auto, Auto}, 14, []int{3, 5, 5}},
		{"All auto", []Size{Auto, Auto, Auto}, 10, []int{3, 3, 3}},
		{"Fixed overflow clamps", []Size{Fixed(8), Fixed(8)}, 10, []int{8, 2}},
		{"Negative remainder gives autos zero", []Size{Fixed(8), Auto}, 5, []int{5, 0}},
		{"Auto before fixed", []Size{Auto, Fixed(4)}, 10, []int{6, 4}},
		{"Nothing available", []Size{Auto, Fixed(2)}, 0, []int{0, 0}},
		{"Negative fixed counts as zero", []Size{{Fixed: -3}, Auto}, 6, []int{0, 6}},
		{"No tracks", nil, 10, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrackSizes(tt.sizes, tt.available)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			sum := 0
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
					break
				}
				sum += got[i]
			}
			if sum > max(tt.available, 0) {
				t.Errorf("Extents %v exceed available %d", got, tt.available)
			}
		})
	}
}

func threeByThreeCells() [][]View {
	buf := NewBuffer(6, 6)
	root := buf.View()
	cells := make([][]View, 3)
	for r := range cells {
		cells[r] = make([]View, 3)
		for c := range cells[r] {
			cells[r][c] = root.Sub(c*2, r*2, 2, 2)
		}
	}
	return cells
}

func TestSpanCellCoversSpannedCells(t *testing.T) {
	cells := threeByThreeCells()
	p := DefaultPlacement()
	p.RowSpan, p.ColumnSpan = 2, 2

	v, err := spanCell(cells, &p)
	if err != nil {
		t.Fatalf("spanCell failed: %v", err)
	}
	x, y, w, h := v.Bounds()
	if x != 0 || y != 0 || w != 4 || h != 4 {
		t.Errorf("Expected cells (0,0)-(1,1) as (0,0,4,4), got (%d,%d,%d,%d)", x, y, w, h)
	}
}

func TestSpanCellClampsToMatrix(t *testing.T) {
	cells := threeByThreeCells()
	p := DefaultPlacement()
	p.Row, p.Column = 2, 2
	p.RowSpan, p.ColumnSpan = 2, 2

	v, err := spanCell(cells, &p)
	if err != nil {
		t.Fatalf("spanCell failed: %v", err)
	}
	if v != cells[2][2] {
		t.Errorf("Expected only cell (2,2), got %+v", v)
	}
}

func TestSpanBelowOneTreatedAsOne(t *testing.T) {
	cells := threeByThreeCells()
	p := DefaultPlacement()
	p.Row, p.Column = 1, 1
	p.RowSpan, p.ColumnSpan = 0, -4

	v, err := spanCell(cells, &p)
	if err != nil {
		t.Fatalf("spanCell failed: %v", err)
	}
	if v != cells[1][1] {
		t.Errorf("Expected only cell (1,1), got %+v", v)
	}
}

func borderBlock(rowSpan, colSpan int) *TextBlock {
	tb := NewTextBlock("")
	tb.HorizontalBorder = '#'
	tb.VerticalBorder = '#'
	tb.RowSpan, tb.ColumnSpan = rowSpan, colSpan
	return tb
}

func fixedGrid(rows, cols, size int) *Grid {
	g := NewGrid()
	for i := 0; i < rows; i++ {
		g.AddRow(Fixed(size))
	}
	for i := 0; i < cols; i++ {
		g.AddColumn(Fixed(size))
	}
	return g
}

func TestRenderGridSpannedChild(t *testing.T) {
	g := fixedGrid(3, 3, 2)
	g.Add(borderBlock(2, 2), 0, 0)
	g.Add(borderBlock(2, 2), 2, 2)

	buf := Compose(g, 6, 6)
	expected := strings.Join([]string{
		"####  ",
		"#  #  ",
		"#  #  ",
		"####  ",
		"    ##",
		"    ##",
	}, "\n")
	if got := buf.String(); got != expected {
		t.Errorf("Unexpected layout:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestRenderGridSkipsInvalidAnchor(t *testing.T) {
	g := NewGrid()
	g.Add(borderBlock(1, 1), 5, 0)
	g.Add(borderBlock(1, 1), 0, -1)
	unplaced := borderBlock(1, 1)
	g.Children = append(g.Children, unplaced)
	unplaced.Row, unplaced.Column = Unplaced, Unplaced

	buf := Compose(g, 4, 3)
	for i, r := range buf.Cells {
		if r != Blank {
			t.Fatalf("Expected blank buffer, found %q at %d", r, i)
		}
	}
}

func TestRenderGridEmptyRoot(t *testing.T) {
	g := NewGrid()
	buf := Compose(g, 80, 24)

	if buf.W != 80 || buf.H != 24 {
		t.Fatalf("Expected 80x24 buffer, got %dx%d", buf.W, buf.H)
	}
	for i, r := range buf.Cells {
		if r != Blank {
			t.Fatalf("Expected blank buffer, found %q at %d", r, i)
		}
	}
	if len(g.Rows) != 0 || len(g.Columns) != 0 {
		t.Error("Synthesized tracks must not be stored on the grid")
	}
}

func TestRenderGridRecordsExtents(t *testing.T) {
	g := NewGrid().
		AddRow(Fixed(3)).AddRow(Auto).AddRow(Auto).
		AddColumn(Auto).AddColumn(Fixed(10))

	Compose(g, 30, 14)

	heights := []int{g.Rows[0].Extent(), g.Rows[1].Extent(), g.Rows[2].Extent()}
	if heights[0] != 3 || heights[1] != 5 || heights[2] != 5 {
		t.Errorf("Expected row extents [3 5 5], got %v", heights)
	}
	if g.Columns[0].Extent() != 20 || g.Columns[1].Extent() != 10 {
		t.Errorf("Expected column extents [20 10], got [%d %d]",
			g.Columns[0].Extent(), g.Columns[1].Extent())
	}

	// Extents follow the next pass
	Compose(g, 30, 5)
	if g.Rows[0].Extent() != 3 || g.Rows[1].Extent() != 1 {
		t.Errorf("Expected extents to be recomputed, got %d and %d",
			g.Rows[0].Extent(), g.Rows[1].Extent())
	}
}

func TestRenderNestedGrid(t *testing.T) {
	inner := fixedGrid(1, 2, 2)
	inner.Add(borderBlock(1, 1), 0, 1)

	outer := fixedGrid(2, 2, 4)
	outer.Add(inner, 1, 1)

	buf := Compose(outer, 8, 8)
	// Inner grid starts at (4,4); its second column at (6,4)
	for _, pt := range [][2]int{{6, 4}, {7, 4}, {6, 5}, {7, 5}} {
		if got := buf.At(pt[0], pt[1]); got != '#' {
			t.Errorf("Expected border at %v, got %q", pt, got)
		}
	}
	if got := buf.At(4, 4); got != Blank {
		t.Errorf("Expected blank at inner (0,0), got %q", got)
	}
}
