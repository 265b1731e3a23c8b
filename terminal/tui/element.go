package tui

// Unplaced marks an element that is not anchored to a grid cell (the root)
const Unplaced = -1

// Default border glyphs
const (
	DefaultHorizontalBorder = '-'
	DefaultVerticalBorder   = '|'
)

// Margin is per-edge spacing outside an element's border
type Margin struct {
	Top, Right, Bottom, Left int
}

// Uniform returns a margin of n on every edge
func Uniform(n int) Margin {
	return Margin{Top: n, Right: n, Bottom: n, Left: n}
}

func (m Margin) normalized() Margin {
	return Margin{
		Top:    max(m.Top, 0),
		Right:  max(m.Right, 0),
		Bottom: max(m.Bottom, 0),
		Left:   max(m.Left, 0),
	}
}

// Placement holds the fields every element variant carries
type Placement struct {
	Margin Margin

	// Cell anchor inside the parent grid
	Row, Column int

	// Spans below 1 count as 1
	RowSpan, ColumnSpan int

	BorderThickness  int
	HorizontalBorder rune
	VerticalBorder   rune
}

// DefaultPlacement anchors at (0,0) with single spans and default glyphs
func DefaultPlacement() Placement {
	return Placement{
		RowSpan:          1,
		ColumnSpan:       1,
		HorizontalBorder: DefaultHorizontalBorder,
		VerticalBorder:   DefaultVerticalBorder,
	}
}

func (p *Placement) placement() *Placement {
	return p
}

func (p *Placement) spans() (rows, cols int) {
	return max(p.RowSpan, 1), max(p.ColumnSpan, 1)
}

// Element is a node of the layout tree
// Variants embed Placement and implement their own render step
type Element interface {
	placement() *Placement
	render(c *Compositor, v View)
}

// TextBlock renders its content line by line, clipped to its view
type TextBlock struct {
	Placement
	Content string
}

// NewTextBlock returns a text block with a one-cell default border
func NewTextBlock(content string) *TextBlock {
	p := DefaultPlacement()
	p.BorderThickness = 1
	return &TextBlock{Placement: p, Content: content}
}

// Size declares a track as auto-sized or a fixed extent
type Size struct {
	Auto  bool
	Fixed int
}

// Auto is the auto-sized track declaration
var Auto = Size{Auto: true}

// Fixed declares a fixed extent, negative values count as 0
func Fixed(n int) Size {
	return Size{Fixed: max(n, 0)}
}

// Row is a grid row; extent is rewritten on every layout pass
type Row struct {
	Size   Size
	extent int
}

// Extent returns the height assigned by the last layout pass
func (r *Row) Extent() int { return r.extent }

// Column is a grid column; extent is rewritten on every layout pass
type Column struct {
	Size   Size
	extent int
}

// Extent returns the width assigned by the last layout pass
func (c *Column) Extent() int { return c.extent }

// Grid partitions its view into rows and columns and lays children into cells
type Grid struct {
	Placement
	Rows     []*Row
	Columns  []*Column
	Children []Element
}

// NewGrid returns an unplaced, borderless grid
func NewGrid() *Grid {
	p := DefaultPlacement()
	p.Row, p.Column = Unplaced, Unplaced
	return &Grid{Placement: p}
}

// AddRow appends a row track and returns the grid
func (g *Grid) AddRow(s Size) *Grid {
	g.Rows = append(g.Rows, &Row{Size: s})
	return g
}

// AddColumn appends a column track and returns the grid
func (g *Grid) AddColumn(s Size) *Grid {
	g.Columns = append(g.Columns, &Column{Size: s})
	return g
}

// Add places a child at (row, col) and returns the grid
func (g *Grid) Add(e Element, row, col int) *Grid {
	p := e.placement()
	p.Row, p.Column = row, col
	g.Children = append(g.Children, e)
	return g
}
