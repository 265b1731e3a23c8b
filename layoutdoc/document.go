// Package layoutdoc reads element trees from YAML layout documents.
//
// A document is a single node. Grid nodes declare rows and columns as "auto"
// or a fixed integer extent and list their children; text nodes carry content.
//
//	type: grid
//	rows: [10, auto]
//	columns: [10, auto, auto]
//	children:
//	  - type: text
//	    content: hello
//	    column: 1
//	    column_span: 2
package layoutdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/gridview/terminal/tui"
)

// Node types
const (
	TypeGrid = "grid"
	TypeText = "text"
)

// ErrEmptyDocument is returned when a document holds no node
var ErrEmptyDocument = errors.New("empty layout document")

// Node is one element in a layout document
type Node struct {
	Type    string `yaml:"type"`
	Content string `yaml:"content,omitempty"`

	Row        int `yaml:"row,omitempty"`
	Column     int `yaml:"column,omitempty"`
	RowSpan    int `yaml:"row_span,omitempty"`
	ColumnSpan int `yaml:"column_span,omitempty"`

	Margin *Margin `yaml:"margin,omitempty"`

	// Border thickness; text defaults to 1, grid to 0
	Border           *int   `yaml:"border,omitempty"`
	HorizontalBorder string `yaml:"horizontal_border,omitempty"`
	VerticalBorder   string `yaml:"vertical_border,omitempty"`

	Rows     []Track `yaml:"rows,omitempty"`
	Columns  []Track `yaml:"columns,omitempty"`
	Children []Node  `yaml:"children,omitempty"`
}

// Margin accepts either a scalar for all edges or a top/right/bottom/left mapping
type Margin tui.Margin

// UnmarshalYAML implements yaml.Unmarshaler
func (m *Margin) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("line %d: margin: %w", value.Line, err)
		}
		*m = Margin(tui.Uniform(n))
		return nil
	}

	var edges struct {
		Top    int `yaml:"top"`
		Right  int `yaml:"right"`
		Bottom int `yaml:"bottom"`
		Left   int `yaml:"left"`
	}
	if err := value.Decode(&edges); err != nil {
		return fmt.Errorf("line %d: margin: %w", value.Line, err)
	}
	*m = Margin{Top: edges.Top, Right: edges.Right, Bottom: edges.Bottom, Left: edges.Left}
	return nil
}

// Track is a row or column declaration: "auto" or a non-negative integer
type Track tui.Size

// UnmarshalYAML implements yaml.Unmarshaler
func (t *Track) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: track must be \"auto\" or an integer", value.Line)
	}
	if strings.EqualFold(value.Value, "auto") {
		*t = Track(tui.Auto)
		return nil
	}
	n, err := strconv.Atoi(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: track %q must be \"auto\" or an integer", value.Line, value.Value)
	}
	if n < 0 {
		return fmt.Errorf("line %d: track size %d is negative", value.Line, n)
	}
	*t = Track(tui.Fixed(n))
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (t Track) MarshalYAML() (any, error) {
	if t.Auto {
		return "auto", nil
	}
	return t.Fixed, nil
}

// Parse decodes a layout document and builds its element tree
// Unknown fields are rejected
func Parse(data []byte) (tui.Element, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var root Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return root.Build()
}

// Load reads and parses a layout document from disk
func Load(path string) (tui.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Build converts the node and its children into elements
func (n *Node) Build() (tui.Element, error) {
	return n.build("root")
}

func (n *Node) build(where string) (tui.Element, error) {
	switch strings.ToLower(n.Type) {
	case TypeText:
		if len(n.Children) > 0 || len(n.Rows) > 0 || len(n.Columns) > 0 {
			return nil, fmt.Errorf("%s: text node cannot declare rows, columns or children", where)
		}
		tb := tui.NewTextBlock(n.Content)
		if err := n.place(&tb.Placement, where); err != nil {
			return nil, err
		}
		return tb, nil

	case TypeGrid:
		if n.Content != "" {
			return nil, fmt.Errorf("%s: grid node cannot carry content", where)
		}
		g := tui.NewGrid()
		if err := n.place(&g.Placement, where); err != nil {
			return nil, err
		}
		for _, r := range n.Rows {
			g.AddRow(tui.Size(r))
		}
		for _, c := range n.Columns {
			g.AddColumn(tui.Size(c))
		}
		for i := range n.Children {
			child := &n.Children[i]
			e, err := child.build(fmt.Sprintf("%s.children[%d]", where, i))
			if err != nil {
				return nil, err
			}
			g.Add(e, child.Row, child.Column)
		}
		return g, nil

	case "":
		return nil, fmt.Errorf("%s: missing node type", where)
	default:
		return nil, fmt.Errorf("%s: unknown node type %q", where, n.Type)
	}
}

// place copies the shared fields onto p, leaving constructor defaults for
// anything the node omits
func (n *Node) place(p *tui.Placement, where string) error {
	if n.RowSpan > 0 {
		p.RowSpan = n.RowSpan
	}
	if n.ColumnSpan > 0 {
		p.ColumnSpan = n.ColumnSpan
	}
	if n.Margin != nil {
		p.Margin = tui.Margin(*n.Margin)
	}
	if n.Border != nil {
		p.BorderThickness = max(*n.Border, 0)
	}

	var err error
	if p.HorizontalBorder, err = glyph(n.HorizontalBorder, p.HorizontalBorder); err != nil {
		return fmt.Errorf("%s: horizontal_border: %w", where, err)
	}
	if p.VerticalBorder, err = glyph(n.VerticalBorder, p.VerticalBorder); err != nil {
		return fmt.Errorf("%s: vertical_border: %w", where, err)
	}
	return nil
}

func glyph(s string, def rune) (rune, error) {
	if s == "" {
		return def, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("glyph %q must be a single character", s)
	}
	// Border rings are laid out one cell per glyph
	if tui.TextWidth(s) != 1 {
		return 0, fmt.Errorf("glyph %q must be one column wide", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
