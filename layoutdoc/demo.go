package layoutdoc

import "github.com/lixenwraith/gridview/terminal/tui"

// DemoYAML is the built-in layout shown when no document is configured
const DemoYAML = `type: grid
rows: [10, auto]
columns: [10, auto, auto]
children:
  - type: grid
    row: 0
    column: 0
    row_span: 2
    column_span: 2
    margin: 1
    border: 1
    horizontal_border: "#"
    vertical_border: "║"
    children:
      - type: text
        content: |
          My TextBlock
          My TextBlock
          My TextBlock
  - type: text
    row: 0
    column: 2
    content: |
      gridview
      Esc or Ctrl+C quits
      resize to relayout
  - type: text
    row: 1
    column: 2
    margin: {top: 1, right: 1, bottom: 1, left: 1}
    horizontal_border: "="
    content: "幅 wide glyphs are clipped whole"
`

// Demo returns a fresh element tree for DemoYAML
func Demo() tui.Element {
	root, err := Parse([]byte(DemoYAML))
	if err != nil {
		panic("layoutdoc: demo layout: " + err.Error())
	}
	return root
}
