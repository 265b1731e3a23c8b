// Package tui lays out grid-based element trees into a character buffer.
//
// A frame is one Buffer. Views are small value handles onto it (offset and
// extent, clipped to the buffer); layout code partitions views, never copies
// cells. Every read or write through a View is clipped, so off-by-one requests
// at edges are harmless.
//
// Layout rules:
//   - Margin, then border rings, are trimmed from an element's view; an element
//     left with no room is skipped
//   - Grid tracks are fixed or auto; auto tracks split what fixed tracks leave,
//     remainder dropped
//   - Children anchor to a cell and may span; spans clamp to the matrix and
//     the spanned cells are merged into their bounding box
//   - Invalid anchors are skipped
//
// Usage pattern:
//
//	grid := tui.NewGrid().
//	    AddRow(tui.Fixed(3)).AddRow(tui.Auto).
//	    AddColumn(tui.Auto).AddColumn(tui.Auto)
//	header := tui.NewTextBlock("title")
//	header.ColumnSpan = 2
//	grid.Add(header, 0, 0)
//
//	buf := tui.Compose(grid, w, h)
package tui
