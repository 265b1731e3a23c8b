package tui

// TrackSizes distributes available cells over declared tracks
// Fixed tracks take their extent; the remainder is split evenly among auto
// tracks with the division remainder dropped. Extents are then clamped so the
// running offset never passes available
func TrackSizes(sizes []Size, available int) []int {
	available = max(available, 0)

	fixed, autos := 0, 0
	for _, s := range sizes {
		if s.Auto {
			autos++
		} else {
			fixed += max(s.Fixed, 0)
		}
	}

	share := 0
	if autos > 0 {
		share = max(available-fixed, 0) / autos
	}

	extents := make([]int, len(sizes))
	offset := 0
	for i, s := range sizes {
		ext := share
		if !s.Auto {
			ext = max(s.Fixed, 0)
		}
		ext = min(ext, available-offset)
		extents[i] = ext
		offset += ext
	}
	return extents
}

func (g *Grid) render(c *Compositor, v View) {
	c.renderGrid(g, v)
}

// renderGrid sizes the tracks, builds the cell matrix and lays out children
func (c *Compositor) renderGrid(g *Grid, v View) {
	rows, cols := g.Rows, g.Columns
	// Synthesized tracks are local to this pass
	if len(rows) == 0 {
		rows = []*Row{{Size: Auto}}
	}
	if len(cols) == 0 {
		cols = []*Column{{Size: Auto}}
	}

	rowSizes := make([]Size, len(rows))
	for i, r := range rows {
		rowSizes[i] = r.Size
	}
	colSizes := make([]Size, len(cols))
	for i, col := range cols {
		colSizes[i] = col.Size
	}
	heights := TrackSizes(rowSizes, v.H)
	widths := TrackSizes(colSizes, v.W)
	for i, r := range rows {
		r.extent = heights[i]
	}
	for i, col := range cols {
		col.extent = widths[i]
	}

	cells := make([][]View, len(rows))
	y := 0
	for r := range rows {
		cells[r] = make([]View, len(cols))
		x := 0
		for col := range cols {
			cells[r][col] = v.Sub(x, y, widths[col], heights[r])
			x += widths[col]
		}
		y += heights[r]
	}

	for _, child := range g.Children {
		if child == nil {
			continue
		}
		p := child.placement()
		if p.Row < 0 || p.Row >= len(rows) || p.Column < 0 || p.Column >= len(cols) {
			c.logger.Debug("element skipped, anchor outside grid",
				"row", p.Row, "column", p.Column, "rows", len(rows), "columns", len(cols))
			continue
		}

		cell, err := spanCell(cells, p)
		if err != nil {
			c.logger.Error("span merge failed", "row", p.Row, "column", p.Column, "error", err)
			continue
		}
		c.RenderElement(child, cell)
	}
}

// spanCell merges the anchor cell with every cell in the clamped span
func spanCell(cells [][]View, p *Placement) (View, error) {
	rowSpan, colSpan := p.spans()
	rowEnd := min(p.Row+rowSpan, len(cells))
	colEnd := min(p.Column+colSpan, len(cells[p.Row]))

	merged := cells[p.Row][p.Column]
	for r := p.Row; r < rowEnd; r++ {
		for col := p.Column; col < colEnd; col++ {
			if r == p.Row && col == p.Column {
				continue
			}
			var err error
			if merged, err = merged.Merge(cells[r][col]); err != nil {
				return View{}, err
			}
		}
	}
	return merged, nil
}
