package tui

// drawBorder draws thickness rings on the outer extent of v
// Every vertical column spans the full height, then every horizontal row the
// full width, so the horizontal glyph fills the corner blocks
func drawBorder(v View, thickness int, horizontal, vertical rune) {
	for b := 0; b < thickness; b++ {
		for y := 0; y < v.H; y++ {
			v.Set(b, y, vertical)
			v.Set(v.W-1-b, y, vertical)
		}
	}
	for b := 0; b < thickness; b++ {
		for x := 0; x < v.W; x++ {
			v.Set(x, b, horizontal)
			v.Set(x, v.H-1-b, horizontal)
		}
	}
}
