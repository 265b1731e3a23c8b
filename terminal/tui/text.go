package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

func (t *TextBlock) render(c *Compositor, v View) {
	lines := strings.Split(t.Content, "\n")
	for y, line := range lines {
		if y >= v.H {
			break
		}
		drawLine(v, y, line)
	}
}

// drawLine writes one line at row y without wrapping
// Each grapheme occupies its display width; a wide grapheme that does not
// fit ends the line
func drawLine(v View, y int, line string) {
	line = ansi.Strip(strings.ReplaceAll(line, "\r", ""))

	x := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		w := runewidth.StringWidth(g.Str())
		if w <= 0 {
			continue
		}
		if x+w > v.W {
			return
		}
		v.Set(x, y, clusterRune(g.Str()))
		for i := 1; i < w; i++ {
			v.Set(x+i, y, WideTail)
		}
		x += w
	}
}

// clusterRune picks the single rune a cell stores for a grapheme cluster
// Clusters with a precomposed form (e + U+0301 -> é) use it; otherwise only the
// base rune is kept and the remaining marks or joiners are dropped
func clusterRune(cluster string) rune {
	runes := []rune(cluster)
	if len(runes) > 1 {
		if composed := []rune(norm.NFC.String(cluster)); len(composed) == 1 {
			return composed[0]
		}
	}
	return runes[0]
}

// TextWidth returns the display width of s after stripping escape sequences
func TextWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}
