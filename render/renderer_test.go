package render

import (
	"testing"

	"github.com/lixenwraith/gridview/terminal/termtest"
	"github.com/lixenwraith/gridview/terminal/tui"
)

func TestFlushRepositionsBeforeEveryRow(t *testing.T) {
	term := termtest.New(3, 3)
	r := NewRenderer(term, nil)

	buf := tui.NewBuffer(3, 3)
	buf.Fill(tui.Blank)
	buf.Set(0, 0, 'a')
	buf.Set(2, 2, 'z')

	r.Flush(buf)

	expected := []string{
		"move 0,0", "write a  ",
		"move 0,1", "write    ",
		"move 0,2", "write   z",
		"sync",
	}
	ops := term.Ops()
	if len(ops) != len(expected) {
		t.Fatalf("Expected %d ops, got %d: %v", len(expected), len(ops), ops)
	}
	for i := range expected {
		if ops[i] != expected[i] {
			t.Errorf("Op %d: expected %q, got %q", i, expected[i], ops[i])
		}
	}
}

func TestFlushSubstitutesSentinels(t *testing.T) {
	term := termtest.New(4, 1)
	r := NewRenderer(term, nil)

	buf := tui.NewBuffer(4, 1)
	buf.Set(0, 0, '世')
	buf.Set(1, 0, tui.WideTail)
	buf.Set(3, 0, 'x')

	r.Flush(buf)

	if term.Count("write 世 x") != 1 {
		t.Errorf("Expected NoRune as blank and WideTail skipped, got %v", term.Ops())
	}
}

func TestFlushToleratesCursorFailure(t *testing.T) {
	term := termtest.New(2, 2)
	term.Fail("move")
	r := NewRenderer(term, nil)

	buf := tui.NewBuffer(2, 2)
	buf.Fill('#')
	r.Flush(buf)

	if got := term.Count("write ##"); got != 2 {
		t.Errorf("Expected both rows written despite move failures, got %d", got)
	}
	if term.Count("sync") != 1 {
		t.Error("Expected sync after rows")
	}
}

func TestFrameUsesTerminalSize(t *testing.T) {
	term := termtest.New(5, 2)
	r := NewRenderer(term, nil)

	tb := tui.NewTextBlock("ok")
	tb.BorderThickness = 0
	buf := r.Frame(tb)

	if buf.W != 5 || buf.H != 2 {
		t.Fatalf("Expected 5x2 frame, got %dx%d", buf.W, buf.H)
	}
	if term.Count("write ok   ") != 1 {
		t.Errorf("Expected composed row written, got %v", term.Ops())
	}
}
