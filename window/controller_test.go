package window

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/gridview/resize"
	"github.com/lixenwraith/gridview/status"
	"github.com/lixenwraith/gridview/terminal"
	"github.com/lixenwraith/gridview/terminal/termtest"
	"github.com/lixenwraith/gridview/terminal/tui"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func textRoot(s string) tui.Element {
	tb := tui.NewTextBlock(s)
	tb.BorderThickness = 0
	return tb
}

// newStepController wires a controller for direct step() calls without the
// poller goroutine
func newStepController(term *termtest.Fake, clock *resize.ManualClock, onKey func(terminal.KeyEvent)) *Controller {
	c := New(term, Options{Clock: clock, IdleSleep: time.Millisecond, OnKey: onKey})
	c.root = tui.NewGrid()
	c.monitor = resize.New(term.Size, resize.Options{Debounce: DefaultDebounce, Clock: clock})
	return c
}

func lastWrite(ops []string) string {
	for i := len(ops) - 1; i >= 0; i-- {
		if strings.HasPrefix(ops[i], "write ") {
			return strings.TrimPrefix(ops[i], "write ")
		}
	}
	return ""
}

func TestRunQuitsOnEscape(t *testing.T) {
	term := termtest.New(10, 2)
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyEscape})
	c := New(term, Options{})

	if err := c.Run(context.Background(), textRoot("hi")); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	ops := term.Ops()
	if len(ops) < 3 || ops[0] != "alt-enter" || ops[1] != "cursor-hide" || ops[2] != "clear" {
		t.Errorf("Unexpected startup sequence: %v", ops)
	}
	if n := len(ops); ops[n-2] != "cursor-show" || ops[n-1] != "alt-exit" {
		t.Errorf("Expected cursor restore then alt screen exit last, got %v", ops[n-2:])
	}
	if term.Count("write hi        ") != 1 {
		t.Errorf("Expected the first frame before any input, got %v", ops)
	}
	if c.State() != Stopped {
		t.Errorf("Expected Stopped, got %v", c.State())
	}
}

func TestRunQuitsOnCtrlC(t *testing.T) {
	term := termtest.New(4, 1)
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'c', Mod: terminal.ModCtrl})
	c := New(term, Options{})

	if err := c.Run(context.Background(), tui.NewGrid()); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if c.State() != Stopped {
		t.Errorf("Expected Stopped, got %v", c.State())
	}
}

func TestRunDispatchesKeysAndRedraws(t *testing.T) {
	term := termtest.New(4, 1)
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'a'})
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyEscape})

	var got []terminal.KeyEvent
	c := New(term, Options{OnKey: func(ev terminal.KeyEvent) { got = append(got, ev) }})
	if err := c.Run(context.Background(), tui.NewGrid()); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if len(got) != 1 || got[0].Rune != 'a' {
		t.Errorf("Expected OnKey to receive 'a' only, got %v", got)
	}
	if c.Frames() != 2 {
		t.Errorf("Expected startup frame plus one input frame, got %d", c.Frames())
	}
	if term.Count("clear") != 1 {
		t.Errorf("Input redraws must not clear, got %d clears", term.Count("clear"))
	}
}

func TestRunCancelledByContext(t *testing.T) {
	term := termtest.New(4, 1)
	c := New(term, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, tui.NewGrid()) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if ops := term.Ops(); ops[len(ops)-1] != "alt-exit" {
		t.Errorf("Expected terminal restored on cancel, got %v", ops)
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	term := termtest.New(4, 1)
	c := New(term, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, tui.NewGrid())

	deadline := time.Now().Add(2 * time.Second)
	for c.Frames() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("First Run never drew")
		}
		time.Sleep(time.Millisecond)
	}
	if err := c.Run(ctx, tui.NewGrid()); err != ErrRunning {
		t.Errorf("Expected ErrRunning, got %v", err)
	}
}

func TestPostRunsOnLoopAndSetRootRedraws(t *testing.T) {
	term := termtest.New(6, 1)
	c := New(term, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, textRoot("old")) }()

	c.Post(func() { c.SetRoot(textRoot("new")) })

	deadline := time.Now().Add(2 * time.Second)
	for term.Count("write new   ") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Posted root never drawn: %v", term.Ops())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
}

func TestStepSettleCycle(t *testing.T) {
	term := termtest.New(10, 2)
	clock := resize.NewManualClock(epoch)
	c := newStepController(term, clock, nil)

	c.step()
	if c.State() != Idle || c.Frames() != 0 {
		t.Fatalf("Expected idle without frames, got %v / %d", c.State(), c.Frames())
	}

	term.SetSize(12, 3)
	c.monitor.Poll()
	c.step()
	if c.State() != PendingSettle {
		t.Fatalf("Expected PendingSettle after resize, got %v", c.State())
	}

	clock.Advance(100 * time.Millisecond)
	term.SetSize(14, 3)
	c.monitor.Poll()
	c.step()

	clock.Advance(199 * time.Millisecond)
	c.step()
	if c.State() != PendingSettle || c.Frames() != 0 {
		t.Fatalf("Expected to keep waiting, got %v / %d frames", c.State(), c.Frames())
	}

	clock.Advance(time.Millisecond)
	c.step()
	if c.State() != Idle {
		t.Errorf("Expected Idle after settled redraw, got %v", c.State())
	}
	if c.Frames() != 1 {
		t.Errorf("Expected exactly one settled frame, got %d", c.Frames())
	}
	if term.Count("clear") != 1 {
		t.Errorf("Expected clear before settled frame, got %d", term.Count("clear"))
	}
	if got := lastWrite(term.Ops()); got != strings.Repeat(" ", 14) {
		t.Errorf("Expected frame at settled width 14, got %q", got)
	}
}

func TestStepInputFastPathDuringPendingSettle(t *testing.T) {
	term := termtest.New(10, 2)
	clock := resize.NewManualClock(epoch)
	keys := 0
	c := newStepController(term, clock, func(terminal.KeyEvent) { keys++ })

	term.SetSize(20, 2)
	c.monitor.Poll()
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x'})
	c.step()
	c.step()

	if keys != 1 {
		t.Errorf("Expected one dispatched key, got %d", keys)
	}
	if c.Frames() != 1 {
		t.Errorf("Expected an immediate input frame, got %d", c.Frames())
	}
	if term.Count("clear") != 0 {
		t.Error("Input frame must not clear")
	}
	if c.State() != PendingSettle {
		t.Errorf("Expected resize still pending, got %v", c.State())
	}
}

func TestStepQuitKey(t *testing.T) {
	term := termtest.New(10, 2)
	c := newStepController(term, resize.NewManualClock(epoch), nil)

	term.PushKey(terminal.KeyEvent{Key: terminal.KeyEscape})
	if c.step() {
		t.Error("Expected step to report quit")
	}
}

func TestTerminalErrorsDoNotStopLoop(t *testing.T) {
	term := termtest.New(4, 1)
	for _, op := range []string{"alt", "cursor", "clear", "move", "write", "sync"} {
		term.Fail(op)
	}
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'z'})
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyEscape})
	c := New(term, Options{})

	if err := c.Run(context.Background(), tui.NewGrid()); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if c.Frames() != 2 {
		t.Errorf("Expected frames despite failing terminal, got %d", c.Frames())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Idle:          "idle",
		PendingSettle: "pending_settle",
		Settled:       "settled",
		Stopped:       "stopped",
		State(42):     "unknown",
	}
	for s, expected := range tests {
		if s.String() != expected {
			t.Errorf("Expected %q, got %q", expected, s.String())
		}
	}
}

func TestStepPublishesStatus(t *testing.T) {
	term := termtest.New(10, 2)
	clock := resize.NewManualClock(epoch)
	reg := status.NewRegistry()
	c := New(term, Options{Clock: clock, IdleSleep: time.Millisecond, Status: reg})
	c.root = tui.NewGrid()
	c.monitor = resize.New(term.Size, resize.Options{Debounce: DefaultDebounce, Clock: clock})

	c.Post(func() {})
	term.PushKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'a'})
	term.SetSize(11, 2)
	c.monitor.Poll()
	c.step()
	if got := reg.Label(status.LoopState).Load(); got != "pending_settle" {
		t.Errorf("Expected pending_settle label, got %q", got)
	}

	clock.Advance(DefaultDebounce)
	c.step()

	counts := map[string]int64{
		status.Tasks:   1,
		status.Keys:    1,
		status.Resizes: 1,
		status.Settles: 1,
		status.Frames:  1,
	}
	for name, expected := range counts {
		if got := reg.Counter(name).Load(); got != expected {
			t.Errorf("%s: expected %d, got %d", name, expected, got)
		}
	}
	if got := reg.Label(status.LoopState).Load(); got != "idle" {
		t.Errorf("Expected idle label, got %q", got)
	}
	if c.Status() != reg {
		t.Error("Status should return the configured registry")
	}
}
