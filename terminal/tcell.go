package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/encoding"
	"github.com/mattn/go-runewidth"
)

// Tcell adapts a tcell.Screen to Terminal
// tcell owns the alternate screen, so the screen-mode calls are no-ops
type Tcell struct {
	screen tcell.Screen
	keys   chan KeyEvent
	doneCh chan struct{}

	mu            sync.Mutex
	cx, cy        int
	cursorVisible bool
	closed        bool
}

// NewTcellScreen creates and initializes the default tcell screen
func NewTcellScreen() (*Tcell, error) {
	encoding.Register()

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewTcell(screen), nil
}

// NewTcell wraps an already initialized screen and starts forwarding key events
func NewTcell(screen tcell.Screen) *Tcell {
	t := &Tcell{
		screen: screen,
		keys:   make(chan KeyEvent, 256),
		doneCh: make(chan struct{}),
	}
	go t.pollLoop()
	return t
}

// pollLoop forwards key events until the screen is finalized
func (t *Tcell) pollLoop() {
	defer close(t.doneCh)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		kev, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		select {
		case t.keys <- keyFromTcell(kev):
		default:
		}
	}
}

// keyFromTcell maps tcell key events onto KeyEvent
func keyFromTcell(ev *tcell.EventKey) KeyEvent {
	var mod Modifier
	m := ev.Modifiers()
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		return KeyEvent{Key: KeyRune, Rune: ev.Rune(), Mod: mod}
	case k == tcell.KeyEscape:
		return KeyEvent{Key: KeyEscape, Mod: mod}
	case k == tcell.KeyEnter:
		return KeyEvent{Key: KeyEnter, Mod: mod}
	case k == tcell.KeyTab:
		return KeyEvent{Key: KeyTab, Mod: mod}
	case k == tcell.KeyBacktab:
		return KeyEvent{Key: KeyTab, Mod: mod | ModShift}
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return KeyEvent{Key: KeyBackspace, Mod: mod}
	case k == tcell.KeyCtrlSpace:
		return KeyEvent{Key: KeyRune, Rune: ' ', Mod: mod | ModCtrl}
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return KeyEvent{Key: KeyRune, Rune: rune('a' + (k - tcell.KeyCtrlA)), Mod: mod | ModCtrl}
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		return KeyEvent{Key: KeyF1 + Key(k-tcell.KeyF1), Mod: mod}
	}

	if key, ok := tcellKeys[ev.Key()]; ok {
		return KeyEvent{Key: key, Mod: mod}
	}
	return KeyEvent{Mod: mod}
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyHome:   KeyHome,
	tcell.KeyEnd:    KeyEnd,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyInsert: KeyInsert,
	tcell.KeyDelete: KeyDelete,
}

// EnterAlternateScreen implements Terminal
func (t *Tcell) EnterAlternateScreen() error { return t.check() }

// ExitAlternateScreen implements Terminal
func (t *Tcell) ExitAlternateScreen() error { return t.check() }

// ClearAndHome implements Terminal
func (t *Tcell) ClearAndHome() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.screen.Clear()
	t.cx, t.cy = 0, 0
	return nil
}

// SetCursorVisible implements Terminal
func (t *Tcell) SetCursorVisible(visible bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.cursorVisible = visible
	if visible {
		t.screen.ShowCursor(t.cx, t.cy)
	} else {
		t.screen.HideCursor()
	}
	return nil
}

// ReadKey implements Terminal
func (t *Tcell) ReadKey() (KeyEvent, bool) {
	select {
	case ev := <-t.keys:
		return ev, true
	default:
		return KeyEvent{}, false
	}
}

// Size implements Terminal
func (t *Tcell) Size() (int, int) {
	return t.screen.Size()
}

// MoveCursor implements Terminal
func (t *Tcell) MoveCursor(x, y int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.cx, t.cy = max(x, 0), max(y, 0)
	if t.cursorVisible {
		t.screen.ShowCursor(t.cx, t.cy)
	}
	return nil
}

// Write implements Terminal, drawing into the screen's back buffer
func (t *Tcell) Write(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		t.screen.SetContent(t.cx, t.cy, r, nil, tcell.StyleDefault)
		t.cx += w
	}
	return nil
}

// Sync implements Terminal
func (t *Tcell) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.screen.Show()
	return nil
}

// Close implements Terminal
func (t *Tcell) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.screen.Fini()
	<-t.doneCh
	return nil
}

func (t *Tcell) check() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return nil
}
