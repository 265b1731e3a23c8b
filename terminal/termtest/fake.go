// Package termtest provides an in-memory terminal.Terminal for tests
package termtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lixenwraith/gridview/terminal"
)

// ErrInjected is returned by calls listed in Fake.Fail
var ErrInjected = errors.New("injected terminal failure")

// Fake records every call as an op string and serves queued keys
// Safe for concurrent use
type Fake struct {
	mu     sync.Mutex
	ops    []string
	keys   []terminal.KeyEvent
	width  int
	height int
	fail   map[string]bool
	closed bool
}

// New returns a fake terminal of the given size
func New(w, h int) *Fake {
	return &Fake{width: w, height: h, fail: make(map[string]bool)}
}

// Fail makes the named call ("move", "write", "sync", "clear", ...) return ErrInjected
func (f *Fake) Fail(op string) {
	f.mu.Lock()
	f.fail[op] = true
	f.mu.Unlock()
}

// SetSize changes the reported size
func (f *Fake) SetSize(w, h int) {
	f.mu.Lock()
	f.width, f.height = w, h
	f.mu.Unlock()
}

// PushKey queues a key for ReadKey
func (f *Fake) PushKey(ev terminal.KeyEvent) {
	f.mu.Lock()
	f.keys = append(f.keys, ev)
	f.mu.Unlock()
}

// Ops returns a copy of the recorded calls
func (f *Fake) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

// Reset clears the recorded calls
func (f *Fake) Reset() {
	f.mu.Lock()
	f.ops = f.ops[:0]
	f.mu.Unlock()
}

// Count returns how many recorded ops equal op
func (f *Fake) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.ops {
		if o == op {
			n++
		}
	}
	return n
}

// Closed reports whether Close was called
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) record(kind, op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
	if f.fail[kind] {
		return ErrInjected
	}
	return nil
}

func (f *Fake) EnterAlternateScreen() error { return f.record("alt", "alt-enter") }

func (f *Fake) ExitAlternateScreen() error { return f.record("alt", "alt-exit") }

func (f *Fake) ClearAndHome() error { return f.record("clear", "clear") }

func (f *Fake) SetCursorVisible(visible bool) error {
	if visible {
		return f.record("cursor", "cursor-show")
	}
	return f.record("cursor", "cursor-hide")
}

func (f *Fake) ReadKey() (terminal.KeyEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.keys) == 0 {
		return terminal.KeyEvent{}, false
	}
	ev := f.keys[0]
	f.keys = f.keys[1:]
	return ev, true
}

func (f *Fake) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *Fake) MoveCursor(x, y int) error {
	return f.record("move", fmt.Sprintf("move %d,%d", x, y))
}

func (f *Fake) Write(s string) error {
	return f.record("write", "write "+s)
}

func (f *Fake) Sync() error { return f.record("sync", "sync") }

func (f *Fake) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.record("close", "close")
}

var _ terminal.Terminal = (*Fake)(nil)
