package terminal

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// ErrClosed is returned by calls made after Close
var ErrClosed = errors.New("terminal closed")

// Terminal is the capability set the render loop needs from the host terminal
// All calls are best-effort
type Terminal interface {
	// EnterAlternateScreen switches to the alternate screen buffer
	EnterAlternateScreen() error

	// ExitAlternateScreen returns to the primary screen buffer
	ExitAlternateScreen() error

	// ClearAndHome clears the screen and moves the cursor to 0,0
	ClearAndHome() error

	// SetCursorVisible shows or hides the cursor
	SetCursorVisible(visible bool) error

	// ReadKey returns the next pending key without blocking
	ReadKey() (KeyEvent, bool)

	// Size returns current terminal dimensions
	Size() (width, height int)

	// MoveCursor positions the cursor (0-indexed)
	MoveCursor(x, y int) error

	// Write emits text at the cursor
	Write(s string) error

	// Sync pushes buffered output to the device
	Sync() error

	// Close stops input handling and restores the device. Safe to call multiple times
	Close() error
}

// inputStopTimeout bounds the wait for the input goroutine on Close
const inputStopTimeout = 100 * time.Millisecond

// ANSI implements Terminal with escape sequences over a Backend
type ANSI struct {
	backend Backend
	writer  *bufio.Writer
	input   *inputReader

	mu        sync.Mutex
	closed    bool
	altScreen bool
}

// NewANSI puts the backend in raw mode and starts decoding input
func NewANSI(backend Backend) (*ANSI, error) {
	if err := backend.Init(); err != nil {
		return nil, err
	}

	t := &ANSI{
		backend: backend,
		writer:  bufio.NewWriterSize(backendWriter{b: backend}, 64*1024),
		input:   newInputReader(backend),
	}
	t.input.start()
	return t, nil
}

// EnterAlternateScreen implements Terminal
func (t *ANSI) EnterAlternateScreen() error {
	return t.emit(func(w *bufio.Writer) {
		w.Write(csiAltScreenEnter)
		w.Write(csiAutoWrapOff)
		t.altScreen = true
	})
}

// ExitAlternateScreen implements Terminal
func (t *ANSI) ExitAlternateScreen() error {
	return t.emit(func(w *bufio.Writer) {
		w.Write(csiSGR0)
		w.Write(csiAltScreenExit)
		// Wrap is restored after leaving so the primary buffer gets it back
		w.Write(csiAutoWrapOn)
		t.altScreen = false
	})
}

// ClearAndHome implements Terminal
func (t *ANSI) ClearAndHome() error {
	return t.emit(func(w *bufio.Writer) {
		w.Write(csiSGR0)
		w.Write(csiClear)
	})
}

// SetCursorVisible implements Terminal
func (t *ANSI) SetCursorVisible(visible bool) error {
	return t.emit(func(w *bufio.Writer) {
		if visible {
			w.Write(csiCursorShow)
		} else {
			w.Write(csiCursorHide)
		}
	})
}

// ReadKey implements Terminal
func (t *ANSI) ReadKey() (KeyEvent, bool) {
	return t.input.poll()
}

// Size implements Terminal
func (t *ANSI) Size() (int, int) {
	return t.backend.Size()
}

// MoveCursor implements Terminal, buffered until Sync
func (t *ANSI) MoveCursor(x, y int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	writeCursorPos(t.writer, x, y)
	return nil
}

// Write implements Terminal, buffered until Sync
func (t *ANSI) Write(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	_, err := t.writer.WriteString(s)
	return err
}

// Sync implements Terminal
func (t *ANSI) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return t.writer.Flush()
}

// Close implements Terminal
func (t *ANSI) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	w := t.writer
	if t.altScreen {
		w.Write(csiSGR0)
		w.Write(csiAltScreenExit)
		w.Write(csiAutoWrapOn)
		t.altScreen = false
	}
	w.Write(csiCursorShow)
	err := w.Flush()
	t.closed = true
	t.mu.Unlock()

	t.input.stop(inputStopTimeout)
	t.backend.Fini()
	return err
}

// emit writes a control sequence and flushes immediately
func (t *ANSI) emit(fn func(w *bufio.Writer)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	fn(t.writer)
	return t.writer.Flush()
}

// EmergencyReset restores a sane terminal from panic recovery, when Close
// cannot run normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	resetTerminalMode()
}
