package terminal

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeBackend records output and serves scripted input
type fakeBackend struct {
	mu     sync.Mutex
	out    bytes.Buffer
	inited bool
	finied bool
	width  int
	height int
	input  chan []byte
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{width: w, height: h, input: make(chan []byte, 16)}
}

func (b *fakeBackend) Init() error {
	b.mu.Lock()
	b.inited = true
	b.mu.Unlock()
	return nil
}

func (b *fakeBackend) Fini() {
	b.mu.Lock()
	b.finied = true
	b.mu.Unlock()
}

func (b *fakeBackend) Size() (int, int) { return b.width, b.height }

func (b *fakeBackend) Write(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out.Write(p)
	return nil
}

func (b *fakeBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	case data := <-b.input:
		return data, nil
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

func (b *fakeBackend) output() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.String()
}

func (b *fakeBackend) reset() {
	b.mu.Lock()
	b.out.Reset()
	b.mu.Unlock()
}

func waitKey(t *testing.T, term Terminal) KeyEvent {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if ev, ok := term.ReadKey(); ok {
			return ev
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("Timed out waiting for key event")
	return KeyEvent{}
}

func TestANSIScreenSequences(t *testing.T) {
	backend := newFakeBackend(80, 24)
	term, err := NewANSI(backend)
	if err != nil {
		t.Fatalf("NewANSI failed: %v", err)
	}
	defer term.Close()

	if !backend.inited {
		t.Error("Expected backend Init to be called")
	}

	term.EnterAlternateScreen()
	if got := backend.output(); got != "\x1b[?1049h\x1b[?7l" {
		t.Errorf("Unexpected alt screen enter output %q", got)
	}

	backend.reset()
	term.ClearAndHome()
	if got := backend.output(); got != "\x1b[0m\x1b[2J\x1b[H" {
		t.Errorf("Unexpected clear output %q", got)
	}

	backend.reset()
	term.SetCursorVisible(false)
	if got := backend.output(); got != "\x1b[?25l" {
		t.Errorf("Unexpected cursor hide output %q", got)
	}
}

func TestANSIWritesBufferedUntilSync(t *testing.T) {
	backend := newFakeBackend(80, 24)
	term, err := NewANSI(backend)
	if err != nil {
		t.Fatalf("NewANSI failed: %v", err)
	}
	defer term.Close()

	term.MoveCursor(0, 2)
	term.Write("hello")
	if got := backend.output(); got != "" {
		t.Fatalf("Expected no output before Sync, got %q", got)
	}

	if err := term.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if got := backend.output(); got != "\x1b[3;1Hhello" {
		t.Errorf("Unexpected synced output %q", got)
	}
}

func TestANSIMoveCursorClampsNegative(t *testing.T) {
	backend := newFakeBackend(80, 24)
	term, _ := NewANSI(backend)
	defer term.Close()

	term.MoveCursor(-5, -1)
	term.Sync()
	if got := backend.output(); got != "\x1b[1;1H" {
		t.Errorf("Expected home position, got %q", got)
	}
}

func TestANSICloseRestores(t *testing.T) {
	backend := newFakeBackend(80, 24)
	term, _ := NewANSI(backend)

	term.EnterAlternateScreen()
	backend.reset()

	if err := term.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	out := backend.output()
	if !strings.Contains(out, "\x1b[?1049l") {
		t.Errorf("Expected alt screen exit on close, got %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[?25h") {
		t.Errorf("Expected cursor shown on close, got %q", out)
	}
	if !backend.finied {
		t.Error("Expected backend Fini to be called")
	}

	// Second close is a no-op
	if err := term.Close(); err != nil {
		t.Errorf("Second Close returned %v", err)
	}
	if err := term.Write("x"); err != ErrClosed {
		t.Errorf("Expected ErrClosed after close, got %v", err)
	}
}

func TestANSIReadKey(t *testing.T) {
	backend := newFakeBackend(80, 24)
	term, _ := NewANSI(backend)
	defer term.Close()

	if _, ok := term.ReadKey(); ok {
		t.Fatal("Expected no key before input")
	}

	backend.input <- []byte{0x03}
	ev := waitKey(t, term)
	if !ev.IsQuit() {
		t.Errorf("Expected Ctrl+C quit event, got %v", ev)
	}

	// A lone ESC resolves to Escape once a read times out
	backend.input <- []byte{0x1b}
	ev = waitKey(t, term)
	if ev.Key != KeyEscape {
		t.Errorf("Expected Escape, got %v", ev)
	}
}

func TestANSISize(t *testing.T) {
	backend := newFakeBackend(120, 40)
	term, _ := NewANSI(backend)
	defer term.Close()

	w, h := term.Size()
	if w != 120 || h != 40 {
		t.Errorf("Expected 120x40, got %dx%d", w, h)
	}
}

func TestEmergencyReset(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)
	out := buf.String()
	for _, seq := range []string{"\x1b[?25h", "\x1b[?1049l", "\x1b[0m", "\x1b[?7h", "\x1bc"} {
		if !strings.Contains(out, seq) {
			t.Errorf("Expected %q in reset output %q", seq, out)
		}
	}
}

func TestParseBackendKind(t *testing.T) {
	tests := []struct {
		in       string
		expected BackendKind
		wantErr  bool
	}{
		{"auto", BackendAuto, false},
		{"", BackendAuto, false},
		{"ansi", BackendANSI, false},
		{"tcell", BackendTcell, false},
		{"vt52", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBackendKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}
