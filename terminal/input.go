package terminal

import (
	"sync"
	"time"
	"unicode/utf8"
)

// maxSequenceLen bounds a CSI scan; longer runs without a final byte are discarded
const maxSequenceLen = 32

// inputReader decodes raw backend bytes into key events on a goroutine
type inputReader struct {
	backend Backend
	eventCh chan KeyEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer, holds partial escape and UTF-8 sequences across reads
	buf []byte
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan KeyEvent, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	go r.readLoop()
}

// stop signals the reader and waits briefly; a reader stuck in a read is abandoned
func (r *inputReader) stop(timeout time.Duration) {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	select {
	case <-r.doneCh:
	case <-time.After(timeout):
	}
}

// poll returns the next decoded event without blocking
func (r *inputReader) poll() (KeyEvent, bool) {
	select {
	case ev := <-r.eventCh:
		return ev, true
	default:
		return KeyEvent{}, false
	}
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			return
		}

		if len(data) == 0 {
			// Read timed out: a lone ESC held back for disambiguation is a real Escape
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.send(KeyEvent{Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)
		events, consumed := decodeInput(r.buf)
		for _, ev := range events {
			r.send(ev)
		}
		if consumed >= len(r.buf) {
			r.buf = r.buf[:0]
		} else if consumed > 0 {
			n := copy(r.buf, r.buf[consumed:])
			r.buf = r.buf[:n]
		}
	}
}

// send is non-blocking; events beyond the channel capacity are dropped
func (r *inputReader) send(ev KeyEvent) {
	select {
	case r.eventCh <- ev:
	default:
	}
}

// decodeInput parses as many complete events as possible from data
// Returns the events and the number of bytes consumed; an incomplete trailing
// sequence is left unconsumed
func decodeInput(data []byte) ([]KeyEvent, int) {
	var events []KeyEvent
	i := 0
	for i < len(data) {
		b := data[i]

		switch {
		case b >= 0x20 && b < 0x7f:
			events = append(events, KeyEvent{Key: KeyRune, Rune: rune(b)})
			i++

		case b == 0x1b:
			n, ev := decodeEscape(data[i:])
			if n == 0 {
				return events, i
			}
			if ev.Key != KeyNone {
				events = append(events, ev)
			}
			i += n

		case b < 0x20 || b == 0x7f:
			events = append(events, decodeControl(b))
			i++

		default:
			if !utf8.FullRune(data[i:]) {
				return events, i
			}
			rn, size := utf8.DecodeRune(data[i:])
			if rn != utf8.RuneError {
				events = append(events, KeyEvent{Key: KeyRune, Rune: rn})
			}
			i += size
		}
	}
	return events, i
}

// decodeEscape decodes a sequence starting with ESC, returns 0 when incomplete
func decodeEscape(data []byte) (int, KeyEvent) {
	if len(data) < 2 {
		return 0, KeyEvent{}
	}

	switch next := data[1]; {
	case next == '[':
		return decodeCSI(data)
	case next == 'O':
		return decodeSS3(data)
	case next == 0x1b:
		return 2, KeyEvent{Key: KeyEscape, Mod: ModAlt}
	case next < 0x20 || next == 0x7f:
		ev := decodeControl(next)
		ev.Mod |= ModAlt
		return 2, ev
	case next < 0x7f:
		return 2, KeyEvent{Key: KeyRune, Rune: rune(next), Mod: ModAlt}
	}
	// ESC followed by a non-ASCII byte: report the Escape, leave the rest
	return 1, KeyEvent{Key: KeyEscape}
}

// decodeCSI decodes ESC [ params final
func decodeCSI(data []byte) (int, KeyEvent) {
	end := 2
	for end < len(data) {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Malformed, drop the introducer
			return end, KeyEvent{}
		}
		end++
		if end-2 > maxSequenceLen {
			return end, KeyEvent{}
		}
	}
	if end >= len(data) {
		return 0, KeyEvent{}
	}

	final := data[end]
	params := parseParams(data[2:end])
	consumed := end + 1

	if final == 'Z' {
		return consumed, KeyEvent{Key: KeyTab, Mod: ModShift}
	}

	if final == '~' {
		if len(params) == 0 {
			return consumed, KeyEvent{}
		}
		key, ok := csiTildeKeys[params[0]]
		if !ok {
			return consumed, KeyEvent{}
		}
		ev := KeyEvent{Key: key}
		if len(params) > 1 {
			ev.Mod = modifierFromParam(params[1])
		}
		return consumed, ev
	}

	key, ok := csiFinalKeys[final]
	if !ok {
		return consumed, KeyEvent{}
	}
	ev := KeyEvent{Key: key}
	if len(params) > 1 {
		ev.Mod = modifierFromParam(params[1])
	}
	return consumed, ev
}

// decodeSS3 decodes ESC O final
func decodeSS3(data []byte) (int, KeyEvent) {
	if len(data) < 3 {
		return 0, KeyEvent{}
	}
	if data[2] == 'M' {
		return 3, KeyEvent{Key: KeyEnter}
	}
	if key, ok := csiFinalKeys[data[2]]; ok {
		return 3, KeyEvent{Key: key}
	}
	return 3, KeyEvent{}
}

// parseParams splits "1;5" into integers; empty fields are 0
func parseParams(raw []byte) []int {
	if len(raw) == 0 {
		return nil
	}
	params := []int{0}
	for _, b := range raw {
		switch {
		case b == ';':
			params = append(params, 0)
		case b >= '0' && b <= '9':
			last := len(params) - 1
			if params[last] < 10000 {
				params[last] = params[last]*10 + int(b-'0')
			}
		}
	}
	return params
}

// decodeControl maps C0 control bytes and DEL
func decodeControl(b byte) KeyEvent {
	switch b {
	case 0x00:
		return KeyEvent{Key: KeyRune, Rune: ' ', Mod: ModCtrl}
	case 0x08, 0x7f:
		return KeyEvent{Key: KeyBackspace}
	case 0x09:
		return KeyEvent{Key: KeyTab}
	case 0x0a, 0x0d:
		return KeyEvent{Key: KeyEnter}
	case 0x1b:
		return KeyEvent{Key: KeyEscape}
	case 0x1c:
		return KeyEvent{Key: KeyRune, Rune: '\\', Mod: ModCtrl}
	case 0x1d:
		return KeyEvent{Key: KeyRune, Rune: ']', Mod: ModCtrl}
	case 0x1e:
		return KeyEvent{Key: KeyRune, Rune: '^', Mod: ModCtrl}
	case 0x1f:
		return KeyEvent{Key: KeyRune, Rune: '_', Mod: ModCtrl}
	}
	if b >= 0x01 && b <= 0x1a {
		return KeyEvent{Key: KeyRune, Rune: rune('a' + b - 1), Mod: ModCtrl}
	}
	return KeyEvent{}
}
