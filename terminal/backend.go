package terminal

// Backend abstracts the platform terminal device under the ANSI implementation
type Backend interface {
	// Init enters raw mode
	Init() error

	// Fini restores the mode saved by Init
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, or an
	// error occurs. A nil slice with nil error means a poll timeout
	Read(stopCh <-chan struct{}) ([]byte, error)
}

// backendWriter adapts Backend to io.Writer for buffered output
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
