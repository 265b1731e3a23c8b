package terminal

import "fmt"

// BackendKind selects the Terminal implementation
type BackendKind string

const (
	BackendAuto  BackendKind = "auto"
	BackendANSI  BackendKind = "ansi"
	BackendTcell BackendKind = "tcell"
)

// ParseBackendKind validates a configured backend name
func ParseBackendKind(s string) (BackendKind, error) {
	switch k := BackendKind(s); k {
	case BackendAuto, BackendANSI, BackendTcell:
		return k, nil
	case "":
		return BackendAuto, nil
	}
	return "", fmt.Errorf("unknown terminal backend %q", s)
}

// Open creates the Terminal for the process's own tty
// Auto prefers direct ANSI output and falls back to tcell when stdio is not an
// interactive terminal or TERM is dumb
func Open(kind BackendKind) (Terminal, error) {
	if kind == BackendAuto {
		if ansiLikelySupported() {
			kind = BackendANSI
		} else {
			kind = BackendTcell
		}
	}

	switch kind {
	case BackendANSI:
		t, err := NewANSI(newBackend())
		if err != nil {
			return nil, fmt.Errorf("ansi terminal: %w", err)
		}
		return t, nil
	case BackendTcell:
		t, err := NewTcellScreen()
		if err != nil {
			return nil, fmt.Errorf("tcell terminal: %w", err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown terminal backend %q", kind)
}
