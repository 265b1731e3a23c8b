// Package terminal provides the terminal collaborator used by the grid renderer.
//
// Two implementations share the Terminal interface:
//   - ANSI: direct escape sequences over a raw-mode Backend (x/term, x/sys)
//   - Tcell: a tcell.Screen adapter, used when stdout is not an interactive tty
//
// Every call is best-effort. Callers log and ignore returned errors; nothing
// here is allowed to stop the render loop.
//
// Usage pattern:
//
//	term, err := terminal.Open(terminal.BackendAuto)
//	if err != nil {
//	    return err
//	}
//	defer term.Close()
//
//	term.EnterAlternateScreen()
//	term.SetCursorVisible(false)
//	w, h := term.Size()
package terminal
