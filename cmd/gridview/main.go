package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/gridview/terminal"
)

func main() {
	// Restore the terminal if anything on the main goroutine panics mid-frame
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\ngridview crashed: %v\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
