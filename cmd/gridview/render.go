package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridview/terminal/tui"
)

// Default headless canvas
const (
	defaultRenderWidth  = 80
	defaultRenderHeight = 24
)

func newRenderCmd(a *app) *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compose the layout once and print it to stdout",
		Long: `render lays out the element tree on a fixed canvas and prints the
resulting buffer, one line per row. It does not touch terminal modes, so the
output can be piped or diffed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width < 0 || height < 0 {
				return fmt.Errorf("canvas size %dx%d: dimensions must not be negative", width, height)
			}
			root, err := a.loadLayout()
			if err != nil {
				return err
			}

			buf := tui.Compose(root, width, height)
			if buf.H == 0 {
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), buf.String())
			return err
		},
	}

	cmd.Flags().IntVarP(&width, "width", "W", defaultRenderWidth, "canvas width in cells")
	cmd.Flags().IntVarP(&height, "height", "H", defaultRenderHeight, "canvas height in cells")
	return cmd
}
