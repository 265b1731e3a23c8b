package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lixenwraith/gridview/config"
	"github.com/lixenwraith/gridview/layoutdoc"
	"github.com/lixenwraith/gridview/terminal/tui"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// app carries state shared by the subcommands once flags and config are resolved
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gridview",
		Short: "Render grid layouts in the terminal",
		Long: `gridview draws a tree of grid and text elements to the terminal,
re-laying it out once the window size settles after a resize.

Without a layout document the built-in demo layout is shown.
Press Esc or Ctrl+C to quit.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runInteractive,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/gridview/gridview.toml)")
	flags.StringP("layout", "l", "", "YAML layout document (default is the built-in demo)")
	flags.StringP("backend", "b", "", "terminal backend: auto, ansi or tcell")

	root.AddCommand(
		newRunCmd(a),
		newRenderCmd(a),
		newVersionCmd(),
	)
	return root
}

// loadConfig builds the viper instance and binds the global flags over it
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("layout.file", flags.Lookup("layout")); err != nil {
		return fmt.Errorf("bind layout flag: %w", err)
	}
	if err := v.BindPFlag("terminal.backend", flags.Lookup("backend")); err != nil {
		return fmt.Errorf("bind backend flag: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.v, a.cfg = v, cfg
	return nil
}

// loadLayout returns the configured document's tree, or the demo layout
func (a *app) loadLayout() (tui.Element, error) {
	if a.cfg.Layout.File == "" {
		return layoutdoc.Demo(), nil
	}
	root, err := layoutdoc.Load(a.cfg.Layout.File)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	return root, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gridview version",
		Args:  cobra.NoArgs,
		// Skip config loading, version must work with a broken config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gridview %s\n", version)
		},
	}
}
