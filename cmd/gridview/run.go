package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridview/layoutdoc"
	"github.com/lixenwraith/gridview/logging"
	"github.com/lixenwraith/gridview/terminal"
	"github.com/lixenwraith/gridview/terminal/tui"
	"github.com/lixenwraith/gridview/window"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Show the layout interactively (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runInteractive,
	}
}

func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	cfg := a.cfg

	logger, err := logging.Setup(logging.Options{
		Enabled: cfg.Logging.Enabled,
		Path:    cfg.Logging.Path,
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logger.Close()

	kind, err := terminal.ParseBackendKind(cfg.Terminal.Backend)
	if err != nil {
		return err
	}

	root, err := a.loadLayout()
	if err != nil {
		return err
	}

	term, err := terminal.Open(kind)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer term.Close()

	ctrl := window.New(term, window.Options{
		Debounce:     cfg.Window.Debounce(),
		PollInterval: cfg.Window.PollInterval(),
		IdleSleep:    cfg.Window.IdleSleep(),
		StopTimeout:  cfg.Window.StopTimeout(),
		Logger:       logger.Logger,
		OnKey: func(ev terminal.KeyEvent) {
			logger.Debug("key", "key", ev.String())
		},
	})

	if cfg.Layout.File != "" && cfg.Layout.Watch {
		watcher, err := layoutdoc.NewWatcher(cfg.Layout.File, layoutdoc.WatchOptions{
			Logger: logger.Logger,
			OnChange: func(e tui.Element) {
				ctrl.Post(func() { ctrl.SetRoot(e) })
			},
		})
		if err != nil {
			// Hot reload is optional, keep running with the loaded tree
			logger.Warn("layout watch disabled", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "backend", string(kind), "layout", cfg.Layout.File)
	if err := ctrl.Run(ctx, root); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("render loop: %w", err)
	}
	return nil
}
