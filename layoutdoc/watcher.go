package layoutdoc

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/gridview/terminal/tui"
)

// DefaultReloadDebounce coalesces the burst of events a single editor save produces
const DefaultReloadDebounce = 100 * time.Millisecond

// WatchOptions configures a Watcher
type WatchOptions struct {
	Debounce time.Duration
	Logger   *slog.Logger

	// OnChange receives each successfully reparsed tree, on the watcher goroutine
	OnChange func(tui.Element)

	// OnError receives read and parse failures; the previous tree stays current
	OnError func(error)
}

// Watcher reloads a layout document when it changes on disk
// The parent directory is watched so rename-on-save editors are picked up
type Watcher struct {
	path    string
	opts    WatchOptions
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher starts watching the directory containing path
func NewWatcher(path string, opts WatchOptions) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve layout path: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultReloadDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		opts:    opts,
		logger:  logger,
		watcher: fw,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string { return w.path }

// Stop ends the watch loop and releases the watcher, safe to call repeatedly
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.doneCh)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C
	defer debounceTimer.Stop()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("layout changed", "path", event.Name, "op", event.Op.String())
			debounceTimer.Reset(w.opts.Debounce)

		case <-debounceTimer.C:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("layout watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	root, err := Load(w.path)
	if err != nil {
		w.logger.Warn("layout reload failed", "path", w.path, "error", err)
		if w.opts.OnError != nil {
			w.opts.OnError(err)
		}
		return
	}
	w.logger.Info("layout reloaded", "path", w.path)
	if w.opts.OnChange != nil {
		w.opts.OnChange(root)
	}
}
