package window

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/gridview/render"
	"github.com/lixenwraith/gridview/resize"
	"github.com/lixenwraith/gridview/status"
	"github.com/lixenwraith/gridview/terminal"
	"github.com/lixenwraith/gridview/terminal/tui"
)

// ErrRunning is returned by Run when the loop is already active
var ErrRunning = errors.New("window: controller already running")

// Defaults
const (
	DefaultDebounce     = resize.DefaultDebounce
	DefaultPollInterval = resize.DefaultPollInterval
	DefaultIdleSleep    = 20 * time.Millisecond
	DefaultStopTimeout  = 500 * time.Millisecond
)

// Options configures a Controller; zero values take defaults
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	IdleSleep    time.Duration
	StopTimeout  time.Duration
	Logger       *slog.Logger
	Clock        resize.Clock

	// Status receives loop counters; nil creates a private registry
	Status *status.Registry

	// OnKey receives every non-quit key on the loop goroutine
	OnKey func(terminal.KeyEvent)
}

func (o *Options) applyDefaults() {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.IdleSleep <= 0 {
		o.IdleSleep = DefaultIdleSleep
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = DefaultStopTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Clock == nil {
		o.Clock = resize.RealClock{}
	}
	if o.Status == nil {
		o.Status = status.NewRegistry()
	}
}

// Controller owns the render loop for one terminal
// The element tree and frame buffer are touched only on the loop goroutine;
// other goroutines hand work in through Post
type Controller struct {
	term     terminal.Terminal
	opts     Options
	logger   *slog.Logger
	renderer *render.Renderer

	state   atomic.Int32
	running atomic.Bool

	// Cached from opts.Status
	frames     *atomic.Int64
	settles    *atomic.Int64
	resizes    *atomic.Int64
	keys       *atomic.Int64
	tasksRun   *atomic.Int64
	stateLabel *status.AtomicString

	taskMu sync.Mutex
	tasks  []func()

	// Loop goroutine only
	root    tui.Element
	dirty   bool
	monitor *resize.Monitor
}

// New creates a controller drawing to term
func New(term terminal.Terminal, opts Options) *Controller {
	opts.applyDefaults()
	reg := opts.Status
	c := &Controller{
		term:       term,
		opts:       opts,
		logger:     opts.Logger,
		renderer:   render.NewRenderer(term, opts.Logger),
		frames:     reg.Counter(status.Frames),
		settles:    reg.Counter(status.Settles),
		resizes:    reg.Counter(status.Resizes),
		keys:       reg.Counter(status.Keys),
		tasksRun:   reg.Counter(status.Tasks),
		stateLabel: reg.Label(status.LoopState),
	}
	c.stateLabel.Store(Idle.String())
	return c
}

// State returns the current state, safe from any goroutine
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Frames returns the number of frames flushed so far
func (c *Controller) Frames() uint64 {
	return uint64(c.frames.Load())
}

// Status returns the registry the loop publishes its counters to
func (c *Controller) Status() *status.Registry {
	return c.opts.Status
}

// Post queues fn to run on the loop goroutine at the start of the next iteration
func (c *Controller) Post(fn func()) {
	if fn == nil {
		return
	}
	c.taskMu.Lock()
	c.tasks = append(c.tasks, fn)
	c.taskMu.Unlock()
}

// SetRoot replaces the element tree and schedules a frame
// Must run on the loop goroutine, normally from a posted task
func (c *Controller) SetRoot(root tui.Element) {
	c.root = root
	c.dirty = true
}

// Invalidate schedules a frame; loop goroutine only
func (c *Controller) Invalidate() {
	c.dirty = true
}

// Run blocks until a quit key or ctx cancellation, then restores the terminal
// Returns nil on quit and ctx.Err() on cancellation
func (c *Controller) Run(ctx context.Context, root tui.Element) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer c.running.Store(false)

	c.root = root
	c.setState(Idle)
	c.startup()
	defer c.shutdown()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("render loop cancelled", "reason", ctx.Err())
			return ctx.Err()
		default:
		}

		if !c.step() {
			return nil
		}
	}
}

func (c *Controller) startup() {
	c.logTermErr("enter alternate screen", c.term.EnterAlternateScreen())
	c.logTermErr("hide cursor", c.term.SetCursorVisible(false))
	c.logTermErr("clear", c.term.ClearAndHome())

	// First frame goes out before any settling
	c.frame()

	c.monitor = resize.New(c.term.Size, resize.Options{
		Debounce:     c.opts.Debounce,
		PollInterval: c.opts.PollInterval,
		Clock:        c.opts.Clock,
		Logger:       c.logger,
	})
	c.monitor.Start()

	w, h := c.term.Size()
	c.logger.Info("render loop started", "w", w, "h", h)
}

func (c *Controller) shutdown() {
	if err := c.monitor.Stop(c.opts.StopTimeout); err != nil {
		c.logger.Warn("resize monitor stop", "error", err)
	}
	c.logTermErr("show cursor", c.term.SetCursorVisible(true))
	c.logTermErr("exit alternate screen", c.term.ExitAlternateScreen())
	c.setState(Stopped)
	c.logger.Info("render loop stopped", c.opts.Status.Snapshot()...)
}

// step runs one loop iteration, false once a quit key is consumed
func (c *Controller) step() bool {
	c.runTasks()

	// Monitor re-arms its debounce on every change; we just track the phase
	if c.monitor.TakeChanged() {
		c.resizes.Add(1)
		switch c.State() {
		case Idle, PendingSettle:
			c.setState(PendingSettle)
		}
	}

	select {
	case ev := <-c.monitor.Events():
		c.logger.Debug("resize settled", "w", ev.Size.W, "h", ev.Size.H)
		c.settles.Add(1)
		c.setState(Settled)
	default:
	}

	if c.State() == Settled {
		c.logTermErr("clear", c.term.ClearAndHome())
		c.frame()
		c.setState(Idle)
	} else if c.dirty {
		c.frame()
	}

	ev, ok := c.term.ReadKey()
	if !ok {
		time.Sleep(c.opts.IdleSleep)
		return true
	}
	if ev.IsQuit() {
		c.logger.Info("quit key", "key", ev.String())
		return false
	}
	c.keys.Add(1)
	if c.opts.OnKey != nil {
		c.opts.OnKey(ev)
	}
	c.dirty = true
	return true
}

func (c *Controller) runTasks() {
	c.taskMu.Lock()
	tasks := c.tasks
	c.tasks = nil
	c.taskMu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	c.tasksRun.Add(int64(len(tasks)))
}

func (c *Controller) frame() {
	c.renderer.Frame(c.root)
	c.dirty = false
	c.frames.Add(1)
}

func (c *Controller) setState(s State) {
	c.stateLabel.Store(s.String())
	if old := State(c.state.Swap(int32(s))); old != s {
		c.logger.Debug("state", "from", old.String(), "to", s.String())
	}
}

func (c *Controller) logTermErr(op string, err error) {
	if err != nil {
		c.logger.Debug("terminal call failed", "op", op, "error", err)
	}
}
