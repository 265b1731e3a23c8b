package resize

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStopTimeout is returned when the poller does not exit within the stop timeout
var ErrStopTimeout = errors.New("resize monitor: poller did not stop in time")

// Defaults
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultPollInterval = 150 * time.Millisecond
)

// Size is a terminal size in cells
type Size struct {
	W, H int
}

// Settled reports a size that stayed unchanged for the debounce interval
// Size is the size observed when the debounce timer was armed
type Settled struct {
	Size Size
	At   time.Time
}

// SizeFunc reads the current terminal size
type SizeFunc func() (w, h int)

// Options configures a Monitor; zero values take defaults
type Options struct {
	Debounce     time.Duration
	PollInterval time.Duration
	Clock        Clock
	Logger       *slog.Logger

	// OnSettled runs on the timer goroutine after the event is queued
	OnSettled func(Settled)
}

// Monitor polls the terminal size and emits Settled after changes stop
// At most one debounce timer is live; every timer carries a generation and a
// fire from a superseded generation is a no-op
type Monitor struct {
	size      SizeFunc
	clock     Clock
	debounce  time.Duration
	interval  time.Duration
	logger    *slog.Logger
	onSettled func(Settled)

	mu      sync.Mutex
	last    Size
	timer   Timer
	gen     uint64
	stopped bool

	changed atomic.Bool
	events  chan Settled

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a monitor and records the current size as the baseline
func New(size SizeFunc, opts Options) *Monitor {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	w, h := size()
	return &Monitor{
		size:      size,
		clock:     opts.Clock,
		debounce:  opts.Debounce,
		interval:  opts.PollInterval,
		logger:    opts.Logger,
		onSettled: opts.OnSettled,
		last:      Size{W: w, H: h},
		events:    make(chan Settled, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Events delivers settled sizes; only the latest undelivered event is kept
func (m *Monitor) Events() <-chan Settled {
	return m.events
}

// Size returns the last observed size
func (m *Monitor) Size() Size {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// TakeChanged reports whether a size change was observed since the last call
func (m *Monitor) TakeChanged() bool {
	return m.changed.Swap(false)
}

// Start launches the poller goroutine
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	// stopped and running flip under mu, so a concurrent Stop either sees this
	// start or prevents it
	if m.stopped || !m.running.CompareAndSwap(false, true) {
		return
	}
	go m.pollLoop()
}

func (m *Monitor) pollLoop() {
	defer close(m.doneCh)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C():
			m.Poll()
		}
	}
}

// Poll runs one poll tick, reporting whether the size changed
// A change updates the last size at once and re-arms the debounce timer
func (m *Monitor) Poll() bool {
	w, h := m.size()
	cur := Size{W: w, H: h}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || cur == m.last {
		return false
	}

	m.logger.Debug("terminal size changed", "from_w", m.last.W, "from_h", m.last.H, "w", w, "h", h)
	m.last = cur
	m.changed.Store(true)
	m.arm(cur)
	return true
}

// arm replaces the pending timer; caller holds mu
func (m *Monitor) arm(size Size) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.timer = m.clock.AfterFunc(m.debounce, func() {
		m.fire(gen, size)
	})
}

func (m *Monitor) fire(gen uint64, size Size) {
	m.mu.Lock()
	if m.stopped || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.mu.Unlock()

	ev := Settled{Size: size, At: m.clock.Now()}
	m.logger.Debug("terminal size settled", "w", size.W, "h", size.H)

	// Latest wins: replace an unread event
	select {
	case m.events <- ev:
	default:
		select {
		case <-m.events:
		default:
		}
		select {
		case m.events <- ev:
		default:
		}
	}

	if m.onSettled != nil {
		m.onSettled(ev)
	}
}

// Stop cancels the pending timer and waits up to timeout for the poller
// A poller that does not exit in time is abandoned and ErrStopTimeout returned
func (m *Monitor) Stop(timeout time.Duration) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	if !m.running.Load() {
		return nil
	}
	close(m.stopCh)

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-m.doneCh:
		return nil
	case <-t.C:
		m.logger.Warn("resize poller abandoned", "timeout", timeout)
		return ErrStopTimeout
	}
}
