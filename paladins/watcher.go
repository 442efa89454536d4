package paladins

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Watcher errors. Start and Stop transition an internal state machine, so
// use errors.Is to check for them.
var (
	ErrWatcherRunning = errors.New("status watcher is already running")
	ErrWatcherStopped = errors.New("status watcher is not running")
	ErrNoCallback     = errors.New("no status change callback provided")
)

// watcher states
const (
	watcherStopped int32 = iota
	watcherRunning
	watcherTransitioning
)

// Default poll intervals. A degraded status is rechecked faster to catch
// the recovery sooner.
const (
	DefaultCheckInterval   = 3 * time.Minute
	DefaultRecheckInterval = time.Minute
)

// StatusChange carries the observations around a detected server status
// change.
type StatusChange struct {
	Before *ServerStatus
	After  *ServerStatus
}

// WatcherOption configures a StatusWatcher.
type WatcherOption func(*StatusWatcher)

// WithCheckInterval sets the poll interval used while all platforms are
// up.
func WithCheckInterval(d time.Duration) WatcherOption {
	return func(w *StatusWatcher) {
		if d > 0 {
			w.checkInterval = d
		}
	}
}

// WithRecheckInterval sets the poll interval used while any platform is
// down or limited.
func WithRecheckInterval(d time.Duration) WatcherOption {
	return func(w *StatusWatcher) {
		if d > 0 {
			w.recheckInterval = d
		}
	}
}

// StatusWatcher polls the server status on an interval and invokes a
// callback whenever the observed status changes. Polls bypass the status
// cache so the watcher sees fresh data.
type StatusWatcher struct {
	ops      *Operations
	logger   zerolog.Logger
	onChange func(StatusChange)

	checkInterval   time.Duration
	recheckInterval time.Duration

	ticker   *time.Ticker
	shutdown chan struct{}
	state    atomic.Int32

	// last is only touched by the poll goroutine.
	last *ServerStatus
}

// NewStatusWatcher creates a watcher around the given operations. The
// callback is invoked from the watcher's own goroutine.
func NewStatusWatcher(ops *Operations, onChange func(StatusChange), logger zerolog.Logger, opts ...WatcherOption) (*StatusWatcher, error) {
	if onChange == nil {
		return nil, ErrNoCallback
	}
	w := &StatusWatcher{
		ops:             ops,
		logger:          logger,
		onChange:        onChange,
		checkInterval:   DefaultCheckInterval,
		recheckInterval: DefaultRecheckInterval,
		shutdown:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.ticker = time.NewTicker(w.checkInterval)
	return w, nil
}

// Start begins polling. Polls use the given context, so cancelling it
// makes them fail until Stop is called. Returns ErrWatcherRunning if the
// watcher is already started.
func (w *StatusWatcher) Start(ctx context.Context) error {
	if !w.state.CompareAndSwap(watcherStopped, watcherTransitioning) {
		return ErrWatcherRunning
	}
	w.ticker.Reset(w.checkInterval)
	go w.loop(ctx)
	w.state.Store(watcherRunning)
	w.logger.Debug().Dur("interval", w.checkInterval).Msg("Status watcher started")
	return nil
}

// Stop halts polling and waits for the poll goroutine to finish. Returns
// ErrWatcherStopped if the watcher is not running.
func (w *StatusWatcher) Stop() error {
	if !w.state.CompareAndSwap(watcherRunning, watcherTransitioning) {
		return ErrWatcherStopped
	}
	w.ticker.Stop()
	w.shutdown <- struct{}{}
	w.state.Store(watcherStopped)
	w.logger.Debug().Msg("Status watcher stopped")
	return nil
}

func (w *StatusWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-w.shutdown:
			return
		case <-w.ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *StatusWatcher) poll(ctx context.Context) {
	status, err := w.ops.ServerStatus(ctx, true)
	if err != nil {
		w.logger.Warn().Err(err).Msg("Server status poll failed")
		return
	}
	if w.last != nil && !w.last.Equal(status) {
		w.logger.Info().
			Bool("all_up", status.AllUp()).
			Bool("limited_access", status.LimitedAccess()).
			Msg("Server status changed")
		w.onChange(StatusChange{Before: w.last, After: status})
	}
	w.last = status

	interval := w.checkInterval
	if !status.AllUp() || status.LimitedAccess() {
		interval = w.recheckInterval
	}
	w.ticker.Reset(interval)
}
