// Package sync keeps the local store current with the export
// directory: it watches for file changes, reloads through the
// configured loader, and reports results to the UI as Bubble Tea
// messages.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/nhle/crm-planner/internal/source"
	"github.com/nhle/crm-planner/internal/store"
)

// ReloadState represents the current state of the watcher.
type ReloadState int

const (
	ReloadIdle ReloadState = iota
	ReloadRunning
	ReloadError
)

// ReloadResultMsg is a tea.Msg sent when a reload completes.
type ReloadResultMsg struct {
	Result  *source.LoadResult
	Err     error
	Elapsed time.Duration
}

// loadTimeout is the maximum time allowed for a single reload.
const loadTimeout = 30 * time.Second

// debounceDelay coalesces the event bursts file writes produce.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads the store from the export directory whenever its
// contents change, and on demand.
type Watcher struct {
	store     store.Store
	loader    source.Loader
	dir       string
	log       *zap.Logger
	resultCh  chan ReloadResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu       gosync.Mutex
	running  bool
	state    ReloadState
	lastLoad time.Time
}

// New creates a Watcher over the given export directory.
// A nil logger disables diagnostics.
func New(s store.Store, loader source.Loader, dir string, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		store:     s,
		loader:    loader,
		dir:       dir,
		log:       log,
		resultCh:  make(chan ReloadResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the watch loop and returns a subscription command
// that delivers ReloadResultMsg messages to the Bubble Tea runtime.
// An initial load runs immediately.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	go w.watch()

	return w.waitForResult()
}

// Stop halts the watch loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopCh)
	w.running = false
}

// Refresh triggers an immediate reload.
func (w *Watcher) Refresh() tea.Cmd {
	select {
	case w.triggerCh <- struct{}{}:
	default:
		// A reload is already queued.
	}
	return nil
}

// State returns the watcher's current reload state and the time of the
// last successful load.
func (w *Watcher) State() (ReloadState, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state, w.lastLoad
}

// watch runs the event loop: an immediate load, then reloads on
// debounced filesystem events and manual triggers.
func (w *Watcher) watch() {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Warn("filesystem watcher unavailable, manual refresh only",
			zap.Error(err))
	} else {
		defer fsw.Close()
		if err := fsw.Add(w.dir); err != nil {
			w.log.Warn("cannot watch export dir",
				zap.String("dir", w.dir), zap.Error(err))
		}
	}

	var events chan fsnotify.Event
	var errs chan error
	if fsw != nil {
		events = fsw.Events
		errs = fsw.Errors
	}

	// Debounce timer; stopped until the first event arrives.
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	w.reload()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				debounce.Reset(debounceDelay)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.log.Warn("filesystem watch error", zap.Error(err))
		case <-debounce.C:
			w.reload()
		case <-w.triggerCh:
			w.reload()
		}
	}
}

// reload performs one load-and-upsert pass and reports the result.
func (w *Watcher) reload() {
	w.setState(ReloadRunning)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	result, err := w.loader.Load(ctx)
	if err != nil {
		w.setState(ReloadError)
		w.sendResult(ReloadResultMsg{Err: err, Elapsed: time.Since(start)})
		return
	}

	if err := w.upsertAll(ctx, result); err != nil {
		w.setState(ReloadError)
		w.sendResult(ReloadResultMsg{Err: err, Elapsed: time.Since(start)})
		return
	}

	w.mu.Lock()
	w.state = ReloadIdle
	w.lastLoad = time.Now()
	w.mu.Unlock()

	w.log.Debug("export reload complete",
		zap.Int("opportunities", len(result.Opportunities)),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("skipped", result.Skipped),
		zap.Duration("elapsed", time.Since(start)))

	w.sendResult(ReloadResultMsg{Result: result, Elapsed: time.Since(start)})
}

// upsertAll writes every loaded collection to the store.
func (w *Watcher) upsertAll(ctx context.Context, result *source.LoadResult) error {
	if err := w.store.UpsertAccounts(ctx, result.Accounts); err != nil {
		return err
	}
	if err := w.store.UpsertContacts(ctx, result.Contacts); err != nil {
		return err
	}
	if err := w.store.UpsertProducts(ctx, result.Products); err != nil {
		return err
	}
	if err := w.store.UpsertUsers(ctx, result.Users); err != nil {
		return err
	}
	if err := w.store.UpsertOpportunities(ctx, result.Opportunities); err != nil {
		return err
	}
	return w.store.UpsertAssignments(ctx, result.Assignments)
}

// setState updates the watcher state.
func (w *Watcher) setState(state ReloadState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
}

// sendResult sends a result without blocking the watch loop.
func (w *Watcher) sendResult(msg ReloadResultMsg) {
	select {
	case w.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the watcher.
	}
}

// waitForResult returns a tea.Cmd that waits for the next result.
func (w *Watcher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-w.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next reload
// result. Call it after processing a ReloadResultMsg to keep listening.
func (w *Watcher) WaitForNextResult() tea.Cmd {
	return w.waitForResult()
}
