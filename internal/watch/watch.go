// Package watch follows a live draft by re-parsing its exported pick grid
// whenever the files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/metrics"
)

// DefaultMinInterval is used when Config.MinInterval is not positive.
const DefaultMinInterval = 2 * time.Second

// Config configures a Watcher.
type Config struct {
	PicksPath string
	PoolPath  string // optional
	Options   draft.StateOptions

	// UseFsnotify selects file system events; otherwise the files are polled
	// every MinInterval.
	UseFsnotify bool

	// MinInterval is the minimum time between two parses.
	MinInterval time.Duration

	Metrics *metrics.AnalysisMetrics // optional
	Logger  *slog.Logger             // defaults to slog.Default()
}

// Watcher emits a new draft state every time the pick grid changes.
type Watcher struct {
	config  Config
	logger  *slog.Logger
	limiter *rate.Limiter
	updates chan *draft.DraftState

	mu     sync.RWMutex
	latest *draft.DraftState
	stamps map[string]fileStamp
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// New creates a watcher. Nothing is read until Run.
func New(config Config) (*Watcher, error) {
	if config.PicksPath == "" {
		return nil, errors.New("picks path is required")
	}
	if config.MinInterval <= 0 {
		config.MinInterval = DefaultMinInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.PicksPath = filepath.Clean(config.PicksPath)
	if config.PoolPath != "" {
		config.PoolPath = filepath.Clean(config.PoolPath)
	}

	return &Watcher{
		config:  config,
		logger:  config.Logger.With("component", "watch"),
		limiter: rate.NewLimiter(rate.Every(config.MinInterval), 1),
		updates: make(chan *draft.DraftState, 1),
		stamps:  make(map[string]fileStamp),
	}, nil
}

// Updates delivers each changed state. Only the newest undelivered state is
// kept. The channel is closed when Run returns.
func (w *Watcher) Updates() <-chan *draft.DraftState {
	return w.updates
}

// Latest returns the most recent state, or nil before the first parse.
func (w *Watcher) Latest() *draft.DraftState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// Refresh parses the pick grid now.
func (w *Watcher) Refresh() (*draft.DraftState, error) {
	start := time.Now()

	log, err := draft.ReadPickLogFiles(w.config.PicksPath, w.config.PoolPath)
	var state *draft.DraftState
	if err == nil {
		state, err = draft.ParseDraftState(log, w.config.Options)
	}

	if w.config.Metrics != nil {
		records := 0
		if state != nil {
			records = len(state.Available) + state.PicksMade
		}
		w.config.Metrics.RecordParse(time.Since(start), records, err)
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Run parses the grid once and then again after every change until ctx is
// cancelled. It fails immediately when the configured seat is not in the
// grid; other parse errors are logged and retried on the next change.
func (w *Watcher) Run(ctx context.Context) (err error) {
	defer close(w.updates)

	if err := w.update(); errors.Is(err, draft.ErrSeatNotFound) {
		return err
	}

	ticker := time.NewTicker(w.config.MinInterval)
	defer ticker.Stop()

	if !w.config.UseFsnotify {
		w.logger.Info("polling pick grid", "path", w.config.PicksPath, "interval", w.config.MinInterval)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if w.changed() {
					_ = w.update()
				}
			}
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Spreadsheet exports usually replace the file, so watch the directories.
	for _, dir := range w.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching pick grid", "path", w.config.PicksPath)

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if w.limiter.Allow() {
				_ = w.update()
				pending = false
			} else {
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-ticker.C:
			if pending && w.limiter.Allow() {
				_ = w.update()
				pending = false
			}
		}
	}
}

func (w *Watcher) paths() []string {
	if w.config.PoolPath == "" {
		return []string{w.config.PicksPath}
	}
	return []string{w.config.PicksPath, w.config.PoolPath}
}

func (w *Watcher) dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range w.paths() {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, p := range w.paths() {
		if name == p {
			return true
		}
	}
	return false
}

// changed compares modification time and size against the last poll.
func (w *Watcher) changed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := false
	for _, p := range w.paths() {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}
		if w.stamps[p] != stamp {
			w.stamps[p] = stamp
			changed = true
		}
	}
	return changed
}

// update re-parses and publishes the state when it differs from the last
// one.
func (w *Watcher) update() error {
	w.changed()

	state, err := w.Refresh()
	if err != nil {
		w.logger.Warn("parse pick grid", "path", w.config.PicksPath, "error", err)
		return err
	}

	w.mu.Lock()
	prev := w.latest
	if prev != nil && reflect.DeepEqual(prev, state) {
		w.mu.Unlock()
		return nil
	}
	w.latest = state
	w.mu.Unlock()

	w.logTransition(prev, state)
	w.publish(state)
	return nil
}

func (w *Watcher) logTransition(prev, state *draft.DraftState) {
	switch {
	case state.Complete:
		if prev == nil || !prev.Complete {
			w.logger.Info("draft complete", "picks", state.PicksMade)
		}
	case state.IsUserTurn:
		if prev == nil || !prev.IsUserTurn {
			w.logger.Info("your turn", "pick", state.CurrentPick, "available", len(state.Available))
		}
	case prev == nil || prev.PicksUntilTurn != state.PicksUntilTurn:
		w.logger.Info("waiting", "on_the_clock", state.CurrentSeatName, "picks_until_turn", state.PicksUntilTurn)
	}
}

// publish replaces any undelivered state with the new one.
func (w *Watcher) publish(state *draft.DraftState) {
	for {
		select {
		case w.updates <- state:
			if w.config.Metrics != nil {
				w.config.Metrics.IncrementStatesEmitted()
			}
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}
