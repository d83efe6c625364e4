package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce lets a burst of filesystem events settle before a round
// is triggered, so half-written torrents don't cause scan churn.
const watchDebounce = 30 * time.Second

// Monitor re-runs the sync round on a timer and, when watch mode is on,
// whenever something changes inside the watched directories.
type Monitor struct {
	animeSync *AnimeSync
	interval  time.Duration
	watch     bool

	paused  atomic.Bool
	mu      sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// Pause keeps the loop alive but skips rounds until Resume.
func (m *Monitor) Pause()  { m.paused.Store(true) }
func (m *Monitor) Resume() { m.paused.Store(false) }

func NewMonitor(animeSync *AnimeSync, intervalSeconds int, watch bool) *Monitor {
	return &Monitor{
		animeSync: animeSync,
		interval:  time.Duration(intervalSeconds) * time.Second,
		watch:     watch,
		trigger:   make(chan struct{}, 1),
	}
}

// Run blocks until ctx is cancelled, running one round immediately and
// again on every tick or debounced filesystem event.
func (m *Monitor) Run(ctx context.Context) error {
	if m.watch {
		watcher, err := m.startWatcher()
		if err != nil {
			Log("❌ filesystem watch unavailable:", err)
		} else {
			defer watcher.Close()
		}
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if m.paused.Load() {
			Log("⏸ monitoring paused, skipping round")
		} else if err := m.animeSync.RunRound(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			Log("❌ sync round failed:", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-m.trigger:
			Log("🔔 filesystem changed, rescanning")
		}
	}
}

func (m *Monitor) startWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range m.animeSync.config.Directories {
		if err := addWatchRecursive(watcher, dir); err != nil {
			Log("❌ cannot watch", dir, err)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				m.handleEvent(watcher, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				Log("❌ watcher:", err)
			}
		}
	}()
	return watcher, nil
}

func (m *Monitor) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	// Newly created directories need their own watch
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = addWatchRecursive(watcher, Path(event.Name))
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) == 0 {
		return
	}
	if !Path(event.Name).hasVideoExtension(defaultVideoExtensions) {
		return
	}

	m.scheduleRound()
}

func (m *Monitor) scheduleRound() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Reset(watchDebounce)
		return
	}
	m.timer = time.AfterFunc(watchDebounce, func() {
		m.mu.Lock()
		m.timer = nil
		m.mu.Unlock()

		select {
		case m.trigger <- struct{}{}:
		default:
		}
	})
}

func addWatchRecursive(watcher *fsnotify.Watcher, root Path) error {
	return filepath.WalkDir(string(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				Log("❌ cannot watch", path, err)
			}
		}
		return nil
	})
}
