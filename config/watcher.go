package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher re-resolves the configuration whenever its file changes
// The parent directory is watched so editors that replace the file by rename are seen
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(Config, error)
	log      zerolog.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	reloads int
}

// NewWatcher creates a stopped watcher for path
func NewWatcher(path string, debounce time.Duration, onChange func(Config, error), log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		log:      log.With().Str("component", "config").Logger(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching, it does not block
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Debug().Str("path", w.path).Msg("watching config")

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the fsnotify handle
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error().Err(err).Msg("close watcher")
	}
}

// Reloads returns how many times the file was re-resolved
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug().Str("op", event.Op.String()).Msg("config event")
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")

		case <-timer.C:
			cfg, err := Resolve(w.path)
			w.mu.Lock()
			w.reloads++
			w.mu.Unlock()
			if err != nil {
				w.log.Warn().Err(err).Msg("config reload failed")
			} else {
				w.log.Info().Str("route", cfg.Route).Bool("reduced_motion", cfg.ReducedMotion).Msg("config reloaded")
			}
			w.onChange(cfg, err)
		}
	}
}
