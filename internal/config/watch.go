package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// fileConfig is the on-disk JSON shape loaded and watched by Watcher; only
// the tunables meaningful to retune at runtime are exposed (ListLimit and
// MinBlockSize are compile-time constants of the core and are not part of
// the reloadable surface).
type fileConfig struct {
	ChunkSize     int    `json:"chunk_size,omitempty"`
	RequireFormat string `json:"require_format,omitempty"`
}

// LoadFile reads and validates a JSON tuning file into a Config built on
// top of Default().
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("segalloc: read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("segalloc: parse config %s: %w", path, err)
	}

	opts := []Option{}
	if fc.ChunkSize != 0 {
		opts = append(opts, WithChunkSize(fc.ChunkSize))
	}

	if fc.RequireFormat != "" {
		opts = append(opts, WithRequireFormat(fc.RequireFormat))
	}

	return New(opts...)
}

// Watcher republishes a Config whenever the backing JSON file changes on
// disk. Grounded on the FSNotifyWatcher shape used elsewhere in this
// codebase's lineage (a filesystem-tree watcher): an fsnotify.Watcher whose
// Events/Errors channels are drained by one goroutine and translated into
// this package's own channel types.
type Watcher struct {
	path   string
	w      *fsnotify.Watcher
	updC   chan *Config
	errC   chan error
	closed chan struct{}
}

// Watch starts watching path for changes, publishing a freshly loaded and
// validated Config on Updates() each time the file is written. The caller
// is responsible for applying updates (e.g. via
// segalloc.Allocator.Reconfigure) — Watch never touches a live heap.
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("segalloc: create config watcher: %w", err)
	}

	if err := w.Add(path); err != nil {
		w.Close()

		return nil, fmt.Errorf("segalloc: watch %s: %w", path, err)
	}

	cw := &Watcher{
		path:   path,
		w:      w,
		updC:   make(chan *Config, 1),
		errC:   make(chan error, 1),
		closed: make(chan struct{}),
	}

	go cw.loop()

	return cw, nil
}

func (cw *Watcher) loop() {
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := LoadFile(cw.path)
			if err != nil {
				select {
				case cw.errC <- err:
				case <-cw.closed:
					return
				}

				continue
			}

			select {
			case cw.updC <- cfg:
			case <-cw.closed:
				return
			}
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}

			select {
			case cw.errC <- err:
			case <-cw.closed:
				return
			}
		case <-cw.closed:
			return
		}
	}
}

// Updates returns the channel of successfully reloaded configs.
func (cw *Watcher) Updates() <-chan *Config { return cw.updC }

// Errors returns the channel of reload/watch errors.
func (cw *Watcher) Errors() <-chan error { return cw.errC }

// Close stops watching and releases the underlying fsnotify.Watcher.
func (cw *Watcher) Close() error {
	close(cw.closed)

	return cw.w.Close()
}
