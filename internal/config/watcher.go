package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/costwatch/costwatch/internal/core"
)

// Watcher pushes fresh credentials when the env file changes on disk,
// so a key rotated while the dashboard runs is picked up without a
// restart.
type Watcher struct {
	envFile string
	fs      *fsnotify.Watcher
	updates chan map[core.Provider]string
	done    chan struct{}
}

// WatchEnvFile watches envFile's directory (editors replace files
// rather than writing in place) and emits the parsed keys on every
// relevant change.
func WatchEnvFile(envFile string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(envFile)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(envFile), err)
	}

	w := &Watcher{
		envFile: envFile,
		fs:      fs,
		updates: make(chan map[core.Provider]string, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Updates delivers the latest keys after each env-file change. Only the
// most recent update is retained when the consumer lags.
func (w *Watcher) Updates() <-chan map[core.Provider]string {
	return w.updates
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	defer close(w.updates)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.envFile) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			keys, err := KeysFromEnvFile(w.envFile)
			if err != nil {
				log.Printf("env file reload failed: %v", err)
				continue
			}
			// Drop the stale pending update, keep the newest.
			select {
			case <-w.updates:
			default:
			}
			w.updates <- keys
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("env file watcher: %v", err)
		}
	}
}
