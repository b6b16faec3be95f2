// Package watch triggers rebuilds when example sources change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/exbuilder/internal/logfields"
)

// Watcher monitors a set of directory trees and invokes a callback after
// changes settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(context.Context)
}

// New creates a watcher over the given directory trees. onChange runs after
// debounce of quiet following a change.
func New(dirs []string, debounce time.Duration, onChange func(context.Context)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{watcher: fw, debounce: debounce, onChange: onChange}
	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return fs.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Start blocks, dispatching debounced change callbacks until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	fire := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			slog.Debug("Filesystem change", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			// New directories need watching too.
			if event.Op.Has(fsnotify.Create) {
				_ = w.addTree(event.Name)
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		case <-pending:
			w.onChange(ctx)
		}
	}
}
