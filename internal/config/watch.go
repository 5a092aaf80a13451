package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"

	"github.com/gogpu/pixart"
)

// settle is how long a burst of file events must stay quiet before the
// callback runs. Editors often write a file in several steps.
const settle = 100 * time.Millisecond

// WatchFiles calls fn with the path of each listed file after it is written or
// created. It blocks until ctx is done.
//
// The parent directories are watched rather than the files, so a file that
// is replaced by an atomic rename keeps being tracked.
func WatchFiles(ctx context.Context, paths []string, fn func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	want := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("config: watch %s: %w", p, err)
		}
		want[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("config: watch %s: %w", d, err)
		}
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || !want[name] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			pending[name] = true
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			pixart.Logger().Warn("watch error", "err", err)
		case <-timer.C:
			for p := range pending {
				fn(p)
			}
			clear(pending)
		}
	}
}

// Watch reloads the settings file at path whenever it changes and passes
// the result to fn. A reload that fails to parse or validate hands fn the
// error instead; the caller decides whether to keep the previous settings.
func Watch(ctx context.Context, path string, fn func(Config, error)) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: expand %s: %w", path, err)
	}
	return WatchFiles(ctx, []string{path}, func(p string) {
		fn(Load(p))
	})
}
