package alerts

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dyike/FinSight/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// WatchRules calls onChange with the changed path whenever one of the rule
// files is written, created or renamed into place. Bursts of events within
// debounce collapse into one call. Calls never overlap. It blocks until ctx
// is done.
func WatchRules(ctx context.Context, paths []string, debounce time.Duration, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		clean := filepath.Clean(p)
		targets[clean] = true
		dirs[filepath.Dir(clean)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch rules dir: %w", err)
		}
	}

	var timerMu, callMu sync.Mutex
	timers := map[string]*time.Timer{}
	fire := func(path string) {
		callMu.Lock()
		defer callMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		onChange(path)
	}
	trigger := func(path string) {
		timerMu.Lock()
		defer timerMu.Unlock()
		if t := timers[path]; t != nil {
			t.Stop()
		}
		timers[path] = time.AfterFunc(debounce, func() { fire(path) })
	}
	defer func() {
		timerMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(evt.Name)
			if !targets[name] {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			trigger(name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				logger.L().WithError(err).Warn("rules watcher error")
			}
		case <-ctx.Done():
			return nil
		}
	}
}
