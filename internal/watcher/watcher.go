// Package watcher reports source files that changed under a set of
// directories, debouncing bursts of filesystem events.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period before changes are reported
const DefaultDebounce = 300 * time.Millisecond

// Filter decides whether a changed path is reported
type Filter func(path string) bool

// Handler receives the changed files of one debounce window, sorted
type Handler func(ctx context.Context, files []string)

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	// Filter selects the files of interest; nil reports every file.
	Filter Filter
	// Skip prunes directories from the recursive watch.
	Skip Filter
}

// Watcher watches directory trees for created or modified files
type Watcher struct {
	fs     *fsnotify.Watcher
	logger zerolog.Logger
	opts   Options

	mu      sync.Mutex
	pending map[string]bool
}

// New starts watching dirs recursively
func New(logger zerolog.Logger, dirs []string, opts Options) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, errors.New("no directories to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fs: fsw, logger: logger, opts: opts, pending: map[string]bool{}}
	for _, dir := range dirs {
		if err := w.addRecursive(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run delivers changes to handle until ctx is cancelled, then closes the
// watcher. handle runs on the Run goroutine, so events arriving meanwhile
// are batched into the next window.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.fs.Close()

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.accept(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.opts.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			if files := w.drain(); len(files) > 0 {
				handle(ctx, files)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// accept records a relevant event, adding newly created directories to the watch
func (w *Watcher) accept(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch new directory")
			}
		}
		return false
	}

	if w.opts.Filter != nil && !w.opts.Filter(event.Name) {
		return false
	}

	w.mu.Lock()
	w.pending[event.Name] = true
	w.mu.Unlock()
	return true
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = map[string]bool{}
	sort.Strings(files)
	return files
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && w.opts.Skip != nil && w.opts.Skip(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn().Err(err).Str("dir", path).Msg("failed to watch directory")
		}
		return nil
	})
}
