package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher watches one file using fsnotify.
type FileWatcher struct {
	path  string
	dir   string
	delay time.Duration
	ops   Op
	log   zerolog.Logger

	events     atomic.Int64
	deliveries atomic.Int64
	errors     atomic.Int64
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the quiet period before the handler runs.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		w.delay = d
	}
}

// WithOps sets which operations trigger the handler.
func WithOps(ops Op) Option {
	return func(w *FileWatcher) {
		if ops != 0 {
			w.ops = ops
		}
	}
}

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *FileWatcher) {
		w.log = l
	}
}

// New creates a watcher for the file at path. The file must exist.
func New(path string, opts ...Option) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrPathNotExist)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	w := &FileWatcher{
		path:  abs,
		dir:   filepath.Dir(abs),
		delay: DefaultDebounce,
		ops:   DefaultOps,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Stats returns the watcher counters.
func (w *FileWatcher) Stats() Stats {
	return Stats{
		Events:     w.events.Load(),
		Deliveries: w.deliveries.Load(),
		Errors:     w.errors.Load(),
	}
}

// Run watches the file until ctx is cancelled, calling fn on the calling
// goroutine once per debounced change. It returns nil on cancellation.
func (w *FileWatcher) Run(ctx context.Context, fn Handler) error {
	if fn == nil {
		return ErrNilHandler
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	deb := NewDebouncer(w.delay)
	defer deb.Stop()

	w.log.Debug().Str("path", w.path).Dur("debounce", w.delay).Msg("watching")

	for {
		select {
		case <-ctx.Done():
			w.log.Debug().Str("path", w.path).Msg("watch stopped")
			return nil

		case fsEvent, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev, ok := w.accept(fsEvent); ok {
				w.events.Add(1)
				deb.Add(ev)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.errors.Add(1)
			w.log.Warn().Err(err).Str("path", w.path).Msg("watch error")

		case ev := <-deb.C():
			w.deliveries.Add(1)
			w.log.Debug().Str("op", ev.Op.String()).Msg("file changed")
			fn(ev)
		}
	}
}

// accept converts an fsnotify event and keeps it if it targets the watched
// file with a selected operation.
func (w *FileWatcher) accept(fsEvent fsnotify.Event) (Event, bool) {
	if filepath.Clean(fsEvent.Name) != w.path {
		return Event{}, false
	}
	op := convertOp(fsEvent.Op)
	if op&w.ops == 0 {
		return Event{}, false
	}
	return Event{Path: w.path, Op: op, Timestamp: time.Now()}, true
}

// convertOp converts fsnotify.Op to watcher.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
