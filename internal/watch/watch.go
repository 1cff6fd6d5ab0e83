// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     watch
// Description: Re-runs a handler when watched source files change
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	asmerror "github.com/msto63/asmfmt/pkg/core/error"
	asmlog "github.com/msto63/asmfmt/pkg/core/log"
)

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 100 * time.Millisecond

// Handler is called once per changed file after the debounce window closes
type Handler func(ctx context.Context, path string)

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	Logger   *asmlog.Logger
}

// Watcher watches a fixed set of files. The parent directories are watched
// so that editors which save by rename keep being tracked.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]string // cleaned absolute path -> path as given
	debounce time.Duration
	logger   *asmlog.Logger

	closeOnce sync.Once
}

// New starts watching paths. Nothing is reported until Run is called.
func New(paths []string, opts Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, asmerror.New("no files to watch").
			WithCode(asmerror.CodeInvalidInput).
			WithOperation("watch.New")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = asmlog.GetDefault()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, asmerror.Wrap(err, "failed to create file watcher").
			WithCode(asmerror.CodeIO).
			WithOperation("watch.New")
	}

	logger := opts.Logger.WithFields(asmlog.Fields{
		"component": "watch",
		"debounce":  opts.Debounce.String(),
	})

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]string, len(paths)),
		debounce: opts.Debounce,
		logger:   logger,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, asmerror.Wrap(err, "failed to resolve path").
				WithCode(asmerror.CodeIO).
				WithDetail("file", p).
				WithOperation("watch.New")
		}
		w.files[abs] = p
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, asmerror.Wrap(err, "failed to watch directory").
				WithCode(asmerror.CodeIO).
				WithDetail("dir", dir).
				WithOperation("watch.New")
		}
		w.logger.Debug("Watching directory", asmlog.Field("dir", dir))
	}

	return w, nil
}

// Files returns the watched paths as they were given, sorted
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for _, p := range w.files {
		files = append(files, p)
	}
	sort.Strings(files)
	return files
}

// Run delivers change notifications to h until ctx is cancelled or the
// watcher is closed. Changes arriving within the debounce window are
// coalesced into one call per file.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	pending := make(map[string]struct{})

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			path, watched := w.match(ev)
			if !watched {
				continue
			}
			w.logger.Trace("File event", asmlog.Fields{"file": path, "op": ev.Op.String()})
			pending[path] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnWithErr("Watcher error", err)

		case <-timer.C:
			for _, path := range sortedKeys(pending) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				h(ctx, path)
			}
			pending = make(map[string]struct{})
		}
	}
}

// Close stops the underlying watcher; Run returns afterwards
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fs.Close()
	})
	return err
}

// match reports whether ev concerns a watched file with new content
func (w *Watcher) match(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	path, ok := w.files[abs]
	return path, ok
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
