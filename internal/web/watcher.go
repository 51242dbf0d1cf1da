package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/galleri/core/logger"
)

// TemplateWatcher reloads a Renderer whenever files in a directory change.
type TemplateWatcher struct {
	renderer *Renderer
	watcher  *fsnotify.Watcher
	log      *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewTemplateWatcher starts watching dir. The renderer must read from the
// same directory, e.g. os.DirFS(dir).
func NewTemplateWatcher(renderer *Renderer, dir string, log *slog.Logger) (*TemplateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if log == nil {
		log = slog.Default()
	}
	return &TemplateWatcher{renderer: renderer, watcher: w, log: log.With(logger.Component("templates"))}, nil
}

// Close stops watching. It is safe to call more than once and before Run;
// a closed watcher makes Run return immediately.
func (tw *TemplateWatcher) Close() error {
	tw.closeOnce.Do(func() { tw.closeErr = tw.watcher.Close() })
	return tw.closeErr
}

// Run handles change events until ctx is done, then closes the watcher.
func (tw *TemplateWatcher) Run(ctx context.Context) error {
	defer func() { _ = tw.Close() }()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-tw.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&relevant == 0 {
				continue
			}
			if err := tw.renderer.Reload(); err != nil {
				tw.log.ErrorContext(ctx, "template reload failed", logger.Error(err), slog.String("file", ev.Name))
				continue
			}
			tw.log.InfoContext(ctx, "templates reloaded", slog.String("file", ev.Name))
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return nil
			}
			tw.log.WarnContext(ctx, "template watcher error", logger.Error(err))
		}
	}
}
