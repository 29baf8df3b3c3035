package dictionary

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/snipstorm/internal/debounce"
	"github.com/dshills/snipstorm/internal/event"
)

// ErrWatcherClosed is returned when the watcher has been shut down.
var ErrWatcherClosed = errors.New("dictionary watcher closed")

// reloadQuiet is how long the watcher waits after the last file event
// before reloading. Editors often emit several writes per save.
const reloadQuiet = 200 * time.Millisecond

// Watcher reloads a dictionary file when it changes on disk.
type Watcher struct {
	dict     *Dictionary
	path     string
	notifier *event.Notifier
	fsw      *fsnotify.Watcher
	reload   *debounce.Debouncer
}

// NewWatcher creates a watcher for the given dictionary file. The watch
// is placed on the containing directory so saves that replace the file
// (rename-over) are still observed.
func NewWatcher(dict *Dictionary, path string, notifier *event.Notifier) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		dict:     dict,
		path:     abs,
		notifier: notifier,
		fsw:      fsw,
	}
	w.reload = debounce.New(reloadQuiet, w.doReload)

	return w, nil
}

// Run processes file events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer w.reload.Cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.reload.Call()
			}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			// Watch errors are transient; keep watching.
		}
	}
}

// doReload re-reads the dictionary file and publishes a reload event.
// Parse failures keep the previous dictionary contents.
func (w *Watcher) doReload() {
	if err := Load(w.dict, w.path); err != nil {
		return
	}

	if w.notifier != nil {
		snippets, templates := w.dict.Counts()
		w.notifier.Publish(event.TopicDictionaryReloaded, event.DictionaryReload{
			Path:      w.path,
			Snippets:  snippets,
			Templates: templates,
		})
	}
}
