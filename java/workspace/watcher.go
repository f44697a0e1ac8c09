package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changed source files below a set of roots. Bursts of
// events for the same file within Debounce are reported once.
type Watcher struct {
	Debounce time.Duration

	watcher *fsnotify.Watcher
	roots   []string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewWatcher(roots ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		Debounce: 100 * time.Millisecond,
		watcher:  fw,
		roots:    roots,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Watch calls onChange with the path of every created or written .java file
// until ctx is done. A root may be a directory, which is watched
// recursively, or a single file.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	defer w.watcher.Close()
	for _, root := range w.roots {
		if err := w.add(root); err != nil {
			return err
		}
	}
	log.Infof("watching %s", strings.Join(w.roots, ", "))

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch: %s", err)
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev, onChange)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event, onChange func(string)) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.add(ev.Name); err != nil {
				log.Warningf("watch %s: %s", ev.Name, err)
			}
			return
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if filepath.Ext(ev.Name) != ".java" {
		return
	}
	log.Debugf("%s %s", ev.Op, ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[ev.Name]; ok {
		t.Stop()
	}
	path := ev.Name
	w.pending[path] = time.AfterFunc(w.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		onChange(path)
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// add watches root and, for a directory, every non-hidden directory below
// it.
func (w *Watcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
