// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches the template catalog, reports changes to template
// documents only, and debounces rapid events (editors often write several
// times per save).
package fsnotify

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corey/slc/internal/ports"
)

// Ensure Watcher implements the interface.
var _ ports.Watcher = (*Watcher)(nil)

// TemplateExt is the extension of template documents.
const TemplateExt = ".json"

// DebounceInterval suppresses repeated events for the same file.
const DebounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	root    string
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewWatcher creates a new catalog watcher.
func NewWatcher(logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:     fw,
		done:   make(chan struct{}),
		logger: logger,
	}, nil
}

// Watch starts monitoring root recursively.
// onChange is called with the absolute path of each changed template file.
func (w *Watcher) Watch(root string, onChange func(filePath string)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return err
	}
	w.root = absRoot

	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}
		if path != absRoot && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
	if err != nil {
		return err
	}

	go w.loop(onChange)
	return nil
}

func (w *Watcher) loop(onChange func(string)) {
	last := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// New category or sub-directory: watch it too.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() && !isHidden(info.Name()) {
					if err := w.fw.Add(path); err != nil {
						w.logger.Debug("watch add failed", "path", path, "err", err)
					}
					continue
				}
			}

			if !isTemplatePath(w.rel(path)) {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}

			now := time.Now()
			if t, seen := last[path]; seen && now.Sub(t) < DebounceInterval {
				continue
			}
			last[path] = now

			w.mu.Lock()
			stopped := w.stopped
			w.mu.Unlock()
			if stopped {
				return
			}
			onChange(path)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("watch error", "err", err)

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// rel returns path relative to the watched root, so hidden directories above
// the root (such as .context/modules) do not hide the catalog.
func (w *Watcher) rel(path string) string {
	r, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return r
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isTemplatePath reports whether the root-relative path is a template
// document outside any hidden directory.
func isTemplatePath(path string) bool {
	if filepath.Ext(path) != TemplateExt {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if isHidden(part) {
			return false
		}
	}
	return true
}
