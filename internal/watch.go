package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	tt "github.com/gnolang/arbiter/internal/types"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits after the last write to
// a file before checking it again.
const DefaultDebounce = 100 * time.Millisecond

// ReportFunc receives the result of re-checking a changed file.
type ReportFunc func(filename string, diags []tt.Diagnostic, err error)

// Watcher re-runs an engine over program files whenever they change.
type Watcher struct {
	engine     *Engine
	logger     *zap.Logger
	extensions map[string]bool
	debounce   time.Duration
	report     ReportFunc
}

func NewWatcher(engine *Engine, logger *zap.Logger, extensions []string, report ReportFunc) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[ext] = true
	}
	return &Watcher{
		engine:     engine,
		logger:     logger,
		extensions: exts,
		debounce:   DefaultDebounce,
		report:     report,
	}
}

// SetDebounce changes the quiet period between a write and the re-check.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch blocks until ctx is done, re-checking every changed file under
// the given paths. Several writes to the same file within the debounce
// period are reported once.
func (w *Watcher) Watch(ctx context.Context, paths ...string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer fw.Close()

	targets := newWatchTargets()
	for _, path := range paths {
		if err := w.add(fw, targets, path); err != nil {
			return err
		}
	}
	w.logger.Info("watching for changes", zap.Strings("paths", paths))

	timer := time.NewTimer(w.debounce)
	stopTimer(timer)
	defer timer.Stop()

	pending := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event, targets) {
				continue
			}
			w.logger.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			pending[event.Name] = struct{}{}
			stopTimer(timer)
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		case <-timer.C:
			w.flush(pending)
			pending = make(map[string]struct{})
		}
	}
}

// stopTimer stops t and drains a tick that already fired, so a following
// Reset starts a full quiet period.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// watchTargets records what the user asked to watch. A file is watched
// through its directory, so events for its siblings must be filtered out.
type watchTargets struct {
	files map[string]bool
	roots []string
}

func newWatchTargets() *watchTargets {
	return &watchTargets{files: make(map[string]bool)}
}

func (t *watchTargets) addFile(path string) {
	t.files[filepath.Clean(path)] = true
}

func (t *watchTargets) addRoot(path string) {
	t.roots = append(t.roots, filepath.Clean(path))
}

func (t *watchTargets) contains(name string) bool {
	name = filepath.Clean(name)
	if t.files[name] {
		return true
	}
	for _, root := range t.roots {
		rel, err := filepath.Rel(root, name)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) add(fw *fsnotify.Watcher, targets *watchTargets, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		// editors often replace files, so watch the directory instead
		targets.addFile(path)
		return fw.Add(filepath.Dir(path))
	}

	targets.addRoot(path)
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return fw.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

func (w *Watcher) relevant(event fsnotify.Event, targets *watchTargets) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !targets.files[filepath.Clean(event.Name)] && !w.extensions[filepath.Ext(event.Name)] {
		return false
	}
	return targets.contains(event.Name)
}

func (w *Watcher) flush(pending map[string]struct{}) {
	files := make([]string, 0, len(pending))
	for name := range pending {
		files = append(files, name)
	}
	sort.Strings(files)

	for _, name := range files {
		diags, err := w.engine.Run(name)
		if err != nil {
			w.logger.Debug("check failed", zap.String("file", name), zap.Error(err))
		} else {
			w.logger.Debug("checked file", zap.String("file", name), zap.Int("diagnostics", len(diags)))
		}
		if w.report != nil {
			w.report(name, diags, err)
		}
	}
}
