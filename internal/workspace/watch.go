package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"asp-intel/internal/fileuri"
)

// Watcher follows a scanned workspace with fsnotify and turns filesystem
// events into document updates and removals. Directories are watched
// recursively; new directories are picked up as they appear.
type Watcher struct {
	scanner *Scanner
	fsw     *fsnotify.Watcher
	log     commonlog.Logger
}

func NewWatcher(scanner *Scanner) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		scanner: scanner,
		fsw:     fsw,
		log:     commonlog.GetLogger("asp-intel.watch"),
	}
	if err := w.addDirs(scanner.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers events until the watcher is closed. onUpdate receives a
// freshly read File for created or written documents; onRemove receives
// the path of deleted or renamed ones.
func (w *Watcher) Run(onUpdate func(File), onRemove func(path string)) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event, onUpdate, onRemove)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warningf("watch error: %s", err.Error())
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handle(event fsnotify.Event, onUpdate func(File), onRemove func(string)) {
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			rel, err := filepath.Rel(w.scanner.Root(), path)
			if err != nil || !w.scanner.skipDir(filepath.Base(path), rel) {
				if err := w.addDirs(path); err != nil {
					w.log.Warningf("watch new directory %s: %s", path, err.Error())
				}
			}
			return
		}
	}

	kind, recognized := KindForPath(path)
	if !recognized {
		return
	}
	rel, err := filepath.Rel(w.scanner.Root(), path)
	if err == nil && w.scanner.skipFile(rel) {
		return
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		data, err := os.ReadFile(path)
		if err != nil {
			w.log.Warningf("read changed file %s: %s", path, err.Error())
			return
		}
		onUpdate(File{
			Path:    path,
			URI:     fileuri.FromPath(path),
			Kind:    kind,
			Content: strings.ToValidUTF8(string(data), "�"),
		})
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		onRemove(path)
	}
}

// addDirs registers root and every non-ignored directory under it.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root {
			rel, relErr := filepath.Rel(w.scanner.Root(), path)
			if relErr == nil && w.scanner.skipDir(d.Name(), rel) {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
