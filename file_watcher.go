package conduct

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher emits the contents of a form definition file: once
// immediately, then again on every write. Editors that save by renaming a
// temp file over the target are handled by re-adding the path after a
// remove or rename event.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a FileWatcher for the given definition file.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch starts observing the file. The returned channel carries the file
// contents, beginning with the current contents so the initial form can be
// built, and closes when the context is canceled.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := fsw.Add(w.path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.path, err)
	}

	out := make(chan []byte)
	go w.run(ctx, fsw, out)
	return out, nil
}

func (w *FileWatcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []byte) {
	defer close(out)
	defer fsw.Close()

	w.emit(ctx, out)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.emit(ctx, out)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Atomic saves replace the inode; re-add and emit if
				// the file is back.
				if err := fsw.Add(w.path); err == nil {
					w.emit(ctx, out)
				}
			}

		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next event still arrives.
		}
	}
}

// emit reads the file and sends its contents. Read failures are skipped;
// a partial write settles on the next event.
func (w *FileWatcher) emit(ctx context.Context, out chan<- []byte) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return
	}
	select {
	case out <- data:
	case <-ctx.Done():
	}
}
