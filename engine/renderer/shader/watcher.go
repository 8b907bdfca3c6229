package shader

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads file-backed shaders when their source files change on disk.
// Directories are watched rather than files so editors that save by rename are still seen.
type Watcher struct {
	mu      sync.Mutex
	fs      *fsnotify.Watcher
	shaders map[string][]Shader // absolute path -> shaders loaded from it
	dirs    map[string]bool

	// OnReload, when set, is called after every reload attempt with the shader and the
	// reload error (nil on success).
	OnReload func(s Shader, err error)
}

// NewWatcher creates a Watcher for the given shaders. Shaders without a path are ignored.
//
// Parameters:
//   - shaders: the shaders to watch
//
// Returns:
//   - *Watcher: the watcher
//   - error: an error if the OS watcher cannot be created or a directory cannot be watched
func NewWatcher(shaders ...Shader) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: create watcher: %w", err)
	}
	w := &Watcher{
		fs:      fw,
		shaders: make(map[string][]Shader),
		dirs:    make(map[string]bool),
	}
	for _, s := range shaders {
		if err := w.Add(s); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Add starts watching a file-backed shader.
//
// Parameters:
//   - s: the shader; shaders with an empty Path are ignored
//
// Returns:
//   - error: an error if the shader's directory cannot be watched
func (w *Watcher) Add(s Shader) error {
	if s.Path() == "" {
		return nil
	}
	abs, err := filepath.Abs(s.Path())
	if err != nil {
		return fmt.Errorf("shader: resolve %q: %w", s.Path(), err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("shader: watch %q: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.shaders[abs] = append(w.shaders[abs], s)
	return nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
//
// Parameters:
//   - ctx: cancels the loop
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.handle(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[Shader] watcher error: %v", err)
		}
	}
}

// handle reloads every shader loaded from path.
func (w *Watcher) handle(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	targets := append([]Shader(nil), w.shaders[abs]...)
	w.mu.Unlock()

	for _, s := range targets {
		err := s.Reload()
		if err != nil {
			log.Printf("[Shader] reload %s failed, keeping previous source: %v", s.Key(), err)
		} else {
			log.Printf("[Shader] reloaded %s (v%d)", s.Key(), s.Version())
		}
		if w.OnReload != nil {
			w.OnReload(s, err)
		}
	}
}

// Close stops the underlying OS watcher. Run returns once its channels close.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
