package app

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"
)

// Reloader watches the running binary for a rebuilt replacement and invokes
// a callback once a newer one lands. Development aid, enabled by a flag.
type Reloader struct {
	execPath  string
	builtAt   time.Time
	watcher   *fsnotify.Watcher
	onReplace func()
}

// NewReloader creates a reloader watching the current executable.
func NewReloader() (*Reloader, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// go build writes a new file behind the symlink.
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}
	// Watch the directory: rebuilding replaces the file, which would drop
	// a watch held on the file itself.
	if err := watcher.Add(filepath.Dir(execPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(execPath), err)
	}

	return &Reloader{
		execPath: execPath,
		builtAt:  info.ModTime(),
		watcher:  watcher,
	}, nil
}

// OnReplace sets the callback invoked when a newer binary is detected.
// The callback runs on a background goroutine.
func (r *Reloader) OnReplace(callback func()) {
	r.onReplace = callback
}

// Start begins watching in a background goroutine. The watcher announces a
// replacement at most once.
func (r *Reloader) Start() {
	go r.loop()
}

// Stop shuts the watcher down.
func (r *Reloader) Stop() {
	r.watcher.Close()
}

func (r *Reloader) loop() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Name != r.execPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !r.replaced() {
				continue
			}
			// Give the linker a moment to finish writing.
			time.Sleep(200 * time.Millisecond)
			if r.onReplace != nil {
				r.onReplace()
			}
			return
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			klog.Warningf("reload watcher: %v", err)
		}
	}
}

// replaced reports whether the binary on disk is newer than the one running.
func (r *Reloader) replaced() bool {
	info, err := os.Stat(r.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(r.builtAt)
}

// Restart replaces the current process with the rebuilt binary, preserving
// arguments and environment. Does not return on success.
func (r *Reloader) Restart() error {
	return syscall.Exec(r.execPath, os.Args, os.Environ())
}
