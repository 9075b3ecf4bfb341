package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// storeWatcher reports changes to the store file made by other processes.
// It watches the parent directory because saves replace the file by rename.
type storeWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan struct{}
	done    chan struct{}
}

func newStoreWatcher(path string) (*storeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("resolving store path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	sw := &storeWatcher{
		watcher: w,
		path:    abs,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go sw.loop()
	return sw, nil
}

func (sw *storeWatcher) loop() {
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != sw.path || ev.Op == fsnotify.Chmod {
				continue
			}
			// Coalesce bursts; one pending notification is enough.
			select {
			case sw.changes <- struct{}{}:
			default:
			}
		case _, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
		case <-sw.done:
			return
		}
	}
}

// next returns a Cmd that blocks until the store file changes. The appModel
// re-arms it after every diskChangedMsg. A nil watcher never fires.
func (sw *storeWatcher) next() tea.Cmd {
	if sw == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-sw.changes:
			return diskChangedMsg{}
		case <-sw.done:
			return nil
		}
	}
}

func (sw *storeWatcher) Close() error {
	if sw == nil {
		return nil
	}
	close(sw.done)
	return sw.watcher.Close()
}
