package catalog

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// watcher invalidates the detail cache when the override directory
// changes, so edits to user-managed framework documents are picked up
// without restarting.
type watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching the override directory. It is a no-op when no
// override directory is configured. Call Close to stop.
func (c *Catalog) Watch() error {
	if c.overrideDir == "" {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(c.overrideDir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", c.overrideDir, err)
	}

	w := &watcher{fsw: fsw, done: make(chan struct{})}
	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	go func() {
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					c.invalidate()
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "catalog: watch error: %v\n", err)
			case <-w.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the override-directory watcher if one is running.
func (c *Catalog) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w == nil {
		return nil
	}
	close(w.done)
	return w.fsw.Close()
}
