package app

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/solarlune/swrast"
)

// Writes closer together than this are loaded once.
const reloadDebounce = 100 * time.Millisecond

// ConfigWatcher reloads a configuration file whenever it changes on disk, and delivers each version that loads and
// validates on Changes. Files that fail to load are logged and skipped, so the last good configuration stays in use.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan Config
	done    chan struct{}
}

// WatchConfig starts watching the configuration file at path. The file's directory is watched rather than the file
// itself, so that editors that save by replacing the file are still picked up.
func WatchConfig(path string) (*ConfigWatcher, error) {

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		path:    path,
		watcher: watcher,
		changes: make(chan Config, 1),
		done:    make(chan struct{}),
	}

	go cw.watch()

	return cw, nil

}

func (cw *ConfigWatcher) watch() {

	defer close(cw.changes)

	var pending <-chan time.Time

	for {
		select {

		case <-cw.done:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			pending = time.After(reloadDebounce)

		case <-pending:
			pending = nil
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			swrast.Logger().Warn("config watcher error", "path", cw.path, "error", err)

		}
	}

}

func (cw *ConfigWatcher) reload() {

	cfg, err := Load(cw.path)
	if err != nil {
		swrast.Logger().Warn("config reload failed", "error", err)
		return
	}

	swrast.Logger().Info("config reloaded", "path", cw.path)

	// Only the newest configuration matters.
	select {
	case <-cw.changes:
	default:
	}

	select {
	case cw.changes <- cfg:
	case <-cw.done:
	}

}

// Changes returns the channel reloaded configurations are sent on. It's closed once the watcher stops.
func (cw *ConfigWatcher) Changes() <-chan Config {
	return cw.changes
}

// Close stops watching.
func (cw *ConfigWatcher) Close() error {
	select {
	case <-cw.done:
		return nil
	default:
	}
	close(cw.done)
	return cw.watcher.Close()
}
