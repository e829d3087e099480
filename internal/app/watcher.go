package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/oops"

	"github.com/kkshell/kkconf/internal/logging"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher reports edits made to the settings file by other processes.
// It watches the parent directory because saves replace the file by rename.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	log      *logging.Logger

	mu    sync.Mutex
	seen  []byte // digest of the content this process last knew about
	timer *time.Timer
}

// NewWatcher starts watching path's directory. The current content counts
// as seen.
func NewWatcher(path string, log *logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Default()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, oops.In("watcher").Wrapf(err, "create fsnotify watcher")
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		_ = fs.Close()
		return nil, oops.In("watcher").With("path", path).Wrapf(err, "watch settings dir")
	}
	w := &Watcher{
		path:     path,
		debounce: defaultDebounce,
		fs:       fs,
		log:      log,
	}
	w.Acknowledge()
	return w, nil
}

// Acknowledge records the file's current content as known, so the event
// produced by this process's own save is not reported.
func (w *Watcher) Acknowledge() {
	sum := digest(w.path)
	w.mu.Lock()
	w.seen = sum
	w.mu.Unlock()
}

// Run delivers a call to onChange for each settled external change until
// ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.log.WithFields(logging.Fields{"path": event.Name, "op": event.Op.String()}).Debug("settings file event")
			w.schedule(onChange)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("settings watcher error")
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.fs.Close()
}

func (w *Watcher) schedule(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.settle(onChange) })
}

func (w *Watcher) settle(onChange func()) {
	sum := digest(w.path)
	w.mu.Lock()
	w.timer = nil
	changed := !bytes.Equal(sum, w.seen)
	if changed {
		w.seen = sum
	}
	w.mu.Unlock()

	if changed {
		w.log.WithField("path", w.path).Info("settings changed on disk")
		onChange()
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// digest hashes the file content; a missing file hashes as nil.
func digest(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return sum[:]
}
