package app

import (
	"context"
	"io"
	"path/filepath"

	"github.com/samber/oops"

	"github.com/kkshell/kkconf/internal/logging"
	"github.com/kkshell/kkconf/internal/paths"
	"github.com/kkshell/kkconf/internal/prefs"
	"github.com/kkshell/kkconf/internal/settings"
	"github.com/kkshell/kkconf/internal/ui"
)

// Options configure the kkconf browser.
type Options struct {
	SettingsPath string // empty uses ~/.config/kkshell/ini/settings.ini
	PrefsPath    string // empty uses ~/.config/kkshell/kkconf.toml
	Logger       *logging.Logger
}

// Session is everything the browser runs on, opened but not yet shown.
type Session struct {
	Store   *settings.Store
	Prefs   prefs.Prefs
	LogPath string
	Watcher *Watcher // nil when the settings directory cannot be watched

	log     *logging.Logger
	logFile io.Closer
}

// Open loads the settings and preferences and moves logging into the
// settings directory, where it cannot draw over the TUI.
func Open(opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	store := settings.Open(settings.Options{Path: opts.SettingsPath, Logger: log})

	s := &Session{
		Store:   store,
		LogPath: filepath.Join(store.Dir(), paths.LogFileName),
		log:     log,
	}

	closer, err := log.ToFile(s.LogPath)
	if err != nil {
		return nil, oops.In("app").With("path", s.LogPath).Wrapf(err, "open log file")
	}
	s.logFile = closer

	s.Prefs, _ = prefs.Load(opts.PrefsPath)

	w, err := NewWatcher(store.Path(), log)
	if err != nil {
		log.WithError(err).Warn("external changes will not be detected")
	} else {
		s.Watcher = w
	}

	log.WithField("path", store.Path()).Info("kkconf started")
	return s, nil
}

// Close stops the watcher and the log file.
func (s *Session) Close() error {
	if s.Watcher != nil {
		_ = s.Watcher.Close()
	}
	if s.logFile != nil {
		return s.logFile.Close()
	}
	return nil
}

// Run boots the kkconf TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	uiOpts := ui.Options{
		Store:       s.Store,
		ThemeName:   s.Prefs.Theme,
		PrefsPath:   opts.PrefsPath,
		LastSection: s.Prefs.LastSection,
		LogPath:     s.LogPath,
		Logger:      s.log,
	}
	if s.Watcher != nil {
		uiOpts.OnSave = s.Watcher.Acknowledge
	}

	program := ui.NewProgram(uiOpts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.Watcher != nil {
		go s.Watcher.Run(ctx, func() { program.Send(ui.ExternalChangeMsg{}) })
	}
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return oops.In("app").Wrapf(err, "run ui")
	}
	return nil
}
