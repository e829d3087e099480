package settings

import (
	"path/filepath"

	"github.com/samber/oops"
	"gopkg.in/ini.v1"

	"github.com/kkshell/kkconf/internal/defaults"
	"github.com/kkshell/kkconf/internal/logging"
	"github.com/kkshell/kkconf/internal/paths"
)

const (
	versionSection = "app"
	versionKey     = "version"
	// absentVersion marks a file that was never written by kkshell.
	absentVersion = "0"
)

// Inline comments and backslash continuations are disabled so values such as
// "#FF5555", "a;b" or "C:\temp\" survive unchanged. A stray line without a
// delimiter is skipped rather than failing the whole file.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	SkipUnrecognizableLines: true,
}

// Options configure a Store.
type Options struct {
	Path     string // empty uses ~/.config/kkshell/ini/settings.ini
	Defaults []byte // nil uses the embedded kkshell defaults
	Logger   *logging.Logger
}

// Store is the in-memory view of the settings file. Every mutation is
// written back to disk before the call returns.
//
// A Store is not safe for concurrent use.
type Store struct {
	path     string
	dir      string
	defaults []byte
	file     *ini.File
	log      *logging.Logger
	lastErr  error
}

// Open resolves the settings path and loads it. When the file is missing,
// unparsable, or carries no usable [app] version, the embedded defaults are
// loaded instead and written out. Open never fails; persistence problems are
// logged and reported by Err.
func Open(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	path, err := paths.Resolve(opts.Path, paths.DefaultSettingsPath)
	if err != nil {
		log.WithError(err).WithField("path", opts.Path).Warn("cannot resolve settings path, using it as given")
		path = opts.Path
	}

	seed := opts.Defaults
	if seed == nil {
		seed = defaults.Settings()
	}

	s := &Store{
		path:     path,
		dir:      filepath.Dir(path),
		defaults: seed,
		file:     ini.Empty(loadOptions),
		log:      log,
	}
	if !s.tryLoad() {
		s.loadDefaultAndPersist()
	}
	return s
}

// Path is the absolute settings file location.
func (s *Store) Path() string { return s.path }

// Dir is the directory holding the settings file.
func (s *Store) Dir() string { return s.dir }

// Err returns the error from the most recent save, or nil if it succeeded.
func (s *Store) Err() error { return s.lastErr }

// Version returns the [app] version value, "0" when absent.
func (s *Store) Version() string {
	return versionOf(s.file)
}

func (s *Store) tryLoad() bool {
	f, err := s.readFile()
	if err != nil {
		s.log.WithError(err).WithField("path", s.path).Warn("settings not loaded, reloading defaults")
		return false
	}
	s.file = f
	return true
}

func (s *Store) loadDefaultAndPersist() {
	f, err := ini.LoadSources(loadOptions, s.defaults)
	if err != nil {
		s.log.WithError(err).Error("default settings are unparsable, starting empty")
		f = ini.Empty(loadOptions)
	}
	s.file = f
	_ = s.Save()
}

// readFile parses the file on disk and applies the version check.
func (s *Store) readFile() (*ini.File, error) {
	f, err := ini.LoadSources(loadOptions, s.path)
	if err != nil {
		return nil, oops.In("settings").With("path", s.path).Wrapf(err, "load settings")
	}
	if versionOf(f) == absentVersion {
		return nil, oops.In("settings").With("path", s.path).Errorf("settings file has no %s.%s", versionSection, versionKey)
	}
	return f, nil
}

// Reload re-reads the file from disk. If the file is missing or invalid the
// in-memory settings are kept and the error is returned.
func (s *Store) Reload() error {
	f, err := s.readFile()
	if err != nil {
		return err
	}
	s.file = f
	s.log.WithField("path", s.path).Debug("settings reloaded")
	return nil
}

// Reset discards the current settings and reseeds from the defaults.
func (s *Store) Reset() {
	s.log.WithField("path", s.path).Info("resetting settings to defaults")
	s.loadDefaultAndPersist()
}

// Save writes the settings to disk. The outcome is also recorded for Err.
func (s *Store) Save() error {
	err := s.persist()
	s.lastErr = err
	if err != nil {
		s.log.WithError(err).WithField("path", s.path).Error("save settings failed")
	}
	return err
}

func versionOf(f *ini.File) string {
	if k, ok := lookupKey(f, versionSection, versionKey); ok {
		return k.String()
	}
	return absentVersion
}

// lookupKey finds a key in its own section only. ini's GetKey also searches
// parent sections of dotted names, which kkshell never relied on.
func lookupKey(f *ini.File, section, key string) (*ini.Key, bool) {
	sec, err := f.GetSection(section)
	if err != nil {
		return nil, false
	}
	for _, k := range sec.Keys() {
		if k.Name() == key {
			return k, true
		}
	}
	return nil, false
}
