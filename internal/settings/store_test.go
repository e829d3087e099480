package settings

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/kkshell/kkconf/internal/logging"
)

const testDefaults = `[app]
version = 3

[window]
width = 1280
splitter_sizes = 220, 1060

[only_default]
marker = seeded
`

func testLogger() (*logging.Logger, *test.Hook) {
	log := logging.New(io.Discard, "debug")
	return log, test.NewLocal(log.Logger)
}

// openAt writes content (when non-empty) to a settings file under a temp
// dir and opens a Store on it.
func openAt(t *testing.T, content string) (*Store, string, *test.Hook) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ini", "settings.ini")
	if content != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	log, hook := testLogger()
	s := Open(Options{Path: path, Defaults: []byte(testDefaults), Logger: log})
	return s, path, hook
}

func hasEntry(hook *test.Hook, level logrus.Level) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			return true
		}
	}
	return false
}

func TestOpen_MissingFileSeedsDefaultsAndPersists(t *testing.T) {
	s, path, hook := openAt(t, "")

	assert.Equal(t, "seeded", s.GetString("only_default", "marker", ""))
	assert.Equal(t, "3", s.Version())
	assert.NoError(t, s.Err())
	assert.True(t, hasEntry(hook, logrus.WarnLevel), "missing file should be logged")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "marker")
}

func TestOpen_ValidFileIsKept(t *testing.T) {
	s, _, _ := openAt(t, "[app]\nversion = 7\n\n[user]\nname = kk\n")

	assert.Equal(t, "7", s.Version())
	assert.Equal(t, "kk", s.GetString("user", "name", ""))
	assert.False(t, s.Has("only_default", "marker"), "defaults must not be merged into a valid file")
}

func TestOpen_ReseedEquivalentToNoFile(t *testing.T) {
	cases := map[string]string{
		"version zero":    "[app]\nversion = 0\n[user]\nname = kk\n",
		"version missing": "[app]\nname = kk\n[user]\nname = kk\n",
		"no app section":  "[user]\nname = kk\n",
		"unparsable":      "[user\nname = kk\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s, path, _ := openAt(t, content)

			assert.Equal(t, "seeded", s.GetString("only_default", "marker", ""))
			assert.False(t, s.Has("user", "name"), "reseed must discard partially loaded data")

			reopened := Open(Options{Path: path, Defaults: []byte("[app]\nversion = 99\n"), Logger: logging.Discard()})
			assert.Equal(t, "3", reopened.Version(), "reseeded defaults should be on disk")
		})
	}
}

func TestOpen_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := Open(Options{Path: "~/.config/kkshell/ini/settings.ini", Defaults: []byte(testDefaults), Logger: logging.Discard()})

	want := filepath.Join(home, ".config", "kkshell", "ini", "settings.ini")
	assert.Equal(t, want, s.Path())
	assert.Equal(t, filepath.Dir(want), s.Dir())
	assert.FileExists(t, want)
}

func TestOpen_DefaultPathUsesEmbeddedDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := Open(Options{Logger: logging.Discard()})

	assert.Equal(t, filepath.Join(home, ".config", "kkshell", "ini", "settings.ini"), s.Path())
	assert.NotEqual(t, absentVersion, s.Version())
	assert.Equal(t, int32(1280), s.GetInt("window", "width", 0))
}

func TestOpen_PersistFailureKeepsInMemoryDefaults(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	log, hook := testLogger()

	s := Open(Options{Path: filepath.Join(blocker, "settings.ini"), Defaults: []byte(testDefaults), Logger: log})

	assert.Error(t, s.Err())
	assert.True(t, hasEntry(hook, logrus.ErrorLevel), "persist failure should be logged")
	assert.Equal(t, "seeded", s.GetString("only_default", "marker", ""))

	s.SetInt("window", "width", 640)
	assert.Equal(t, int32(640), s.GetInt("window", "width", 0), "memory stays authoritative")
	assert.Error(t, s.Err())
}

func TestOpen_RecreatesRemovedDirectoryOnSave(t *testing.T) {
	s, path, _ := openAt(t, "")
	require.NoError(t, os.RemoveAll(filepath.Dir(path)))

	s.SetString("user", "name", "kk")

	require.NoError(t, s.Err())
	assert.FileExists(t, path)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s, path, _ := openAt(t, "")
	s.SetBool("a", "b", true)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.ini", entries[0].Name())
}

func TestReload_PicksUpExternalEdits(t *testing.T) {
	s, path, _ := openAt(t, "[app]\nversion = 1\n[user]\nname = old\n")

	require.NoError(t, os.WriteFile(path, []byte("[app]\nversion = 1\n[user]\nname = new\n"), 0o644))
	require.NoError(t, s.Reload())

	assert.Equal(t, "new", s.GetString("user", "name", ""))
}

func TestReload_InvalidFileKeepsMemory(t *testing.T) {
	s, path, _ := openAt(t, "[app]\nversion = 1\n[user]\nname = old\n")

	require.NoError(t, os.WriteFile(path, []byte("[app]\nversion = 0\n"), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, "old", s.GetString("user", "name", ""))

	require.NoError(t, os.Remove(path))
	assert.Error(t, s.Reload())
	assert.Equal(t, "old", s.GetString("user", "name", ""))
}

func TestReset_ReseedsFromDefaults(t *testing.T) {
	s, path, _ := openAt(t, "[app]\nversion = 1\n[user]\nname = kk\n")

	s.Reset()

	assert.False(t, s.Has("user", "name"))
	assert.Equal(t, "seeded", s.GetString("only_default", "marker", ""))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "[user]")
}

func TestOpen_SkipsStrayLines(t *testing.T) {
	s, _, _ := openAt(t, "[app]\nversion = 5\n[user]\nname = kk\nstray line\n")

	assert.Equal(t, "5", s.Version())
	assert.Equal(t, "kk", s.GetString("user", "name", ""))
	assert.False(t, s.Has("only_default", "marker"))
}

func TestSetString_UnstorableValueKeepsFile(t *testing.T) {
	s, path, hook := openAt(t, "[app]\nversion = 4\n[user]\nname = kk\n")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// No quoting form reads this back: a backtick ends the first line early
	// and so does a triple quote.
	s.SetString("p", "bad", "x\"\"\"`y\nz")

	assert.Error(t, s.Err())
	assert.False(t, s.Has("p", "bad"))
	assert.True(t, hasEntry(hook, logrus.ErrorLevel))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	reopened := Open(Options{Path: path, Defaults: []byte(testDefaults), Logger: logging.Discard()})
	assert.Equal(t, "4", reopened.Version())
	assert.Equal(t, "kk", reopened.GetString("user", "name", ""))
}

func TestEncode_ReadsBackUnchanged(t *testing.T) {
	f := ini.Empty(loadOptions)
	f.Section("").Key("top").SetValue("level")
	sec := f.Section("window")
	sec.Comment = "# geometry"
	sec.Key("title").SetValue(`"quoted"`)
	sec.Key("notes").SetValue("x\"\"\"y\nz")
	sec.Key(";semi").SetValue("  padded  ")
	f.Section("empty")

	data, err := Encode(f)
	require.NoError(t, err)

	back, err := ini.LoadSources(loadOptions, data)
	require.NoError(t, err)
	assert.Equal(t, []string{ini.DefaultSection, "window", "empty"}, back.SectionStrings())
	assert.Equal(t, "level", back.Section("").Key("top").Value())
	assert.Equal(t, `"quoted"`, back.Section("window").Key("title").Value())
	assert.Equal(t, "x\"\"\"y\nz", back.Section("window").Key("notes").Value())
	assert.Equal(t, "  padded  ", back.Section("window").Key(";semi").Value())
	assert.Contains(t, string(data), "# geometry\n[window]")
}
