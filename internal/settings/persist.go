package settings

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/ini.v1"
)

const settingsFileMode = 0o644

// persist rewrites the whole file. The directory check runs on every save
// since something else may have removed it in the meantime. The encoded
// document is parsed back before it replaces the old file; if any entry
// would come back different the old file is kept.
func (s *Store) persist() error {
	if err := ensureDir(s.dir); err != nil {
		return err
	}

	data, err := Encode(s.file)
	if err != nil {
		return oops.In("settings").With("path", s.path).Wrapf(err, "encode settings")
	}
	if err := verifyEncoding(s.file, data); err != nil {
		return oops.In("settings").With("path", s.path).Wrapf(err, "encode settings")
	}
	return writeFileAtomic(s.path, data)
}

// Encode renders f so that loading it with the store's options gives back
// every section, key and value unchanged. ini's own writer picks quoting
// that its reader strips ("quoted" comes back as quoted) or cannot parse, so
// each name and value is written in the first form that survives a reload.
func Encode(f *ini.File) ([]byte, error) {
	var buf bytes.Buffer
	for _, sec := range f.Sections() {
		keys := sec.Keys()
		isDefault := sec.Name() == ini.DefaultSection
		if isDefault && len(keys) == 0 {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		writeComment(&buf, sec.Comment)
		if !isDefault {
			header, err := sectionHeader(sec.Name())
			if err != nil {
				return nil, err
			}
			buf.WriteString(header)
			buf.WriteByte('\n')
		}
		for _, k := range keys {
			writeComment(&buf, k.Comment)
			line, err := entryLine(k.Name(), k.Value())
			if err != nil {
				return nil, oops.With("section", sec.Name()).Wrap(err)
			}
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// checkEntry reports whether section/key = value can be written and read
// back unchanged.
func checkEntry(section, key, value string) error {
	f := ini.Empty(loadOptions)
	if _, err := f.Section(section).NewKey(key, value); err != nil {
		return oops.In("settings").With("section", section).With("key", key).Wrapf(err, "invalid key")
	}
	data, err := Encode(f)
	if err != nil {
		return err
	}
	return verifyEncoding(f, data)
}

// verifyEncoding parses data and compares it with f entry by entry.
func verifyEncoding(f *ini.File, data []byte) error {
	back, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return oops.In("settings").Wrapf(err, "encoded settings do not parse")
	}
	for _, sec := range f.Sections() {
		keys := sec.Keys()
		if sec.Name() == ini.DefaultSection && len(keys) == 0 {
			continue
		}
		got, err := back.GetSection(sec.Name())
		if err != nil {
			return oops.In("settings").With("section", sec.Name()).Errorf("section %q would not survive a reload", sec.Name())
		}
		if len(got.Keys()) != len(keys) {
			return oops.In("settings").With("section", sec.Name()).Errorf("section %q would reload with %d keys, want %d", sec.Name(), len(got.Keys()), len(keys))
		}
		for _, k := range keys {
			bk, ok := lookupKey(back, sec.Name(), k.Name())
			if !ok || bk.Value() != k.Value() {
				return oops.In("settings").
					With("section", sec.Name()).
					With("key", k.Name()).
					Errorf("%s.%s cannot be stored so that it reads back unchanged", sec.Name(), k.Name())
			}
		}
	}
	return nil
}

func sectionHeader(name string) (string, error) {
	header := "[" + name + "]"
	if name != "" && !strings.ContainsAny(name, "\r\n]") && strings.TrimSpace(name) == name {
		return header, nil
	}
	f, err := ini.LoadSources(loadOptions, []byte(header+"\n"))
	if err == nil {
		if _, err = f.GetSection(name); err == nil {
			return header, nil
		}
	}
	return "", oops.In("settings").With("section", name).Errorf("section name %q cannot be stored", name)
}

// entryLine returns a "key = value" line that reads back as key and value.
func entryLine(key, value string) (string, error) {
	if plainKey(key) && plainValue(value) {
		return key + " = " + value, nil
	}
	for _, kq := range quoteCandidates(key, plainKey(key)) {
		for _, vq := range quoteCandidates(value, plainValue(value)) {
			line := kq + " = " + vq
			if lineReadsBack(line, key, value) {
				return line, nil
			}
		}
	}
	return "", oops.In("settings").With("key", key).Errorf("key %q or its value cannot be stored", key)
}

// quoteCandidates lists the forms ini accepts for a name or value: bare,
// backtick-quoted, then triple-quoted.
func quoteCandidates(s string, plain bool) []string {
	quoted := []string{"`" + s + "`", `"""` + s + `"""`}
	if plain {
		return append([]string{s}, quoted...)
	}
	return quoted
}

func lineReadsBack(line, key, value string) bool {
	f, err := ini.LoadSources(loadOptions, []byte(line+"\n"))
	if err != nil {
		return false
	}
	keys := f.Section(ini.DefaultSection).Keys()
	return len(keys) == 1 && keys[0].Name() == key && keys[0].Value() == value
}

// plainKey is true for names that need no quoting. "-" is ini's
// auto-increment marker.
func plainKey(name string) bool {
	if name == "" || name == "-" || strings.TrimSpace(name) != name {
		return false
	}
	if strings.ContainsAny(name, "=:\r\n`\"") {
		return false
	}
	switch name[0] {
	case '#', ';', '[':
		return false
	}
	return true
}

// plainValue is true for values that read back unchanged when written bare.
func plainValue(v string) bool {
	if v == "" {
		return true
	}
	if strings.ContainsAny(v, "\r\n") || strings.TrimSpace(v) != v {
		return false
	}
	switch v[0] {
	case '`', '"', '\'':
		return false
	}
	return true
}

func writeComment(buf *bytes.Buffer, comment string) {
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] != '#' && line[0] != ';' {
			line = "; " + line
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func ensureDir(dir string) error {
	_, err := os.Stat(dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return oops.In("settings").With("dir", dir).Wrapf(err, "stat settings dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return oops.In("settings").With("dir", dir).Wrapf(err, "create settings dir")
	}
	syncFilesystem()
	return nil
}

// writeFileAtomic replaces path with data through a synced temp file in the
// same directory, so readers see either the old or the new file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.In("settings").With("path", path).Wrapf(err, "create temp file")
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return oops.In("settings").With("path", path).Wrapf(err, "write settings")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return oops.In("settings").With("path", path).Wrapf(err, "sync settings")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return oops.In("settings").With("path", path).Wrapf(err, "close settings")
	}
	if err := os.Chmod(tmpName, settingsFileMode); err != nil {
		cleanup()
		return oops.In("settings").With("path", path).Wrapf(err, "chmod settings")
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return oops.In("settings").With("path", path).Wrapf(err, "replace settings")
	}
	return nil
}
