package state

import (
	"time"
)

// Source is the read side of a settings store.
type Source interface {
	Path() string
	Version() string
	Sections() []string
	SectionKeys(section string) []string
	GetString(section, key, def string) string
	Err() error
}

// Entry is one key and its raw value.
type Entry struct {
	Key   string
	Value string
}

// Section is a named, ordered list of entries.
type Section struct {
	Name    string
	Entries []Entry
}

// Snapshot is a point-in-time copy of every section and entry.
type Snapshot struct {
	Path       string
	Version    string
	Sections   []Section
	LastError  error
	CapturedAt time.Time
}

// Capture copies the current content of src. The snapshot does not change
// when src is modified afterwards.
func Capture(src Source) Snapshot {
	snap := Snapshot{
		Path:       src.Path(),
		Version:    src.Version(),
		LastError:  src.Err(),
		CapturedAt: time.Now(),
	}
	for _, name := range src.Sections() {
		sec := Section{Name: name}
		for _, key := range src.SectionKeys(name) {
			sec.Entries = append(sec.Entries, Entry{Key: key, Value: src.GetString(name, key, "")})
		}
		snap.Sections = append(snap.Sections, sec)
	}
	return snap
}

// Section returns the named section.
func (s Snapshot) Section(name string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// KeyCount is the number of entries across all sections.
func (s Snapshot) KeyCount() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Entries)
	}
	return n
}

// Map flattens the snapshot to section -> key -> value.
func (s Snapshot) Map() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.Sections))
	for _, sec := range s.Sections {
		values := make(map[string]string, len(sec.Entries))
		for _, e := range sec.Entries {
			values[e.Key] = e.Value
		}
		out[sec.Name] = values
	}
	return out
}

// Value looks up one entry.
func (s Snapshot) Value(section, key string) (string, bool) {
	sec, ok := s.Section(section)
	if !ok {
		return "", false
	}
	for _, e := range sec.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}
