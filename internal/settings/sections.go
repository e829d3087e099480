package settings

import (
	"gopkg.in/ini.v1"
)

// Sections lists section names in file order. The implicit default section
// is only listed when it holds keys.
func (s *Store) Sections() []string {
	var names []string
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		names = append(names, sec.Name())
	}
	return names
}

// SectionKeys lists the keys of section in file order, or nothing when the
// section does not exist.
func (s *Store) SectionKeys(section string) []string {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil
	}
	return sec.KeyStrings()
}

// DeleteKey removes one key and saves.
func (s *Store) DeleteKey(section, key string) {
	if sec, err := s.file.GetSection(section); err == nil {
		sec.DeleteKey(key)
	}
	_ = s.Save()
}

// DeleteSection removes every key of section and the section itself, then
// saves once.
func (s *Store) DeleteSection(section string) {
	if sec, err := s.file.GetSection(section); err == nil {
		for _, key := range sec.KeyStrings() {
			sec.DeleteKey(key)
		}
		s.file.DeleteSection(section)
	}
	_ = s.Save()
}
