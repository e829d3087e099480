package settings

import (
	"strconv"

	"github.com/samber/oops"

	"github.com/kkshell/kkconf/internal/logging"
)

// Has reports whether key exists in section.
func (s *Store) Has(section, key string) bool {
	_, ok := lookupKey(s.file, section, key)
	return ok
}

// LookupString returns the raw value and whether the key exists.
func (s *Store) LookupString(section, key string) (string, bool) {
	k, ok := lookupKey(s.file, section, key)
	if !ok {
		return "", false
	}
	return k.String(), true
}

// GetString returns the stored value, or def when the key is absent.
func (s *Store) GetString(section, key, def string) string {
	if v, ok := s.LookupString(section, key); ok {
		return v
	}
	return def
}

// GetBool reads a scalar boolean (see ParseBool). Anything else, or a
// missing key, yields def.
func (s *Store) GetBool(section, key string, def bool) bool {
	raw, ok := s.LookupString(section, key)
	if !ok {
		return def
	}
	v, err := ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// GetInt reads a decimal or 0x-prefixed hex 32-bit integer, falling back to
// def when the key is absent or the value does not fit.
func (s *Store) GetInt(section, key string, def int32) int32 {
	raw, ok := s.LookupString(section, key)
	if !ok {
		return def
	}
	v, err := ParseInt(raw)
	if err != nil {
		return def
	}
	return v
}

// GetDouble reads a float64, falling back to def.
func (s *Store) GetDouble(section, key string, def float64) float64 {
	raw, ok := s.LookupString(section, key)
	if !ok {
		return def
	}
	v, err := ParseDouble(raw)
	if err != nil {
		return def
	}
	return v
}

// ParseBool accepts the usual INI spellings: 1/0, t/f, true/false, y/n,
// yes/no and on/off, in lower, upper or title case.
func ParseBool(raw string) (bool, error) {
	switch raw {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes", "on", "ON", "On":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No", "off", "OFF", "Off":
		return false, nil
	}
	return false, oops.In("settings").With("value", raw).Errorf("invalid boolean %q", raw)
}

// ParseInt reads a decimal, or 0x-prefixed hex, 32-bit integer.
func ParseInt(raw string) (int32, error) {
	v, err := parseInt32(raw)
	if err != nil {
		return 0, oops.In("settings").With("value", raw).Wrapf(err, "parse int")
	}
	return v, nil
}

// ParseDouble reads a float64.
func ParseDouble(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, oops.In("settings").With("value", raw).Wrapf(err, "parse double")
	}
	return v, nil
}

// SetString stores value and saves. A name or value that could not be read
// back unchanged from the file is refused: nothing changes, and the error is
// logged and reported by Err.
func (s *Store) SetString(section, key, value string) {
	if s.set(section, key, value) {
		_ = s.Save()
	}
}

// SetBool stores "true" or "false" and saves.
func (s *Store) SetBool(section, key string, value bool) {
	s.SetString(section, key, strconv.FormatBool(value))
}

// SetInt stores value in decimal and saves.
func (s *Store) SetInt(section, key string, value int32) {
	s.SetString(section, key, strconv.FormatInt(int64(value), 10))
}

// SetDouble stores the shortest representation that reads back as value.
func (s *Store) SetDouble(section, key string, value float64) {
	s.SetString(section, key, formatDouble(value))
}

// set updates the in-memory table without saving and reports whether it did.
func (s *Store) set(section, key, value string) bool {
	fields := logging.Fields{"section": section, "key": key}
	if err := checkEntry(section, key, value); err != nil {
		s.lastErr = err
		s.log.WithError(err).WithFields(fields).Error("refusing settings entry that would not survive a reload")
		return false
	}
	if k, ok := lookupKey(s.file, section, key); ok {
		k.SetValue(value)
		return true
	}
	if _, err := s.file.Section(section).NewKey(key, value); err != nil {
		s.lastErr = oops.In("settings").With("section", section).With("key", key).Wrapf(err, "add settings key")
		s.log.WithError(err).WithFields(fields).Error("cannot add settings key")
		return false
	}
	return true
}

func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
