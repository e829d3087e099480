package settings

import (
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/kkshell/kkconf/internal/logging"
)

// Tokens splits a delimited value. Runs of commas and whitespace separate
// tokens and a token extends to the next comma; trailing whitespace inside a
// token is dropped. Empty tokens never appear in the result.
func Tokens(raw string) []string {
	var tokens []string
	i := 0
	for i < len(raw) {
		for i < len(raw) && (raw[i] == ',' || isSpace(raw[i])) {
			i++
		}
		start := i
		for i < len(raw) && raw[i] != ',' {
			i++
		}
		if i > start {
			tokens = append(tokens, strings.TrimRight(raw[start:i], " \t\n\v\f\r"))
		}
	}
	return tokens
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ParseBoolArray maps y/yes/true/1 to true and n/no/false/0 to false, case
// insensitively. Other tokens are skipped without complaint.
func ParseBoolArray(raw string) []bool {
	var out []bool
	for _, tok := range Tokens(raw) {
		if v, ok := parseBoolToken(tok); ok {
			out = append(out, v)
		}
	}
	return out
}

func parseBoolToken(tok string) (value, ok bool) {
	for _, t := range []string{"y", "yes", "true", "1"} {
		if strings.EqualFold(tok, t) {
			return true, true
		}
	}
	for _, f := range []string{"n", "no", "false", "0"} {
		if strings.EqualFold(tok, f) {
			return false, true
		}
	}
	return false, false
}

// ParseIntArray converts each token to an int32. Tokens starting with 0x or
// 0X are hexadecimal. A token that does not convert contributes nothing to
// values and one entry to errs.
func ParseIntArray(raw string) (values []int32, errs []error) {
	for _, tok := range Tokens(raw) {
		v, err := parseInt32(tok)
		if err != nil {
			errs = append(errs, oops.In("settings").With("token", tok).Wrapf(err, "parse int token"))
			continue
		}
		values = append(values, v)
	}
	return values, errs
}

// ParseDoubleArray converts each token to a float64, dropping and reporting
// tokens that do not convert.
func ParseDoubleArray(raw string) (values []float64, errs []error) {
	for _, tok := range Tokens(raw) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			errs = append(errs, oops.In("settings").With("token", tok).Wrapf(err, "parse double token"))
			continue
		}
		values = append(values, v)
	}
	return values, errs
}

// parseInt32 reads decimal, or hex after a 0x prefix. Hex covers the full
// 32-bit pattern, so 0xFFFFFFFF is -1.
func parseInt32(tok string) (int32, error) {
	if len(tok) > 1 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X') {
		u, err := strconv.ParseUint(tok[2:], 16, 32)
		if err != nil {
			return 0, err
		}
		return int32(uint32(u)), nil
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// GetBoolArray parses the value at section/key. A missing key yields an
// empty slice.
func (s *Store) GetBoolArray(section, key string) []bool {
	raw, ok := s.LookupString(section, key)
	if !ok {
		return nil
	}
	return ParseBoolArray(raw)
}

// GetIntArray parses the value at section/key, logging tokens it has to drop.
func (s *Store) GetIntArray(section, key string) []int32 {
	raw, ok := s.LookupString(section, key)
	if !ok {
		return nil
	}
	values, errs := ParseIntArray(raw)
	s.logTokenErrors(section, key, raw, errs)
	return values
}

// GetDoubleArray parses the value at section/key, logging tokens it has to
// drop.
func (s *Store) GetDoubleArray(section, key string) []float64 {
	raw, ok := s.LookupString(section, key)
	if !ok {
		return nil
	}
	values, errs := ParseDoubleArray(raw)
	s.logTokenErrors(section, key, raw, errs)
	return values
}

// GetStringArray returns the tokens of the value at section/key unconverted.
func (s *Store) GetStringArray(section, key string) []string {
	raw, ok := s.LookupString(section, key)
	if !ok {
		return nil
	}
	return Tokens(raw)
}

// SetBoolArray stores values as a comma-delimited list and saves.
func (s *Store) SetBoolArray(section, key string, values []bool) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatBool(v)
	}
	s.SetString(section, key, strings.Join(parts, ","))
}

// SetIntArray stores values as a comma-delimited decimal list and saves.
func (s *Store) SetIntArray(section, key string, values []int32) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}
	s.SetString(section, key, strings.Join(parts, ","))
}

// SetDoubleArray stores values as a comma-delimited list and saves.
func (s *Store) SetDoubleArray(section, key string, values []float64) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatDouble(v)
	}
	s.SetString(section, key, strings.Join(parts, ","))
}

// SetStringArray stores values joined with commas and saves. Values holding
// commas will not split back the same way.
func (s *Store) SetStringArray(section, key string, values []string) {
	s.SetString(section, key, strings.Join(values, ","))
}

func (s *Store) logTokenErrors(section, key, raw string, errs []error) {
	for _, err := range errs {
		s.log.WithError(err).WithFields(logging.Fields{
			"section": section,
			"key":     key,
			"value":   raw,
		}).Error("dropping unparsable array token")
	}
}
