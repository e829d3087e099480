package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSections_FileOrderWithoutEmptyDefault(t *testing.T) {
	s, _, _ := openAt(t, "")

	assert.Equal(t, []string{"app", "window", "only_default"}, s.Sections())
	assert.Equal(t, []string{"width", "splitter_sizes"}, s.SectionKeys("window"))
	assert.Empty(t, s.SectionKeys("nope"))
}

func TestSections_DefaultListedWhenItHasKeys(t *testing.T) {
	s, _, _ := openAt(t, "top = 1\n[app]\nversion = 1\n")

	assert.Equal(t, []string{"DEFAULT", "app"}, s.Sections())
	assert.Equal(t, []string{"top"}, s.SectionKeys("DEFAULT"))
}

func TestDeleteSection(t *testing.T) {
	s, path, _ := openAt(t, "[app]\nversion = 1\n[s]\na = 1\nb = 2\n[t]\nc = 3\n")

	s.DeleteSection("s")

	assert.Empty(t, s.SectionKeys("s"))
	assert.NotContains(t, s.Sections(), "s")
	assert.Equal(t, "3", s.GetString("t", "c", ""))

	reopened := Open(Options{Path: path, Defaults: []byte(testDefaults)})
	assert.NotContains(t, reopened.Sections(), "s")
	assert.Equal(t, []string{"app", "t"}, reopened.Sections())
}

func TestDeleteSection_MissingIsHarmless(t *testing.T) {
	s, _, _ := openAt(t, "")
	before := s.Sections()

	s.DeleteSection("ghost")

	assert.Equal(t, before, s.Sections())
	assert.NoError(t, s.Err())
}

func TestDeleteKey_Persists(t *testing.T) {
	s, path, _ := openAt(t, "[app]\nversion = 1\n[s]\na = 1\nb = 2\n")

	s.DeleteKey("s", "a")

	assert.False(t, s.Has("s", "a"))
	assert.Equal(t, []string{"b"}, s.SectionKeys("s"))

	reopened := Open(Options{Path: path, Defaults: []byte(testDefaults)})
	assert.False(t, reopened.Has("s", "a"))
	assert.True(t, reopened.Has("s", "b"))
}
