package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		" INFO ":  logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.WarnLevel,
		"verbose": logrus.WarnLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNew_WritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.WithField("section", "app").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "section=app")
}

func TestDiscard_DropsEntries(t *testing.T) {
	l := Discard()
	hook := test.NewLocal(l.Logger)

	l.Error("boom")

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "boom", hook.LastEntry().Message)
}

func TestToFile_AppendsToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kkconf.log")
	l := New(os.Stderr, "info")

	closer, err := l.ToFile(path)
	require.NoError(t, err)
	l.Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestToFile_ErrorKeepsOutput(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	var buf bytes.Buffer
	l := New(&buf, "info")

	closer, err := l.ToFile(filepath.Join(blocker, "kkconf.log"))
	require.Error(t, err)
	assert.Nil(t, closer)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "error should carry oops context")
	assert.Equal(t, "logging", oopsErr.Domain())

	l.Info("still here")
	assert.Contains(t, buf.String(), "still here")
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
