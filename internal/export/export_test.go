package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/kkshell/kkconf/internal/state"
)

func sample() state.Snapshot {
	return state.Snapshot{
		Sections: []state.Section{
			{Name: "window", Entries: []state.Entry{{Key: "width", Value: "1280"}, {Key: "maximized", Value: "yes"}}},
			{Name: "app", Entries: []state.Entry{{Key: "version", Value: "1"}, {Key: "motd", Value: "hi\nthere"}, {Key: "title", Value: `"quoted"`}}},
		},
	}
}

func encode(t *testing.T, f Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(), f))
	return buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatINI, "INI": FormatINI, "toml": FormatTOML, "yml": FormatYAML, " YAML ": FormatYAML, "json": FormatJSON}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, "ParseFormat(%q)", in)
		assert.Equal(t, want, got, "ParseFormat(%q)", in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestEncode_INIKeepsOrder(t *testing.T) {
	out := encode(t, FormatINI)

	f, err := ini.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"DEFAULT", "window", "app"}, f.SectionStrings())
	assert.Equal(t, "hi\nthere", f.Section("app").Key("motd").String())
	assert.Equal(t, `"quoted"`, f.Section("app").Key("title").String())
}

func TestEncode_TOML(t *testing.T) {
	var got map[string]map[string]string
	require.NoError(t, toml.Unmarshal(encode(t, FormatTOML), &got))
	assert.Equal(t, sample().Map(), got)
}

func TestEncode_YAMLKeepsOrderAndStrings(t *testing.T) {
	out := encode(t, FormatYAML)

	var got map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, sample().Map(), got)
	assert.Less(t, strings.Index(string(out), "window:"), strings.Index(string(out), "app:"))
	assert.Contains(t, string(out), `width: "1280"`)
}

func TestEncode_JSON(t *testing.T) {
	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(encode(t, FormatJSON), &got))
	assert.Equal(t, sample().Map(), got)
}

func TestEncode_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, sample(), Format("xml")))
}
