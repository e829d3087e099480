// Package export renders a settings snapshot in other file formats.
package export

import (
	"encoding/json"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/samber/oops"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/kkshell/kkconf/internal/settings"
	"github.com/kkshell/kkconf/internal/state"
)

// Format names an output encoding.
type Format string

const (
	FormatINI  Format = "ini"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatINI, FormatTOML, FormatYAML, FormatJSON}
}

// ParseFormat accepts a format name in any case, and "yml" for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ini", "":
		return FormatINI, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", oops.In("export").With("format", name).Errorf("unknown export format %q", name)
}

// Encode writes snap to w. INI and YAML keep section and key order; TOML and
// JSON sort keys.
func Encode(w io.Writer, snap state.Snapshot, format Format) error {
	var err error
	switch format {
	case FormatINI:
		err = encodeINI(w, snap)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(snap.Map())
	case FormatYAML:
		err = encodeYAML(w, snap)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap.Map())
	default:
		return oops.In("export").With("format", format).Errorf("unknown export format %q", format)
	}
	if err != nil {
		return oops.In("export").With("format", format).Wrapf(err, "encode settings")
	}
	return nil
}

func encodeINI(w io.Writer, snap state.Snapshot) error {
	f := ini.Empty()
	for _, sec := range snap.Sections {
		target := f.Section(sec.Name)
		for _, e := range sec.Entries {
			if _, err := target.NewKey(e.Key, e.Value); err != nil {
				return err
			}
		}
	}
	data, err := settings.Encode(f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// encodeYAML builds the document node by node so order survives.
func encodeYAML(w io.Writer, snap state.Snapshot) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, sec := range snap.Sections {
		values := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range sec.Entries {
			values.Content = append(values.Content, scalar(e.Key), scalar(e.Value))
		}
		root.Content = append(root.Content, scalar(sec.Name), values)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return err
	}
	return enc.Close()
}

// scalar tags values as strings so numbers and booleans come out quoted.
func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
