package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkshell/kkconf/internal/app"
	"github.com/kkshell/kkconf/internal/export"
	"github.com/kkshell/kkconf/internal/logging"
	"github.com/kkshell/kkconf/internal/paths"
	"github.com/kkshell/kkconf/internal/settings"
	"github.com/kkshell/kkconf/internal/state"
)

// envSettings overrides the settings file location.
const envSettings = "KKSHELL_SETTINGS"

// Value types accepted by get --type and set --type.
var valueTypes = []string{"string", "bool", "int", "double", "string-array", "bool-array", "int-array", "double-array"}

// globals holds the persistent flags.
type globals struct {
	settingsPath string
	prefsPath    string
	logLevel     string
	stderr       io.Writer
}

func (g *globals) logger() *logging.Logger {
	return logging.New(g.stderr, g.logLevel)
}

func (g *globals) open() *settings.Store {
	return settings.Open(settings.Options{Path: g.settingsPath, Logger: g.logger()})
}

// saved turns a failed save into a command error.
func saved(store *settings.Store) error {
	if err := store.Err(); err != nil {
		return fmt.Errorf("settings not saved: %w", err)
	}
	return nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stderr: stderr}

	root := &cobra.Command{
		Use:   "kkconf",
		Short: "Browse and edit kkshell settings",
		Long: `Browse and edit kkshell's INI settings file.

Without a subcommand kkconf opens the terminal browser.

Examples:
  kkconf get window width --type int
  kkconf set terminal cursor_blink no
  kkconf export --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, g)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.settingsPath, "settings", os.Getenv(envSettings), "settings file (env "+envSettings+")")
	pf.StringVar(&g.prefsPath, "prefs", "", "kkconf preferences file")
	pf.StringVar(&g.logLevel, "log-level", os.Getenv(logging.EnvLevel), "debug, info, warn or error (env "+logging.EnvLevel+")")

	root.AddCommand(
		newUICmd(g),
		newGetCmd(g),
		newSetCmd(g),
		newDeleteCmd(g),
		newSectionsCmd(g),
		newKeysCmd(g),
		newExportCmd(g),
		newPathCmd(g),
		newResetCmd(g),
	)
	return root
}

func runUI(cmd *cobra.Command, g *globals) error {
	return app.Run(cmd.Context(), app.Options{
		SettingsPath: g.settingsPath,
		PrefsPath:    g.prefsPath,
		Logger:       g.logger(),
	})
}

// --- ui ---

func newUICmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal settings browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, g)
		},
	}
}

// --- get ---

func newGetCmd(g *globals) *cobra.Command {
	var valueType, def string
	cmd := &cobra.Command{
		Use:   "get <section> <key>",
		Short: "Print a value",
		Long: `Print a value, read as the given type.

Arrays print one element per line. Unparsable array elements are dropped
and logged. A missing key is an error unless --default is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, key := args[0], args[1]
			store := g.open()
			if !store.Has(section, key) {
				if !cmd.Flags().Changed("default") {
					return fmt.Errorf("%s.%s not found", section, key)
				}
				fmt.Fprintln(cmd.OutOrStdout(), def)
				return nil
			}

			lines, err := readTyped(store, section, key, valueType)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&valueType, "type", "t", "string", strings.Join(valueTypes, ", "))
	cmd.Flags().StringVar(&def, "default", "", "printed when the key is missing")
	return cmd
}

func readTyped(store *settings.Store, section, key, valueType string) ([]string, error) {
	raw, _ := store.LookupString(section, key)
	switch valueType {
	case "string":
		return []string{raw}, nil
	case "bool":
		v, err := settings.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		return []string{strconv.FormatBool(v)}, nil
	case "int":
		v, err := settings.ParseInt(raw)
		if err != nil {
			return nil, err
		}
		return []string{strconv.FormatInt(int64(v), 10)}, nil
	case "double":
		v, err := settings.ParseDouble(raw)
		if err != nil {
			return nil, err
		}
		return []string{strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case "string-array":
		return store.GetStringArray(section, key), nil
	case "bool-array":
		return formatAll(store.GetBoolArray(section, key), strconv.FormatBool), nil
	case "int-array":
		return formatAll(store.GetIntArray(section, key), func(v int32) string { return strconv.FormatInt(int64(v), 10) }), nil
	case "double-array":
		return formatAll(store.GetDoubleArray(section, key), func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }), nil
	}
	return nil, fmt.Errorf("unknown type %q (want one of %s)", valueType, strings.Join(valueTypes, ", "))
}

func formatAll[T any](values []T, format func(T) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = format(v)
	}
	return out
}

// --- set ---

func newSetCmd(g *globals) *cobra.Command {
	var valueType string
	cmd := &cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Store a value",
		Long: `Store a value and save the file.

With a type other than string the value is validated first and written in
canonical form. Array types take a comma separated list and reject it if
any element does not parse.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, key, value := args[0], args[1], args[2]
			store := g.open()
			if err := writeTyped(store, section, key, value, valueType); err != nil {
				return err
			}
			return saved(store)
		},
	}
	cmd.Flags().StringVarP(&valueType, "type", "t", "string", strings.Join(valueTypes, ", "))
	return cmd
}

func writeTyped(store *settings.Store, section, key, value, valueType string) error {
	switch valueType {
	case "string":
		store.SetString(section, key, value)
	case "bool":
		v, err := settings.ParseBool(value)
		if err != nil {
			return err
		}
		store.SetBool(section, key, v)
	case "int":
		v, err := settings.ParseInt(value)
		if err != nil {
			return err
		}
		store.SetInt(section, key, v)
	case "double":
		v, err := settings.ParseDouble(value)
		if err != nil {
			return err
		}
		store.SetDouble(section, key, v)
	case "string-array":
		store.SetStringArray(section, key, settings.Tokens(value))
	case "bool-array":
		tokens := settings.Tokens(value)
		values := settings.ParseBoolArray(value)
		if len(values) != len(tokens) {
			return fmt.Errorf("%d of %d elements are not booleans", len(tokens)-len(values), len(tokens))
		}
		store.SetBoolArray(section, key, values)
	case "int-array":
		values, errs := settings.ParseIntArray(value)
		if len(errs) > 0 {
			return errs[0]
		}
		store.SetIntArray(section, key, values)
	case "double-array":
		values, errs := settings.ParseDoubleArray(value)
		if len(errs) > 0 {
			return errs[0]
		}
		store.SetDoubleArray(section, key, values)
	default:
		return fmt.Errorf("unknown type %q (want one of %s)", valueType, strings.Join(valueTypes, ", "))
	}
	return nil
}

// --- delete ---

func newDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <section> [key]",
		Short: "Delete a key, or a whole section",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := g.open()
			if len(args) == 2 {
				store.DeleteKey(args[0], args[1])
			} else {
				store.DeleteSection(args[0])
			}
			return saved(store)
		},
	}
}

// --- sections / keys ---

func newSectionsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List sections in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range g.open().Sections() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newKeysCmd(g *globals) *cobra.Command {
	var values bool
	cmd := &cobra.Command{
		Use:   "keys <section>",
		Short: "List the keys of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := g.open()
			for _, key := range store.SectionKeys(args[0]) {
				if values {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, store.GetString(args[0], key, ""))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&values, "values", "v", false, "print key = value")
	return cmd
}

// --- export ---

func newExportCmd(g *globals) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the settings in another format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			snap := state.Capture(g.open())

			if output == "" || output == "-" {
				return export.Encode(cmd.OutOrStdout(), snap, f)
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.Encode(file, snap, f); err != nil {
				_ = file.Close()
				return err
			}
			return file.Close()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "ini", "ini, toml, yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// --- path / reset ---

func newPathCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := paths.Resolve(g.settingsPath, paths.DefaultSettingsPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newResetCmd(g *globals) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the settings with kkshell's defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset discards every setting, pass --yes to confirm")
			}
			store := g.open()
			store.Reset()
			if err := saved(store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", store.Path())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}
