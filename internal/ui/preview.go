package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kkshell/kkconf/internal/settings"
)

// interpretation is one typed reading of a raw value.
type interpretation struct {
	label string
	value string
	ok    bool
}

// interpret reads raw the way each typed getter would.
func interpret(raw string) []interpretation {
	out := []interpretation{
		{label: "string", value: strconv.Quote(raw), ok: true},
	}

	if b, err := settings.ParseBool(raw); err == nil {
		out = append(out, interpretation{label: "bool", value: strconv.FormatBool(b), ok: true})
	} else {
		out = append(out, interpretation{label: "bool", value: "default"})
	}
	if i, err := settings.ParseInt(raw); err == nil {
		out = append(out, interpretation{label: "int", value: strconv.FormatInt(int64(i), 10), ok: true})
	} else {
		out = append(out, interpretation{label: "int", value: "default"})
	}
	if d, err := settings.ParseDouble(raw); err == nil {
		out = append(out, interpretation{label: "double", value: strconv.FormatFloat(d, 'g', -1, 64), ok: true})
	} else {
		out = append(out, interpretation{label: "double", value: "default"})
	}

	tokens := settings.Tokens(raw)
	if len(tokens) > 1 {
		bools := settings.ParseBoolArray(raw)
		ints, intErrs := settings.ParseIntArray(raw)
		doubles, doubleErrs := settings.ParseDoubleArray(raw)
		out = append(out,
			arrayReading("bool[]", fmt.Sprint(bools), len(tokens)-len(bools)),
			arrayReading("int[]", fmt.Sprint(ints), len(intErrs)),
			arrayReading("double[]", fmt.Sprint(doubles), len(doubleErrs)),
		)
	}
	return out
}

func arrayReading(label, values string, dropped int) interpretation {
	if dropped > 0 {
		values = fmt.Sprintf("%s (%d dropped)", values, dropped)
	}
	return interpretation{label: label, value: values, ok: dropped == 0}
}

// renderPreview shows the typed readings of the selected value.
func (m Model) renderPreview(width int) string {
	styles := m.theme.Styles()
	e, ok := m.currentEntry()
	if !ok || m.focus != paneEntries {
		return styles.MutedText.Render("select a key to preview its typed values")
	}

	var parts []string
	for _, in := range interpret(e.Value) {
		style := styles.Text
		if !in.ok {
			style = styles.FaintText
		}
		parts = append(parts, styles.AccentText.Render(in.label+":")+" "+style.Render(in.value))
	}

	// Two rows of readings: scalars, then arrays.
	scalars, arrays := parts, []string(nil)
	if len(parts) > 4 {
		scalars, arrays = parts[:4], parts[4:]
	}
	lines := []string{
		truncateEnd(e.Key, width),
		strings.Join(scalars, "   "),
	}
	if len(arrays) > 0 {
		lines = append(lines, strings.Join(arrays, "   "))
	}
	return strings.Join(lines, "\n")
}
