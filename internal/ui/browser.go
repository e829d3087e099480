package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kkshell/kkconf/internal/state"
)

// Layout sizes.
const (
	sectionPaneWidth = 24
	previewHeight    = 6
	chromeHeight     = 2 // header + footer
)

func (m Model) currentSection() state.Section {
	if m.sectionIdx < 0 || m.sectionIdx >= len(m.snap.Sections) {
		return state.Section{}
	}
	return m.snap.Sections[m.sectionIdx]
}

func (m Model) currentEntry() (state.Entry, bool) {
	entries := m.currentSection().Entries
	if m.entryIdx < 0 || m.entryIdx >= len(entries) {
		return state.Entry{}, false
	}
	return entries[m.entryIdx], true
}

// selectSection moves the cursor to the named section when it exists.
func (m *Model) selectSection(name string) {
	for i, sec := range m.snap.Sections {
		if sec.Name == name {
			m.sectionIdx = i
			m.entryIdx = 0
			return
		}
	}
}

func (m *Model) selectEntry(section, key string) {
	m.selectSection(section)
	for i, e := range m.currentSection().Entries {
		if e.Key == key {
			m.entryIdx = i
			m.focus = paneEntries
			return
		}
	}
}

// listHeight is the number of rows inside a pane box.
func (m Model) listHeight() int {
	h := m.height - chromeHeight - previewHeight - 4
	if h < 1 {
		return 1
	}
	return h
}

// renderHeader renders the title bar: tool name, file, version.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("kkconf", styles.Logo),
		bg.Render(truncateMiddle(m.snap.Path, m.width/2), styles.Text),
		bg.Render("v"+m.snap.Version, styles.MutedText),
		bg.Render(fmt.Sprintf("%d sections · %d keys", len(m.snap.Sections), m.snap.KeyCount()), styles.MutedText),
	}
	if m.snap.LastError != nil {
		parts = append(parts, bg.Render("UNSAVED", styles.DangerText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// renderFooter shows the prompt, the confirmation, or the last status.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.mode == modeEdit:
		content = bg.Render(fmt.Sprintf("%s.%s ", m.target.section, m.target.key), styles.AccentText) + m.input.View()
	case m.mode == modeAdd:
		content = bg.Render(fmt.Sprintf("add to [%s] ", m.target.section), styles.AccentText) + m.input.View()
	case m.mode == modeConfirm:
		content = bg.Render(m.pending.prompt, styles.WarningText) + bg.Render("  y/n", styles.MutedText)
	case m.status != "" && m.statusErr:
		content = bg.Render(m.status, styles.DangerText)
	case m.status != "":
		content = bg.Render(m.status, styles.SuccessText)
	default:
		content = bg.Render("? help  a add  e edit  d delete  r reload  l logs  q quit", styles.MutedText)
	}
	return bg.FillLine(content, m.width)
}

// renderBrowser lays out the sections pane, the entries pane, and the
// typed preview of the selected value.
func (m Model) renderBrowser() string {
	listH := m.listHeight()
	entriesWidth := m.width - sectionPaneWidth
	if entriesWidth < 10 {
		entriesWidth = 10
	}

	sections := m.renderBox("Sections", m.renderSectionList(sectionPaneWidth-4, listH), sectionPaneWidth, listH+2, m.focus == paneSections)
	title := "Entries"
	if name := m.currentSection().Name; name != "" {
		title = "[" + name + "]"
	}
	entries := m.renderBox(title, m.renderEntryList(entriesWidth-4, listH), entriesWidth, listH+2, m.focus == paneEntries)

	top := lipgloss.JoinHorizontal(lipgloss.Top, sections, entries)
	preview := m.renderBox("Preview", m.renderPreview(m.width-4), m.width, previewHeight, false)
	return lipgloss.JoinVertical(lipgloss.Left, top, preview)
}

func (m Model) renderSectionList(width, height int) string {
	styles := m.theme.Styles()
	if len(m.snap.Sections) == 0 {
		return styles.MutedText.Render("no sections")
	}
	start := windowStart(m.sectionIdx, len(m.snap.Sections), height)
	var lines []string
	for i := start; i < len(m.snap.Sections) && i < start+height; i++ {
		sec := m.snap.Sections[i]
		line := padRight(truncateMiddle(sec.Name, width-5), width-4) + fmt.Sprintf("%4d", len(sec.Entries))
		if i == m.sectionIdx {
			lines = append(lines, m.selectedStyle(m.focus == paneSections).Width(width).Render(line))
			continue
		}
		lines = append(lines, styles.Text.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEntryList(width, height int) string {
	styles := m.theme.Styles()
	entries := m.currentSection().Entries
	if len(entries) == 0 {
		return styles.MutedText.Render("no keys, press a to add one")
	}

	keyWidth := 0
	for _, e := range entries {
		keyWidth = max(keyWidth, len([]rune(e.Key)))
	}
	keyWidth = min(keyWidth, width/3)

	start := windowStart(m.entryIdx, len(entries), height)
	var lines []string
	for i := start; i < len(entries) && i < start+height; i++ {
		e := entries[i]
		name := padRight(truncateMiddle(e.Key, keyWidth), keyWidth)
		value := truncateEnd(displayValue(e.Value), width-keyWidth-3)
		if i == m.entryIdx && m.focus == paneEntries {
			lines = append(lines, m.selectedStyle(true).Width(width).Render(name+" = "+value))
			continue
		}
		lines = append(lines, styles.AccentText.Render(name)+styles.FaintText.Render(" = ")+styles.Text.Render(value))
	}
	return strings.Join(lines, "\n")
}

func (m Model) selectedStyle(focused bool) lipgloss.Style {
	if focused {
		return m.theme.Styles().Selected
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Foreground(lipgloss.Color(m.theme.Text))
}

// renderBox draws a rounded border with the title in the top edge.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	body := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		MaxHeight(innerH).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder(), false, true, true, true).
		BorderForeground(lipgloss.Color(border)).
		Render(content)

	edge := lipgloss.NewStyle().Foreground(lipgloss.Color(border))
	label := " " + title + " "
	fill := innerW - lipgloss.Width(label) - 1
	if fill < 0 {
		label = truncateEnd(label, innerW-1)
		fill = 0
	}
	titleStyle := m.theme.Styles().Text.Bold(focused)
	top := edge.Render("╭─") + titleStyle.Render(label) + edge.Render(strings.Repeat("─", fill)+"╮")
	return top + "\n" + body
}
