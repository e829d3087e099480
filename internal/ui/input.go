package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmation is a destructive action waiting for y/n.
type confirmation struct {
	prompt string
	target entryRef // key empty means the whole section
}

// handleKey routes keyboard input by mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeEdit, modeAdd:
		return m.handleInputKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateLogViewport()
		m.setStatus("theme " + m.theme.Name)
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		if m.showLogs {
			return m, tea.Batch(m.fetchLogs(), logTickCmd())
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m.reload("reloaded from disk")

	case key.Matches(msg, m.keys.Escape):
		if m.showLogs {
			m.showLogs = false
			return m, nil
		}
		m.focus = paneSections
		return m, nil
	}

	if m.showLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleBrowseKey moves through sections and entries and starts edits.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		m.toggleFocus()
	case key.Matches(msg, m.keys.Left):
		m.focus = paneSections
	case key.Matches(msg, m.keys.Right):
		if len(m.currentSection().Entries) > 0 {
			m.focus = paneEntries
		}
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.move(m.listHeight())
	case key.Matches(msg, m.keys.Top):
		m.move(-len(m.snap.Sections) - len(m.currentSection().Entries))
	case key.Matches(msg, m.keys.Bottom):
		m.move(len(m.snap.Sections) + len(m.currentSection().Entries))

	case key.Matches(msg, m.keys.Edit):
		if m.focus == paneSections {
			if len(m.currentSection().Entries) > 0 {
				m.focus = paneEntries
			}
			return m, nil
		}
		return m.startEdit()

	case key.Matches(msg, m.keys.Add):
		return m.startAdd()

	case key.Matches(msg, m.keys.DeleteKey):
		if e, ok := m.currentEntry(); ok && m.focus == paneEntries {
			sec := m.currentSection().Name
			m.askConfirm(fmt.Sprintf("Delete %s.%s?", sec, e.Key), entryRef{section: sec, key: e.Key})
		}

	case key.Matches(msg, m.keys.DeleteSection):
		if sec := m.currentSection(); sec.Name != "" {
			m.askConfirm(fmt.Sprintf("Delete section [%s] and its %d keys?", sec.Name, len(sec.Entries)), entryRef{section: sec.Name})
		}
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == paneSections && len(m.currentSection().Entries) > 0 {
		m.focus = paneEntries
		return
	}
	m.focus = paneSections
}

// move shifts the cursor of the focused pane by delta, clamped.
func (m *Model) move(delta int) {
	if m.focus == paneSections {
		next := clamp(m.sectionIdx+delta, len(m.snap.Sections))
		if next != m.sectionIdx {
			m.sectionIdx = next
			m.entryIdx = 0
		}
		return
	}
	m.entryIdx = clamp(m.entryIdx+delta, len(m.currentSection().Entries))
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	e, ok := m.currentEntry()
	if !ok {
		return m, nil
	}
	section := m.currentSection().Name
	// The single-line input would flatten newlines on commit.
	if strings.ContainsAny(e.Value, "\r\n") {
		m.setError(fmt.Sprintf("%s.%s spans several lines, change it with kkconf set", section, e.Key))
		return m, nil
	}
	m.mode = modeEdit
	m.target = entryRef{section: section, key: e.Key}
	m.input.Placeholder = ""
	m.input.SetValue(e.Value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	m.target = entryRef{section: m.currentSection().Name}
	m.input.Placeholder = "key=value or section/key=value"
	m.input.SetValue("")
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) askConfirm(prompt string, target entryRef) {
	m.mode = modeConfirm
	m.pending = confirmation{prompt: prompt, target: target}
}

// handleInputKey drives the text input while editing or adding.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endInput()
		m.setStatus("cancelled")
		return m, nil
	case tea.KeyEnter:
		return m.commitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	mode := m.mode
	m.endInput()

	if mode == modeEdit {
		m.store.SetString(m.target.section, m.target.key, value)
		m.afterWrite(fmt.Sprintf("set %s.%s", m.target.section, m.target.key))
		return m, nil
	}

	section, name, val, err := parseAssignment(value, m.target.section)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.store.SetString(section, name, val)
	m.afterWrite(fmt.Sprintf("added %s.%s", section, name))
	m.selectEntry(section, name)
	return m, nil
}

func (m *Model) endInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
}

// handleConfirmKey answers a pending confirmation.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		t := m.pending.target
		m.mode = modeBrowse
		m.pending = confirmation{}
		if t.key == "" {
			m.store.DeleteSection(t.section)
			m.focus = paneSections
			m.afterWrite(fmt.Sprintf("deleted section %s", t.section))
		} else {
			m.store.DeleteKey(t.section, t.key)
			m.afterWrite(fmt.Sprintf("deleted %s.%s", t.section, t.key))
			if len(m.currentSection().Entries) == 0 {
				m.focus = paneSections
			}
		}
	case key.Matches(msg, m.keys.No):
		m.mode = modeBrowse
		m.pending = confirmation{}
		m.setStatus("cancelled")
	}
	return m, nil
}

// parseAssignment splits "key=value" or "section/key=value". The value is
// kept verbatim; names are trimmed.
func parseAssignment(input, defaultSection string) (section, name, value string, err error) {
	eq := strings.IndexByte(input, '=')
	if eq < 0 {
		return "", "", "", fmt.Errorf("expected key=value")
	}
	name, value = input[:eq], input[eq+1:]
	section = defaultSection
	if slash := strings.IndexByte(name, '/'); slash >= 0 {
		section, name = name[:slash], name[slash+1:]
	}
	section = strings.TrimSpace(section)
	name = strings.TrimSpace(name)
	if section == "" {
		return "", "", "", fmt.Errorf("no section selected, use section/key=value")
	}
	if name == "" {
		return "", "", "", fmt.Errorf("key name is empty")
	}
	return section, name, value, nil
}
