package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkshell/kkconf/internal/logtail"
)

const (
	logTailLines       = 400
	logRefreshInterval = 2 * time.Second
)

// severityOrder is the cycle used by the log level filter.
var severityOrder = []logtail.Severity{
	logtail.SeverityUnknown,
	logtail.SeverityInfo,
	logtail.SeverityWarn,
	logtail.SeverityError,
}

func severityLabel(sev logtail.Severity) string {
	switch sev {
	case logtail.SeverityDebug:
		return "debug"
	case logtail.SeverityInfo:
		return "info"
	case logtail.SeverityWarn:
		return "warn"
	case logtail.SeverityError:
		return "error"
	default:
		return "all"
	}
}

func nextSeverity(cur logtail.Severity) logtail.Severity {
	for i, sev := range severityOrder {
		if sev == cur {
			return severityOrder[(i+1)%len(severityOrder)]
		}
	}
	return severityOrder[0]
}

func logTickCmd() tea.Cmd {
	return tea.Tick(logRefreshInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

// fetchLogs reads the log tail off the UI goroutine.
func (m Model) fetchLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logLinesMsg(lines)
	}
}

// updateLogViewport resizes the viewport and re-renders its content.
func (m *Model) updateLogViewport() {
	w := max(m.width-4, 1)
	h := max(m.height-chromeHeight-2, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(w, h)
	}
	m.logViewport.Width = w
	m.logViewport.Height = h

	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.renderLogContent())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	lines := logtail.Filter(m.logLines, m.logMin)
	if len(lines) == 0 {
		if m.logPath == "" {
			return styles.MutedText.Render("logging to stderr, no log file")
		}
		return styles.MutedText.Render("no log entries in " + m.logPath)
	}

	var b strings.Builder
	style := styles.Text
	for i, line := range lines {
		if sev := logtail.Classify(line); sev != logtail.SeverityUnknown {
			style = styles.SeverityStyle(sev)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(style.Render(line))
	}
	return b.String()
}

// renderLogs renders the log pane in place of the browser.
func (m Model) renderLogs() string {
	title := "Log · " + severityLabel(m.logMin)
	return m.renderBox(title, m.logViewport.View(), m.width, m.height-chromeHeight, true)
}

// handleLogsKey scrolls the log pane and cycles the level filter.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.LogFilter):
		m.logMin = nextSeverity(m.logMin)
		m.updateLogViewport()
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfViewDown()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	}
	return m, nil
}
