package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkshell/kkconf/internal/logging"
	"github.com/kkshell/kkconf/internal/logtail"
	"github.com/kkshell/kkconf/internal/prefs"
	"github.com/kkshell/kkconf/internal/state"
)

// Store is the part of the settings store the browser reads and edits.
type Store interface {
	state.Source
	SetString(section, key, value string)
	DeleteKey(section, key string)
	DeleteSection(section string)
	Reload() error
}

// Options configures the UI.
type Options struct {
	Store       Store
	ThemeName   string
	PrefsPath   string // empty uses ~/.config/kkshell/kkconf.toml
	LastSection string // section selected on start
	LogPath     string // empty hides the log pane content
	Logger      *logging.Logger
	OnSave      func() // called after every write to the settings file
}

// pane identifies which list has focus.
type pane int

const (
	paneSections pane = iota
	paneEntries
)

// mode is what the keyboard currently drives.
type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeAdd
	modeConfirm
)

// Model is the root application state for Bubble Tea.
type Model struct {
	store     Store
	prefsPath string
	logPath   string
	log       *logging.Logger
	onSave    func()

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool
	focus  pane
	mode   mode

	// Data state
	snap       state.Snapshot
	sectionIdx int
	entryIdx   int

	// Editing
	input   textinput.Model
	target  entryRef // entry being edited
	pending confirmation

	// Overlays
	showHelp bool
	showLogs bool

	logViewport viewport.Model
	logLines    []string
	logMin      logtail.Severity

	status    string
	statusErr bool
}

// entryRef names one key of one section.
type entryRef struct {
	section string
	key     string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Prompt = "> "

	m := Model{
		store:     opts.Store,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		log:       log,
		onSave:    opts.OnSave,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		input:     ti,
	}
	m.capture()
	m.selectSection(opts.LastSection)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case ExternalChangeMsg:
		return m.reload("reloaded external change")

	case logLinesMsg:
		m.logLines = msg
		m.updateLogViewport()
		return m, nil

	case logErrorMsg:
		m.setError("read log: " + msg.err.Error())
		return m, nil

	case logTickMsg:
		if !m.showLogs {
			return m, nil
		}
		return m, tea.Batch(m.fetchLogs(), logTickCmd())
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.showLogs {
		b.WriteString(m.renderLogs())
	} else {
		b.WriteString(m.renderBrowser())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// capture refreshes the snapshot and keeps the cursors in range.
func (m *Model) capture() {
	if m.store == nil {
		return
	}
	m.snap = state.Capture(m.store)
	m.clampCursors()
}

func (m *Model) clampCursors() {
	m.sectionIdx = clamp(m.sectionIdx, len(m.snap.Sections))
	m.entryIdx = clamp(m.entryIdx, len(m.currentSection().Entries))
}

// afterWrite recaptures and reports the save outcome.
func (m *Model) afterWrite(done string) {
	m.capture()
	if m.onSave != nil {
		m.onSave()
	}
	if err := m.store.Err(); err != nil {
		m.setError("save failed: " + err.Error())
		return
	}
	m.setStatus(done)
}

func (m Model) reload(done string) (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	section := m.currentSection().Name
	if err := m.store.Reload(); err != nil {
		m.log.WithError(err).Warn("reload kept in-memory settings")
		m.setError("reload failed: " + err.Error())
		return m, nil
	}
	if m.onSave != nil {
		m.onSave()
	}
	m.capture()
	m.selectSection(section)
	m.setStatus(done)
	return m, nil
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, LastSection: m.currentSection().Name}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.WithError(err).Warn("save preferences failed")
	}
}

// Messages

// ExternalChangeMsg tells the browser the settings file changed on disk.
type ExternalChangeMsg struct{}

type logLinesMsg []string

type logErrorMsg struct{ err error }

type logTickMsg time.Time

// NewProgram builds the Bubble Tea program for opts. Callers may Send
// ExternalChangeMsg to it from other goroutines.
func NewProgram(opts Options) *tea.Program {
	return tea.NewProgram(New(opts), tea.WithAltScreen())
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	_, err := NewProgram(opts).Run()
	return err
}
