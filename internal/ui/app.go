// internal/ui/app.go
package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"debatecore/internal/commands"
	"debatecore/internal/export"
	"debatecore/internal/lifecycle"
	"debatecore/internal/models"
	"debatecore/internal/source"
	"debatecore/internal/transcript"
)

// Model is the interaction view: status header, transcript pane, query
// input and upload footer.
type Model struct {
	width, height int
	ready         bool
	showHelp      bool
	mode          ViewMode

	session *Session
	loader  source.Loader
	baseURL string
	logger  *zap.Logger

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	status     models.BackendStatus
	haveStatus bool

	query        lifecycle.QueryState
	presentation transcript.PresentationModel
	exported     string // markdown shown by /export until the next change
	history      *HistoryState

	upload        lifecycle.UploadState
	uploadName    string // last successful upload
	uploadPending string // file of the outstanding upload
	notice     string
}

// Option configures the Model
type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l.Named("ui")
		}
	}
}

// WithBaseURL shows the backend address in the header
func WithBaseURL(u string) Option {
	return func(m *Model) {
		m.baseURL = u
	}
}

func New(session *Session, loader source.Loader, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the debate a question, or /help"
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StatusWarn

	vp := viewport.New(80, 10)
	vp.MouseWheelEnabled = true

	m := Model{
		session:  session,
		loader:   loader,
		logger:   zap.NewNop(),
		input:    ti,
		viewport: vp,
		spinner:  sp,
		history:  NewHistoryState(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.session.bridge.wait())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.history.SetMaxHeight(msg.Height)
		m.layout()
		m.refreshTranscript()
		return m, nil

	case StatusMsg:
		m.status = msg.Status
		m.haveStatus = true
		return m, m.session.bridge.wait()

	case QueryStateMsg:
		m.query = lifecycle.QueryState(msg)
		switch m.query.Phase {
		case lifecycle.InFlight:
			// a new question replaces the previous debate; history keeps it
			m.presentation = transcript.PresentationModel{}
			m.exported = ""
			m.refreshTranscript()
		case lifecycle.Succeeded:
			m.presentation = transcript.Present(m.query.Payload)
			m.history.Add(m.presentation, time.Now())
			m.exported = ""
			m.refreshTranscript()
			m.viewport.GotoTop()
		}
		m.layout()
		return m, m.session.bridge.wait()

	case UploadStateMsg:
		m.upload = lifecycle.UploadState(msg)
		if m.upload.Phase == lifecycle.Succeeded {
			m.uploadName = m.upload.Payload.Filename
			if m.uploadName == "" {
				m.uploadName = m.uploadPending
			}
		}
		return m, m.session.bridge.wait()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ViewHistory {
		return m.handleHistoryKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m, tea.Quit

	case "f1":
		m.showHelp = !m.showHelp
		return m, nil

	case "f2":
		m.showHelp = false
		m.mode = ViewHistory
		return m, nil

	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		m.notice = ""
		return m, nil

	case "enter":
		if m.showHelp {
			return m, nil
		}
		return m.submit(m.input.Value())

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m, tea.Quit
	case "up", "k":
		m.history.Up()
	case "down", "j":
		m.history.Down()
	case "enter":
		if e := m.history.Selected(); e != nil {
			m.presentation = e.Presentation
			m.exported = ""
			m.refreshTranscript()
			m.viewport.GotoTop()
		}
		m.mode = ViewNormal
	case "esc", "f2":
		m.mode = ViewNormal
	}
	return m, nil
}

// submit routes the input line to a slash command or the query controller
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	cmd := commands.Parse(text)
	if cmd == nil {
		err := m.session.Query.Submit(text)
		switch {
		case err == nil:
			m.input.Reset()
			m.notice = ""
		case lifecycle.IsIgnored(err):
			m.logger.Debug("query submit ignored", zap.Error(err))
		default:
			m.notice = err.Error()
		}
		return m, nil
	}

	m.input.Reset()
	m.notice = ""

	switch c := cmd.(type) {
	case commands.Help:
		m.showHelp = true

	case commands.Upload:
		m.startUpload(c.Path)

	case commands.Refresh:
		if !m.session.Poller.Refresh() {
			m.notice = "status polling is not running"
		}

	case commands.Clear:
		m.presentation = transcript.PresentationModel{}
		m.exported = ""
		m.refreshTranscript()

	case commands.Export:
		if m.presentation.Empty() {
			m.notice = "nothing to export yet"
			break
		}
		m.exported = export.Markdown(m.presentation)
		m.refreshTranscript()
		m.viewport.GotoTop()

	case commands.History:
		m.mode = ViewHistory

	case commands.Quit:
		return m, tea.Quit

	case commands.ParseError:
		m.notice = c.Message
	}
	return m, nil
}

func (m *Model) startUpload(path string) {
	f, err := m.loader.Load(path)
	if err != nil {
		m.notice = "upload: " + err.Error()
		return
	}
	err = m.session.Upload.Submit(f)
	switch {
	case err == nil:
		m.uploadPending = filepath.Base(f.Name)
	case errors.Is(err, lifecycle.ErrInFlight):
		m.notice = fmt.Sprintf("upload of %s still in progress", m.uploadPending)
	default:
		m.notice = "upload: " + err.Error()
	}
}

// layout sizes the viewport to what the header, input and footer leave
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.input.Width = max(m.width-6, 10)

	reserved := headerHeight + inputHeight + footerHeight
	if m.query.Phase == lifecycle.Failed || m.query.Phase == lifecycle.InFlight {
		reserved += errorBoxHeight
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-reserved, 3)
}

func (m *Model) refreshTranscript() {
	switch {
	case m.exported != "":
		m.viewport.SetContent(m.exported)
	case m.presentation.Empty() && m.presentation.Query == "":
		m.viewport.SetContent(DimStyle.Render("No debate yet. Type a question and press Enter."))
	default:
		m.viewport.SetContent(RenderTranscript(m.presentation, m.viewport.Width))
	}
}
