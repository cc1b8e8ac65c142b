// Package main provides the shipscout CLI entry point.
// This file implements the interactive lookup page using bubbletea.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shipscout/cmd/shipscout/config"
	"shipscout/cmd/shipscout/ui"
	"shipscout/internal/logging"
	"shipscout/internal/shipstream"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Input focus order on the page.
const (
	focusUniqueID = iota
	focusToken
	focusTimeout
	focusCount
)

// pageModel is the single-page lookup interface: identifier, token and
// timeout inputs, an expand=order toggle, and a results viewport.
type pageModel struct {
	// UI components
	idInput      textinput.Model
	tokenInput   textinput.Model
	timeoutInput textinput.Model
	viewport     viewport.Model
	spinner      spinner.Model
	styles       ui.Styles
	renderer     *glamour.TermRenderer

	// State
	focus        int
	expandOrder  bool
	isLoading    bool
	err          error
	notice       string
	report       *shipstream.Report
	width        int
	height       int
	ready        bool
	cfg          config.Config
	baseURL      string
	queriedCount int
}

// Messages for tea updates.
type (
	reportMsg     *shipstream.Report
	lookupErrMsg  struct{ err error }
	exportDoneMsg struct {
		path string
		err  error
	}
)

// newPageModel initializes the interactive page.
func newPageModel(baseURL string) pageModel {
	cfg, _ := config.Load()

	styles := ui.DefaultStyles()
	if cfg.Theme == "dark" {
		styles = ui.NewStyles(ui.DarkTheme())
	}

	id := textinput.New()
	id.Placeholder = "5900008555"
	id.Prompt = "unique_id: "
	id.PromptStyle = styles.Prompt
	id.CharLimit = 64
	id.Width = 24
	id.Focus()

	token := textinput.New()
	token.Placeholder = "(configured)"
	token.Prompt = "auth token: "
	token.PromptStyle = styles.Prompt
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'
	token.CharLimit = 128
	token.Width = 36

	timeout := textinput.New()
	timeout.Prompt = "timeout (s): "
	timeout.PromptStyle = styles.Prompt
	timeout.SetValue(strconv.Itoa(cfg.TimeoutSeconds))
	timeout.CharLimit = 3
	timeout.Width = 5

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(100),
		)
	}

	if baseURL == "" {
		baseURL = cfg.BaseURL
	}

	return pageModel{
		idInput:      id,
		tokenInput:   token,
		timeoutInput: timeout,
		viewport:     vp,
		spinner:      sp,
		styles:       styles,
		renderer:     renderer,
		focus:        focusUniqueID,
		expandOrder:  cfg.ExpandDefault(),
		cfg:          cfg,
		baseURL:      baseURL,
	}
}

func (m pageModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m pageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyTab:
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil

		case tea.KeyShiftTab:
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil

		case tea.KeyCtrlE:
			m.expandOrder = !m.expandOrder
			return m, nil

		case tea.KeyCtrlS:
			return m, m.exportCSV()

		case tea.KeyEnter:
			return m.submit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 7 // header + inputs + status line
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight
		m.ready = true
		return m, nil

	case reportMsg:
		m.isLoading = false
		m.report = msg
		m.err = nil
		m.viewport.SetContent(ui.RenderReport(msg, m.styles, m.renderRaw))
		m.viewport.GotoTop()
		return m, nil

	case lookupErrMsg:
		m.isLoading = false
		m.err = msg.err
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.notice = m.styles.Warning.Render("export failed: " + msg.err.Error())
		} else {
			m.notice = m.styles.Success.Render("saved " + msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m *pageModel) setFocus(focus int) {
	m.focus = focus
	inputs := []*textinput.Model{&m.idInput, &m.tokenInput, &m.timeoutInput}
	for i, in := range inputs {
		if i == focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m pageModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.idInput, cmd = m.idInput.Update(msg)
	cmds = append(cmds, cmd)
	m.tokenInput, cmd = m.tokenInput.Update(msg)
	cmds = append(cmds, cmd)
	m.timeoutInput, cmd = m.timeoutInput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit validates the inputs and starts the lookup. One request at a
// time: the page blocks behind the spinner until the call settles.
func (m pageModel) submit() (tea.Model, tea.Cmd) {
	if m.isLoading {
		return m, nil
	}
	m.notice = ""

	uniqueID := strings.TrimSpace(m.idInput.Value())
	if uniqueID == "" {
		m.err = shipstream.ErrEmptyIdentifier
		return m, nil
	}

	token := strings.TrimSpace(m.tokenInput.Value())
	if token == "" {
		token = config.ResolveToken(m.cfg)
	}
	if token == "" {
		m.err = shipstream.ErrMissingToken
		return m, nil
	}

	timeout := shipstream.DefaultTimeout
	if secs, err := strconv.Atoi(strings.TrimSpace(m.timeoutInput.Value())); err == nil {
		timeout = shipstream.ClampTimeout(time.Duration(secs) * time.Second)
	}

	m.err = nil
	m.isLoading = true
	m.queriedCount++
	logging.UI("lookup submitted: unique_id=%s expand=%v", uniqueID, m.expandOrder)

	client := shipstream.NewClient(m.baseURL, token, timeout)
	expand := m.expandOrder
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		report, err := shipstream.Lookup(context.Background(), client, uniqueID, expand)
		if err != nil {
			return lookupErrMsg{err}
		}
		return reportMsg(report)
	})
}

// exportCSV writes the current flattened table next to the working
// directory as shipment_<unique_id>.csv.
func (m pageModel) exportCSV() tea.Cmd {
	report := m.report
	if report == nil || report.Flattened.Empty() {
		return nil
	}
	return func() tea.Msg {
		path := shipstream.CSVFileName(report.UniqueID)
		err := report.Flattened.ExportCSV(path)
		if err == nil {
			logging.Export("wrote %s (%d rows)", path, len(report.Flattened.Rows))
		}
		return exportDoneMsg{path: path, err: err}
	}
}

// renderRaw formats the raw body section, fencing JSON through glamour.
func (m pageModel) renderRaw(body string, isJSON bool) string {
	if isJSON && m.renderer != nil {
		if out, err := m.renderer.Render("```json\n" + body + "\n```"); err == nil {
			return out
		}
	}
	return m.styles.CodeBlock.Render(body)
}

func (m pageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("shipscout — shipment lookup by unique_id"))
	sb.WriteString("\n")

	expandBox := "[ ]"
	if m.expandOrder {
		expandBox = "[x]"
	}
	sb.WriteString(m.idInput.View())
	sb.WriteString("   ")
	sb.WriteString(m.styles.Body.Render(expandBox + " expand=order (ctrl+e)"))
	sb.WriteString("\n")
	sb.WriteString(m.tokenInput.View())
	sb.WriteString("   ")
	sb.WriteString(m.timeoutInput.View())
	sb.WriteString("\n")

	switch {
	case m.isLoading:
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.styles.Muted.Render(" querying API..."))
	case m.err != nil:
		sb.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
	case m.notice != "":
		sb.WriteString(m.notice)
	default:
		sb.WriteString(m.styles.Muted.Render("enter: query · tab: next field · ctrl+s: save CSV · ctrl+c: quit"))
	}
	sb.WriteString("\n")

	if m.ready {
		sb.WriteString(m.styles.RenderDivider(m.width))
		sb.WriteString("\n")
	}
	sb.WriteString(m.viewport.View())

	return sb.String()
}

// runPage launches the interactive page.
func runPage(baseURL string) error {
	wd, err := workingDir()
	if err == nil {
		if lerr := logging.Initialize(wd); lerr != nil {
			fmt.Println("logging disabled:", lerr)
		}
		defer logging.CloseAll()
	}

	p := tea.NewProgram(newPageModel(baseURL), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
