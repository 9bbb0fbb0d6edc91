// Package tui renders the upload widget in the terminal. All state lives in
// the widget state machine; this model translates key presses into widget
// actions and async work (file reads, uploads, saves) into bubbletea
// commands so the interface never blocks.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"metawash/internal/download"
	"metawash/internal/scrubber"
	"metawash/internal/scrubclient"
	"metawash/internal/widget"
)

type Model struct {
	widget      *widget.Widget
	client      *scrubclient.Client
	downloadDir string

	input     string // path being typed
	inputting bool
	scan      []scrubber.Detail
	insights  []scrubber.Insight
	savedPath string
	status    string
	warn      string // advisory health-probe warning
	width     int
	quitting  bool
}

type (
	fileReadMsg struct {
		name string
		data []byte
		err  error
	}
	scanMsg struct {
		details  []scrubber.Detail
		insights []scrubber.Insight
	}
	scrubDoneMsg struct {
		res *scrubclient.Result
		err error
	}
	saveDoneMsg struct {
		path string
		err  error
	}
	healthMsg struct {
		err error
	}
)

// NewModel builds the TUI. startPath, when non-empty, is loaded immediately.
func NewModel(client *scrubclient.Client, downloadDir, startPath string) Model {
	m := Model{
		widget:      widget.New(),
		client:      client,
		downloadDir: downloadDir,
		input:       startPath,
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{checkHealth(m.client)}
	if m.input != "" {
		cmds = append(cmds, readFile(m.input))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case healthMsg:
		if msg.err != nil {
			m.warn = "warning: scrub service not reachable; scrubs will fail until it is up"
		}
		return m, nil

	case fileReadMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("cannot read file: %v", msg.err)
			return m, nil
		}
		m.input = ""
		if err := m.widget.Select(msg.name, msg.data); err != nil {
			reason, hint := widget.FailureText(err)
			m.status = joinReason(reason, hint)
			return m, nil
		}
		m.scan = nil
		m.insights = nil
		m.savedPath = ""
		m.status = ""
		return m, scanFile(msg.data)

	case scanMsg:
		m.scan = msg.details
		m.insights = msg.insights
		return m, nil

	case scrubDoneMsg:
		m.widget.Finish(msg.res, msg.err)
		if msg.err != nil {
			reason, hint := widget.FailureText(msg.err)
			m.status = joinReason(reason, hint)
		} else {
			m.status = ""
		}
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("download failed: %v", msg.err)
		} else {
			m.savedPath = msg.path
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Path entry mode: the Empty state is always entering a path.
	if m.inputting || m.widget.State() == widget.StateEmpty {
		switch key {
		case "enter":
			path := strings.TrimSpace(m.input)
			if path == "" {
				return m, nil
			}
			m.inputting = false
			return m, readFile(path)
		case "esc":
			if m.widget.State() != widget.StateEmpty {
				m.inputting = false
				m.input = ""
			}
			return m, nil
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil
		default:
			if msg.Type == tea.KeyRunes {
				m.input += string(msg.Runes)
			}
			return m, nil
		}
	}

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "s":
		file, err := m.widget.Begin()
		if err != nil {
			// Includes the in-flight guard: a second press is a no-op.
			return m, nil
		}
		m.status = ""
		m.savedPath = ""
		return m, scrub(m.client, file)

	case "d":
		if !m.widget.DownloadAvailable() {
			return m, nil
		}
		return m, save(m.downloadDir, m.widget.Result())

	case "n":
		if m.widget.State() == widget.StateProcessing {
			return m, nil
		}
		m.inputting = true
		m.input = ""
		m.status = ""
		return m, nil

	case "r":
		// Reset works mid-flight too; the late completion is dropped by
		// the state machine.
		m.widget.Reset()
		m.scan = nil
		m.insights = nil
		m.savedPath = ""
		m.status = ""
		m.input = ""
		return m, nil
	}

	return m, nil
}

func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return fileReadMsg{name: filepath.Base(path), data: data, err: err}
	}
}

func scanFile(data []byte) tea.Cmd {
	return func() tea.Msg {
		details, _ := scrubber.Scan(data) // preview scan is best effort
		return scanMsg{details: details, insights: scrubber.BuildInsights(details)}
	}
}

func scrub(client *scrubclient.Client, file *widget.SelectedFile) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Scrub(context.Background(), file.Data, file.Name, file.MediaType)
		return scrubDoneMsg{res: res, err: err}
	}
}

func save(dir string, res *widget.ScrubResult) tea.Cmd {
	return func() tea.Msg {
		path, err := download.Save(dir, res)
		return saveDoneMsg{path: path, err: err}
	}
}

func checkHealth(client *scrubclient.Client) tea.Cmd {
	return func() tea.Msg {
		return healthMsg{err: client.CheckHealth(context.Background())}
	}
}

func joinReason(reason, hint string) string {
	if hint == "" {
		return reason
	}
	return reason + " (" + hint + ")"
}
