package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/cli/formatter"
	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/service"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// chatHistoryLines caps how many messages the chat view renders.
const chatHistoryLines = 12

// chatBackend is the part of the workspace the chat screen uses.
type chatBackend interface {
	Project(id string) (*domain.Project, error)
	SendMessage(ctx context.Context, projectID, content string) (*service.Turn, error)
}

// turnDoneMsg carries the outcome of a SendMessage call back to Update.
type turnDoneMsg struct {
	turn *service.Turn
	err  error
}

// chatModel is the interactive intake chat. Input is disabled while a turn
// is running so only one turn is ever in flight.
type chatModel struct {
	backend   chatBackend
	projectID string
	now       func() time.Time

	input   textinput.Model
	spinner spinner.Model

	busy     bool
	summary  string
	err      error
	width    int
	quitting bool
}

func newChatModel(backend chatBackend, projectID string, now func() time.Time) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Cole as Regras de Negócio, prazos ou atualizações..."
	ti.Prompt = "› "
	ti.PromptStyle = formatter.StyleHeader
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	return chatModel{
		backend:   backend,
		projectID: projectID,
		now:       now,
		input:     ti,
		spinner:   sp,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			content := strings.TrimSpace(m.input.Value())
			if content == "" {
				return m, nil
			}
			m.busy = true
			m.summary = ""
			m.err = nil
			m.input.Reset()
			m.input.Blur()
			return m, tea.Batch(m.send(content), m.spinner.Tick)
		}

	case turnDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.summary = formatter.FormatTurn(msg.turn)
		}
		return m, m.input.Focus()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) send(content string) tea.Cmd {
	return func() tea.Msg {
		turn, err := m.backend.SendMessage(context.Background(), m.projectID, content)
		return turnDoneMsg{turn: turn, err: err}
	}
}

func (m chatModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	p, err := m.backend.Project(m.projectID)
	if err != nil {
		return formatter.StyleRed.Render(err.Error()) + "\n"
	}

	b.WriteString(formatter.StyleHeader.Render(strings.ToUpper(p.Name)) + "  " + formatter.Dim("intake chat") + "\n\n")

	history := p.ChatHistory
	if len(history) > chatHistoryLines {
		history = history[len(history)-chatHistoryLines:]
	}
	b.WriteString(formatter.FormatChatHistory(history, m.now()) + "\n\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " " + formatter.Dim("Analisando...") + "\n\n")
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("✖ "+m.err.Error()) + "\n\n")
	case m.summary != "":
		b.WriteString(m.summary + "\n\n")
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(formatter.Dim("enter send · esc quit") + "\n")
	return b.String()
}
