// Package tui is an interactive chat over the knowledge base.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/docqa/internal/qa"
)

// AskFunc answers one question. A nil result means the answer failed.
type AskFunc func(ctx context.Context, question string) *qa.Result

type exchange struct {
	question string
	result   *qa.Result
}

type answerMsg struct {
	question string
	result   *qa.Result
}

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	ask      AskFunc
	ctx      context.Context
	title    string
	input    textinput.Model
	viewport viewport.Model
	history  []exchange
	pending  string
	status   string
	ready    bool
}

// New creates a chat model. title is shown in the header.
func New(ctx context.Context, ask AskFunc, title string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		ask:      ask,
		ctx:      ctx,
		title:    title,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ctrl+C to quit.",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, resize and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 + bh // header, status, input box, spacer
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case answerMsg:
		m.history = append(m.history, exchange{question: msg.question, result: msg.result})
		m.pending = ""
		if msg.result == nil {
			m.status = "Could not answer; see logs."
		} else {
			m.status = fmt.Sprintf("Answered in %s using %d tokens.", msg.result.Elapsed.Round(time.Millisecond), msg.result.InputTokens+msg.result.OutputTokens)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending != "" {
				return m, nil
			}
			m.input.Reset()
			m.pending = q
			m.status = "Thinking..."
			m.refresh()
			return m, m.askCmd(q)
		}
		if msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) askCmd(q string) tea.Cmd {
	ask, ctx := m.ask, m.ctx
	return func() tea.Msg {
		return answerMsg{question: q, result: ask(ctx, q)}
	}
}

// View renders the header, the conversation, the input and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(m.title)
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + history + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 && m.pending == "" {
		return "Ask anything about your documents."
	}
	var b strings.Builder
	for _, ex := range m.history {
		b.WriteString(userStyle.Render("You: ") + ex.question + "\n")
		if ex.result == nil {
			b.WriteString(errorStyle.Render("Error: could not answer.") + "\n\n")
			continue
		}
		b.WriteString(botStyle.Render("Assistant: ") + ex.result.Answer + "\n\n")
	}
	if m.pending != "" {
		b.WriteString(userStyle.Render("You: ") + m.pending + "\n")
		b.WriteString(statusStyle.Render("...") + "\n")
	}
	return b.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
