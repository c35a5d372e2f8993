package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Asker is the TUI-facing subset of the QA pipeline.
type Asker interface {
	AnswerQuestion(ctx context.Context, documentText, question string) (string, error)
}

type exchange struct {
	question string
	answer   string
}

// Model is the Bubble Tea model for the interactive résumé Q&A console.
type Model struct {
	asker      Asker
	resumeText string
	input      textinput.Model
	viewport   viewport.Model
	exchanges  []exchange
	status     string
	ready      bool
}

// New creates a console model over a loaded résumé.
func New(asker Asker, resumeText, resumeName string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the resume and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		asker:      asker,
		resumeText: resumeText,
		input:      ti,
		viewport:   vp,
		status:     fmt.Sprintf("Loaded %s (%d chars). Type a question.", resumeName, len(resumeText)),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderExchanges())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				answer, err := m.asker.AnswerQuestion(context.Background(), m.resumeText, q)
				if err != nil {
					m.status = "Error: " + err.Error()
				} else {
					m.exchanges = append(m.exchanges, exchange{question: q, answer: answer})
					m.status = fmt.Sprintf("%d question(s) answered", len(m.exchanges))
					m.input.SetValue("")
				}
				m.viewport.SetContent(m.renderExchanges())
				m.viewport.GotoBottom()
				return m, nil
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Resume Q&A Console")
	answers := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + answers + "\n" + input + "\n" + status
}

func (m Model) renderExchanges() string {
	if len(m.exchanges) == 0 {
		return "No questions asked yet."
	}
	var b strings.Builder
	for i, ex := range m.exchanges {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("Q: " + ex.question))
		b.WriteString("\n")
		b.WriteString("A: " + ex.answer)
	}
	return b.String()
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
