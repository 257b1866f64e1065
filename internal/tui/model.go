package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/export"
)

// ChatPort is the TUI-facing subset of a chat session.
type ChatPort interface {
	Ask(ctx context.Context, question string) (domain.ChatTurn, error)
	Turns() []domain.ChatTurn
}

// SaveFunc writes the transcript to path.
type SaveFunc func(turns []domain.ChatTurn, path string) error

// Options configures the chat UI.
type Options struct {
	Title      string
	ExportFile string
	Save       SaveFunc
}

type answeredMsg struct {
	turn domain.ChatTurn
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	session  ChatPort
	opts     Options
	input    textinput.Model
	viewport viewport.Model
	summary  string
	status   string
	pending  string
	ready    bool
}

// New creates a chat model. Requests are cancelled when the user quits.
func New(ctx context.Context, session ChatPort, summary string, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Document Q&A"
	}
	if opts.ExportFile == "" {
		opts.ExportFile = "chat_history.pdf"
	}
	if opts.Save == nil {
		opts.Save = export.SaveChat
	}
	ctx, cancel := context.WithCancel(ctx)
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		cancel:   cancel,
		session:  session,
		opts:     opts,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Ready. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + 1 + qh // header + summary, status, help
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil
	case answeredMsg:
		m.pending = ""
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Ready."
		}
		m.refresh()
		return m, nil
	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Chat exported to %s", msg.path)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyCtrlE:
			m.status = "Exporting..."
			return m, m.exportCmd()
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending != "" {
				return m, nil
			}
			m.pending = q
			m.input.Reset()
			m.status = "Thinking..."
			m.refresh()
			return m, m.askCmd(q)
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
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
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		turn, err := session.Ask(ctx, q)
		return answeredMsg{turn: turn, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	turns, path, save := m.session.Turns(), m.opts.ExportFile, m.opts.Save
	return func() tea.Msg {
		return exportedMsg{path: path, err: save(turns, path)}
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render(m.opts.Title)
	summary := summaryStyle.Render(truncate(m.summary, m.viewport.Width))
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	help := helpStyle.Render("enter: ask • ctrl+e: export pdf • pgup/pgdn: scroll • ctrl+c: quit")
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status + "\n" + help
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	turns := m.session.Turns()
	if m.pending != "" {
		n := len(turns)
		if n == 0 || turns[n-1].Role != domain.RoleUser || turns[n-1].Message != m.pending {
			turns = append(turns, domain.ChatTurn{Role: domain.RoleUser, Message: m.pending})
		}
	}
	if len(turns) == 0 {
		return "No messages yet."
	}
	width := max(10, m.viewport.Width-2)
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label, style := "Bot: ", botStyle
		if t.Role == domain.RoleUser {
			label, style = "You: ", userStyle
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(style.Render(label) + t.Message))
	}
	if m.pending != "" {
		b.WriteString("\n\n")
		b.WriteString(summaryStyle.Render("Bot is thinking..."))
	}
	return b.String()
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	summaryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
