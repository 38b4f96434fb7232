package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/PromptWing/internal/conversation"
	"github.com/josephgoksu/PromptWing/models"
)

// MsgTurnResult carries the controller's answer for one user turn back
// into the update loop.
type MsgTurnResult struct {
	Reply *conversation.Reply
	Err   error
}

// ChatModel is the interactive conversation screen: a transcript viewport
// on top, a textarea below, and a spinner while a model call is in flight.
// The send action is disabled while waiting so a session never has two
// calls racing.
type ChatModel struct {
	controller *conversation.Controller

	textarea   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	transcript []string

	waiting bool
	err     error
	width   int
	height  int
	ready   bool
}

func NewChatModel(controller *conversation.Controller) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Describe the prompt you need..."
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StylePrimary

	return ChatModel{
		controller: controller,
		textarea:   ta,
		spinner:    sp,
		transcript: []string{
			StyleTitle.Render("PromptWing"),
			StyleSubtle.Render("Describe what you need and I will recommend a prompt framework."),
			StyleSubtle.Render("Enter sends, Ctrl+N starts over, Ctrl+C quits."),
		},
	}
}

func (m ChatModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - m.textarea.Height() - 4
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlN:
			if m.waiting {
				return m, nil
			}
			if err := m.controller.NewConversation(); err != nil {
				m.err = err
				return m, nil
			}
			m.transcript = m.transcript[:0]
			m.appendLine(StyleSubtle.Render("New conversation started."))
			m.err = nil
			m.refreshViewport()
			return m, nil
		case tea.KeyEnter:
			// Plain Enter sends; Alt+Enter inserts a newline.
			if msg.Alt {
				break
			}
			if m.waiting {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.err = nil
			m.waiting = true
			m.appendLine(StylePrefixUser.Render("You: ") + input)
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, m.sendTurn(input))
		}

	case MsgTurnResult:
		m.waiting = false
		if msg.Err != nil {
			if errors.Is(msg.Err, conversation.ErrBusy) {
				m.err = msg.Err
				return m, nil
			}
			m.err = msg.Err
			m.appendLine(StylePrefixError.Render("Error: ") + msg.Err.Error())
			m.refreshViewport()
			return m, nil
		}
		m.renderReply(msg.Reply)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *ChatModel) sendTurn(input string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.controller.HandleInput(context.Background(), input)
		return MsgTurnResult{Reply: reply, Err: err}
	}
}

// renderReply appends the controller's reply to the transcript according
// to the resulting stage.
func (m *ChatModel) renderReply(reply *conversation.Reply) {
	switch reply.Stage {
	case models.StageMatching:
		m.appendLine(StyleSectionTitle.Render("Recommended frameworks"))
		for i, rec := range reply.Recommendations {
			line := fmt.Sprintf("%d. %s (%s)", i+1, rec.Name, rec.NameEn)
			m.appendLine(StylePrefixAgent.Render(line))
			if rec.Reason != "" {
				m.appendLine("   " + StyleSubtle.Render(rec.Reason))
			}
			if rec.Complexity != "" {
				m.appendLine("   " + StyleSubtle.Render("complexity: "+rec.Complexity))
			}
		}
		m.appendLine(StyleSubtle.Render("Pick one by number or name."))

	case models.StageClarifying:
		m.appendLine(StyleSectionTitle.Render("A few questions first"))
		for _, q := range reply.Questions {
			m.appendLine(StylePrefixQuestion.Render("? ") + q.Question)
			if q.Hint != "" {
				m.appendLine("   " + StyleSubtle.Render(q.Hint))
			}
		}
		m.appendLine(StyleSubtle.Render("Answer in one message."))

	case models.StageComplete:
		m.appendLine(StyleSectionTitle.Render("Optimized prompt"))
		cleaned := CleanFencedBlock(reply.GeneratedPrompt)
		m.appendLine(RenderMarkdown(cleaned, m.viewport.Width))
		m.appendLine(StyleSubtle.Render("Type an adjustment to refine it, or Ctrl+N to start over."))
	}
}

func (m *ChatModel) appendLine(line string) {
	m.transcript = append(m.transcript, line)
}

func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func (m ChatModel) View() string {
	if !m.ready {
		return "starting..."
	}

	var status string
	switch {
	case m.waiting:
		status = m.spinner.View() + StyleSubtle.Render(" thinking...")
	case m.err != nil && errors.Is(m.err, conversation.ErrBusy):
		status = StyleWarning.Render("still working on the previous request")
	default:
		status = stageLabel(m.controller.Session().Stage)
	}

	box := StyleInputBox
	if !m.waiting {
		box = StyleReadyBox
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		status,
		box.Render(m.textarea.View()),
	)
}

func stageLabel(stage models.Stage) string {
	switch stage {
	case models.StageInitial:
		return StyleSubtle.Render("waiting for your request")
	case models.StageMatching:
		return StyleSubtle.Render("waiting for a framework pick")
	case models.StageClarifying:
		return StyleSubtle.Render("waiting for your answers")
	case models.StageComplete:
		return StyleSuccess.Render("prompt ready")
	default:
		return ""
	}
}
