// Package chat is the terminal chat widget.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/notesgit/internal/application"
	"github.com/bnema/notesgit/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedModel = errors.New("unexpected final bubbletea model type")

// HandleFunc runs one interaction for the terminal session.
type HandleFunc func(ctx context.Context, input string) application.Reply

type Options struct {
	Locale    domain.Locale
	LedgerRef string
}

type exchange struct {
	input string
	reply application.Reply
}

type replyMsg exchange

type model struct {
	ctx     context.Context
	handle  HandleFunc
	opts    Options
	styles  styles
	input   textinput.Model
	spinner spinner.Model

	transcript []exchange
	pending    string
	busy       bool
	quitting   bool
}

func newModel(ctx context.Context, handle HandleFunc, opts Options) model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = opts.Locale.QuestionLabel
	input.CharLimit = 0
	input.Focus()

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(newStyles().pending),
	)

	return model{
		ctx:     ctx,
		handle:  handle,
		opts:    opts,
		styles:  newStyles(),
		input:   input,
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case replyMsg:
		m.transcript = append(m.transcript, exchange(msg))
		m.pending = ""
		m.busy = false
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if m.busy || text == "" {
		return m, nil
	}

	m.busy = true
	m.pending = text
	m.input.Reset()

	return m, tea.Batch(m.spinner.Tick, m.respond(text))
}

func (m model) respond(text string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{input: text, reply: m.handle(m.ctx, text)}
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("notesgit"))
	if m.opts.LedgerRef != "" {
		b.WriteString(m.styles.help.Render(" " + m.opts.LedgerRef))
	}
	b.WriteString("\n\n")

	for _, ex := range m.transcript {
		b.WriteString(m.renderExchange(ex))
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString(m.styles.user.Render(m.opts.Locale.UserLabel+":") + " " + m.pending + "\n")
		b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), m.styles.pending.Render("...")))
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("enter: send • esc: quit"))

	return b.String()
}

func (m model) renderExchange(ex exchange) string {
	lines := []string{m.styles.user.Render(m.opts.Locale.UserLabel+":") + " " + ex.input}

	label := m.styles.assistant.Render(m.opts.Locale.AssistantLabel + ":")
	switch ex.reply.Kind {
	case application.ReplySaved:
		lines = append(lines, label+" "+m.styles.saved.Render(ex.reply.Text))
	case application.ReplyFailed:
		lines = append(lines, label+" "+m.styles.failure.Render(ex.reply.Text))
	default:
		lines = append(lines, label+" "+m.styles.reply.Render(ex.reply.Text))
	}

	return m.styles.turn.Render(strings.Join(lines, "\n"))
}

// Run drives the chat loop until the user quits or ctx is canceled.
func Run(ctx context.Context, in io.Reader, out io.Writer, handle HandleFunc, opts Options) error {
	p := tea.NewProgram(
		newModel(ctx, handle, opts),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}

	if _, ok := finalModel.(model); !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedModel, finalModel)
	}

	return nil
}
