package repl

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/protempl/cli/cmd"
	"github.com/ardnew/protempl/lang"
	"github.com/ardnew/protempl/log"
)

// transcriptLimit bounds how many rendered lines the session retains.
const transcriptLimit = 500

// Repl starts an interactive resolution session over a single document.
// Each line of input is a dotted path resolved on demand against the
// document and prelude; only the queried subtrees are materialized.
type Repl struct {
	Source string `arg:"" help:"Source input file" name:"source" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := os.Open(r.Source)
	if err != nil {
		return ErrLoadSource.
			With(slog.String("file", r.Source)).
			Wrap(err)
	}
	defer file.Close()

	stream, err := lang.NewStream(ctx, file, cmd.PreludeFrom(ctx))
	if err != nil {
		return ErrLoadSource.
			With(slog.String("file", r.Source)).
			Wrap(err)
	}

	log.DebugContext(ctx, "starting interactive session",
		slog.String("file", r.Source),
		slog.Int("entry_count", len(stream.Document().Entries)))

	program := tea.NewProgram(
		newModel(ctx, r.Source, stream),
		tea.WithContext(ctx),
	)

	_, err = program.Run()
	if err != nil {
		return ErrInterface.Wrap(err)
	}

	return nil
}

// Styles for the interactive session.
var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	stylePrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleErrMsg = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleHint   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// model is the bubbletea model for the interactive session.
type model struct {
	ctx    context.Context
	source string
	stream *lang.Stream

	input      textinput.Model
	complete   completer
	transcript []string
	hints      []string
	height     int
}

func newModel(ctx context.Context, source string, stream *lang.Stream) model {
	input := textinput.New()
	input.Prompt = prompt()
	input.Placeholder = "path.to.value"
	input.Focus()

	return model{
		ctx:      ctx,
		source:   source,
		stream:   stream,
		input:    input,
		complete: completer{stream: stream},
		height:   24,
	}
}

func prompt() string {
	return stylePrompt.Render("> ")
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			return m.submit()

		case tea.KeyTab:
			if len(m.hints) > 0 {
				m.input.SetValue(m.hints[0])
				m.input.CursorEnd()
				m.hints = nil
			}

			return m, nil
		}
	}

	var tcmd tea.Cmd

	m.input, tcmd = m.input.Update(msg)
	m.hints = m.complete.complete(m.ctx, m.input.Value())

	return m, tcmd
}

// submit evaluates the current input line.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.input.Reset()
	m.hints = nil

	switch line {
	case "":
		return m, nil

	case ":q", ":quit", "exit":
		return m, tea.Quit

	case ":names":
		m.append(prompt() + line)

		for _, name := range deleteEmpty(m.stream.Document().Names()) {
			m.append("  " + name)
		}

		return m, nil

	case ":doc":
		m.append(prompt() + line)
		m.appendBlock(lang.Format(m.stream.Document()))

		return m, nil

	case ":help":
		m.append(prompt() + line)
		m.append(styleHint.Render(
			"enter a dotted path to resolve it; " +
				":names lists entries, :doc shows the source, :q quits"))

		return m, nil
	}

	m.append(prompt() + line)

	value, err := m.stream.Get(m.ctx, line)
	if err != nil {
		m.append(styleErrMsg.Render(err.Error()))

		return m, nil
	}

	rendered, err := lang.FormatResolved(value, lang.FormatNative)
	if err != nil {
		m.append(styleErrMsg.Render(err.Error()))

		return m, nil
	}

	m.appendBlock(rendered)

	return m, nil
}

func (m *model) append(line string) {
	m.transcript = append(m.transcript, line)

	if len(m.transcript) > transcriptLimit {
		m.transcript = m.transcript[len(m.transcript)-transcriptLimit:]
	}
}

func (m *model) appendBlock(block string) {
	for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		m.append(line)
	}
}

// View implements tea.Model.
func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(styleTitle.Render(m.source))
	sb.WriteByte('\n')

	visible := m.transcript

	if limit := m.height - 4; limit > 0 && len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}

	for _, line := range visible {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	sb.WriteString(m.input.View())
	sb.WriteByte('\n')

	if len(m.hints) > 0 {
		shown := m.hints
		if len(shown) > 8 {
			shown = shown[:8]
		}

		sb.WriteString(styleHint.Render(strings.Join(shown, "  ")))
		sb.WriteByte('\n')
	}

	return sb.String()
}
