package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type thinkingDoneMsg struct {
	err error
}

// personaThinkingModel shows one progress line per persona while the
// session fans the question out. The personas all finish together (the
// session waits for every agent), so a single done message clears the view.
type personaThinkingModel struct {
	spinner  spinner.Model
	personas []string
	nameTint lipgloss.Style
	think    tea.Cmd
	err      error
	done     bool
}

func newPersonaThinkingModel(personas []string, think tea.Cmd) personaThinkingModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return personaThinkingModel{
		spinner:  s,
		personas: personas,
		nameTint: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		think:    think,
	}
}

func (m personaThinkingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.think)
}

func (m personaThinkingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case thinkingDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m personaThinkingModel) View() string {
	if m.done {
		return ""
	}

	lines := make([]string, 0, len(m.personas))
	for _, persona := range m.personas {
		lines = append(lines, fmt.Sprintf("%s %s düşünüyor...", m.spinner.View(), m.nameTint.Render(persona)))
	}
	return strings.Join(lines, "\n")
}

func runThinkingSpinner(ctx context.Context, output io.Writer, personas []string, think func(context.Context) error) error {
	thinkCmd := func() tea.Msg {
		return thinkingDoneMsg{err: think(ctx)}
	}

	p := tea.NewProgram(
		newPersonaThinkingModel(personas, thinkCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(personaThinkingModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
