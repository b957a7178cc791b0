package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	statePrompt modelState = iota
	stateBrowse
)

type interactiveModel struct {
	eng      *runtime.Engine
	opts     *runtime.Options
	input    textinput.Model
	state    modelState
	module   *scriptruntime.Module
	keys     []string
	selected int
	history  []string
	err      error
}

type engineReadyMsg struct {
	eng *runtime.Engine
	err error
}

type requireResultMsg struct {
	module *scriptruntime.Module
	err    error
}

func newInteractiveModel(opts *runtime.Options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "./module, package-name, std:path ..."
	ti.Prompt = "require> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{
		opts:  opts,
		input: ti,
		state: statePrompt,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startEngine)
}

func (m *interactiveModel) startEngine() tea.Msg {
	eng, err := runtime.New(context.Background(), m.opts)
	return engineReadyMsg{eng: eng, err: err}
}

func (m *interactiveModel) doRequire(text string) tea.Cmd {
	return func() tea.Msg {
		mod, err := m.eng.Root().Module(context.Background(), text)
		return requireResultMsg{module: mod, err: err}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.close()
			return m, tea.Quit

		case "q":
			if m.state == stateBrowse {
				m.state = statePrompt
				m.input.Focus()
				return m, nil
			}

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.keys)-1 {
				m.selected++
				return m, nil
			}

		case "enter":
			if m.state == statePrompt && m.eng != nil {
				text := strings.TrimSpace(m.input.Value())
				if text == "" {
					return m, nil
				}
				m.history = append(m.history, text)
				m.input.SetValue("")
				return m, m.doRequire(text)
			}

		case "esc":
			if m.state == stateBrowse {
				m.state = statePrompt
				m.input.Focus()
				return m, nil
			}
			m.err = nil
		}

	case engineReadyMsg:
		m.eng = msg.eng
		m.err = msg.err
		return m, nil

	case requireResultMsg:
		m.err = msg.err
		if msg.err == nil {
			m.module = msg.module
			m.keys = msg.module.Namespace().Keys()
			m.selected = 0
			m.state = stateBrowse
			m.input.Blur()
		}
		return m, nil
	}

	if m.state == statePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) close() {
	if m.eng != nil {
		_ = m.eng.Close(context.Background())
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Module Explorer"))
	b.WriteString("\n\n")

	if m.eng == nil && m.err == nil {
		b.WriteString("Starting engine...")
		return b.String()
	}

	switch m.state {
	case statePrompt:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.err.Error()))
			b.WriteString("\n")
		}
		if len(m.history) > 0 {
			b.WriteString("\nRecent:\n")
			start := len(m.history) - 5
			if start < 0 {
				start = 0
			}
			for _, h := range m.history[start:] {
				b.WriteString("  " + valueStyle.Render(h) + "\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter require • esc clear error • ctrl+c quit"))

	case stateBrowse:
		b.WriteString(nameStyle.Render(m.module.Name()))
		b.WriteString("  ")
		b.WriteString(m.module.Path())
		b.WriteString("\n")
		if pkg := m.module.Package(); pkg != nil {
			fmt.Fprintf(&b, "package %s@%s\n", pkg.Name, pkg.Version)
		}
		if v, ok := m.module.Exports(); ok {
			b.WriteString("\nexports: ")
			b.WriteString(valueStyle.Render(fmt.Sprintf("%v", v)))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\nnamespace (%d bindings):\n\n", len(m.keys))
		for i, k := range m.keys {
			v, _ := m.module.Namespace().Get(k)
			line := fmt.Sprintf("%-20s %v", k, v)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • esc/q back • ctrl+c quit"))
	}

	return b.String()
}

func runInteractive(opts *runtime.Options) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
