package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/ownership/stress"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type menuItem struct {
	mode  string
	title string
	hint  string
}

var menuItems = []menuItem{
	{modeUnique, "unique", "single owner: get, release, reset"},
	{modeShared, "shared", "counted owners: clone, reset, swap, self handle"},
	{modeWeak, "weak", "observer: expiry and lock"},
	{"stress", "stress", "copying vs shared mutation across goroutines"},
}

type modelState int

const (
	stateMenu modelState = iota
	stateStressParams
	stateRunning
	stateShowResult
)

type interactiveModel struct {
	err      error
	cancel   context.CancelFunc
	result   string
	inputs   []textinput.Model
	cfg      stress.Config
	selected int
	focusIdx int
	state    modelState
}

type resultMsg struct {
	err    error
	output string
}

func newInteractiveModel(cfg *stress.Config) *interactiveModel {
	return &interactiveModel{
		cfg:   *cfg,
		state: stateMenu,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateMenu && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateMenu && m.selected < len(menuItems)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateMenu:
				item := menuItems[m.selected]
				if item.mode == "stress" {
					m.prepareInputs()
					m.state = stateStressParams
					return m, nil
				}
				m.state = stateRunning
				return m, runModeCmd(item.mode)

			case stateStressParams:
				cfg, err := m.stressConfig()
				if err != nil {
					m.err = err
					m.state = stateShowResult
					return m, nil
				}
				ctx, cancel := context.WithCancel(context.Background())
				m.cancel = cancel
				m.state = stateRunning
				return m, runStressCmd(ctx, cfg)

			case stateShowResult:
				m.reset()
			}
			return m, nil

		case "tab":
			if m.state == stateStressParams && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateStressParams, stateShowResult:
				m.reset()
			case stateRunning:
				if m.cancel != nil {
					m.cancel()
				}
			}
		}

	case resultMsg:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.result = msg.output
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateStressParams {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateMenu
	m.inputs = nil
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	fields := []struct {
		prompt string
		value  int
	}{
		{"goroutines: ", m.cfg.Goroutines},
		{"iterations: ", m.cfg.Iterations},
	}
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = f.prompt
		ti.Placeholder = strconv.Itoa(f.value)
		ti.Width = 20
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// stressConfig reads the text inputs, keeping the current value for any
// field left blank.
func (m *interactiveModel) stressConfig() (stress.Config, error) {
	cfg := m.cfg
	targets := []*int{&cfg.Goroutines, &cfg.Iterations}
	for i, input := range m.inputs {
		v := strings.TrimSpace(input.Value())
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s%q is not a number", input.Prompt, v)
		}
		*targets[i] = n
	}
	return cfg, nil
}

func runModeCmd(mode string) tea.Cmd {
	return func() tea.Msg {
		var b strings.Builder
		runMode(&b, mode)
		return resultMsg{output: b.String()}
	}
}

func runStressCmd(ctx context.Context, cfg stress.Config) tea.Cmd {
	return func() tea.Msg {
		var b strings.Builder
		err := runStress(ctx, &b, &cfg)
		return resultMsg{output: b.String(), err: err}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ownership Demo"))
	b.WriteString("\n\n")

	switch m.state {
	case stateMenu:
		b.WriteString("Select a demo:\n\n")
		for i, item := range menuItems {
			line := fmt.Sprintf("%-8s %s", item.title, hintStyle.Render(item.hint))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + item.title))
				b.WriteString(" ")
				b.WriteString(hintStyle.Render(item.hint))
			} else {
				b.WriteString("  " + itemStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case stateStressParams:
		b.WriteString("Stress parameters:\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateRunning:
		b.WriteString("Running...\n\n")
		b.WriteString(helpStyle.Render("esc cancel • q quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(strings.TrimRight(m.result, "\n")))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(cfg *stress.Config) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
