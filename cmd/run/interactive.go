package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/veloq/script-bridge/bridge"
	"github.com/veloq/script-bridge/invoker"
	"github.com/veloq/script-bridge/registry"
	"github.com/veloq/script-bridge/wazerohost"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	installedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type runtimeRow struct {
	rt  *wazerohost.Runtime
	inv *invoker.SerialInvoker
}

type uiState int

const (
	stateList uiState = iota
	stateNameRuntime
)

type interactiveModel struct {
	br       *bridge.Bridge
	reg      *registry.HandleRegistry
	rows     []runtimeRow
	input    textinput.Model
	status   string
	statusOK bool
	selected int
	state    uiState
	nextID   int
}

func runInteractive(capName, aliasName, profileName string) error {
	br, _, reg, err := newBridge(capName, aliasName, profileName)
	if err != nil {
		return err
	}

	input := textinput.New()
	input.Placeholder = "runtime id"
	input.CharLimit = 32

	m := &interactiveModel{
		br:    br,
		reg:   reg,
		input: input,
	}

	// Start with one runtime so the keys have something to act on.
	if err := m.addRuntime("rt-0"); err != nil {
		return err
	}
	m.nextID = 1

	p := tea.NewProgram(m)
	_, err = p.Run()
	m.teardown()
	return err
}

func (m *interactiveModel) addRuntime(id string) error {
	rt, err := wazerohost.NewRuntime(context.Background(), id)
	if err != nil {
		return err
	}
	m.rows = append(m.rows, runtimeRow{rt: rt, inv: invoker.NewSerial(id)})
	return nil
}

func (m *interactiveModel) teardown() {
	ctx := context.Background()
	for _, row := range m.rows {
		m.br.Cleanup(row.rt)
		row.inv.Close()
		row.rt.Close(ctx)
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateNameRuntime {
		switch keyMsg.String() {
		case "enter":
			id := strings.TrimSpace(m.input.Value())
			if id == "" {
				id = fmt.Sprintf("rt-%d", m.nextID)
				m.nextID++
			}
			if err := m.addRuntime(id); err != nil {
				m.setStatus(err.Error(), false)
			} else {
				m.setStatus(fmt.Sprintf("created %s", id), true)
				m.selected = len(m.rows) - 1
			}
			m.input.Reset()
			m.state = stateList
			return m, nil
		case "esc":
			m.input.Reset()
			m.state = stateList
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
	case "n":
		m.state = stateNameRuntime
		m.input.Focus()
		return m, textinput.Blink
	case "i":
		if row, ok := m.current(); ok {
			st := m.br.Install(row.rt, row.inv)
			m.setStatus(fmt.Sprintf("install %s: %s", row.rt.RuntimeID(), st), st.OK())
		}
	case "c":
		if row, ok := m.current(); ok {
			st := m.br.Cleanup(row.rt)
			m.setStatus(fmt.Sprintf("cleanup %s: %s", row.rt.RuntimeID(), st), st.OK())
		}
	}
	return m, nil
}

func (m *interactiveModel) current() (runtimeRow, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return runtimeRow{}, false
	}
	return m.rows[m.selected], true
}

func (m *interactiveModel) setStatus(msg string, ok bool) {
	m.status = msg
	m.statusOK = ok
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("script-bridge • %s", m.br.Delegate().ID())))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		label := row.rt.RuntimeID()
		state := "idle"
		style := idleStyle
		if rec := m.reg.Lookup(row.rt); rec != nil {
			state = fmt.Sprintf("installed %s", rec.InstalledAt.Format("15:04:05"))
			style = installedStyle
		}
		line := fmt.Sprintf("  %-12s %s", label, style.Render(state))
		if i == m.selected {
			line = selectedStyle.Render(fmt.Sprintf("> %-12s %s", label, state))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.state == stateNameRuntime {
		b.WriteString("\nNew runtime: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusOK {
			b.WriteString(statusStyle.Render(m.status))
		} else {
			b.WriteString(errorStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"%d active • i install • c cleanup • n new runtime • ↑/↓ select • q quit",
		m.reg.Len())))
	b.WriteString("\n")
	return b.String()
}
