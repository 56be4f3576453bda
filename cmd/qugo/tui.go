package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"qugo/sim"
)

func tuiCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and run the demos interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(newTUI(*cfg), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// tuiModel is the demo explorer: a program menu on the left, the compiled
// circuit beside it, QASM and sampled results below.
type tuiModel struct {
	cfg    Config
	sel    int
	scroll bool // QASM viewport focused instead of the menu
	width  int
	height int

	qasmView viewport.Model
	diagram  string
	results  string
	shots    int
	running  bool
}

func newTUI(cfg Config) tuiModel {
	shots := cfg.Shots
	if shots <= 0 {
		shots = 1024
	}
	m := tuiModel{cfg: cfg, shots: shots, qasmView: viewport.New(40, 16)}
	m.refresh()
	return m
}

// refresh recompiles the selected demo and refills the circuit and QASM
// panels.
func (m *tuiModel) refresh() {
	m.results = ""
	c, err := buildCircuit(demos[m.sel])
	if err != nil {
		m.diagram = err.Error()
		m.qasmView.SetContent("")
		return
	}
	m.diagram = c.Draw()
	text, err := c.ToQASM()
	if err != nil {
		text = err.Error()
	}
	m.qasmView.SetContent(text)
	m.qasmView.GotoTop()
}

// runDoneMsg carries one finished sampling run back into the model.
type runDoneMsg struct {
	sel    int
	counts map[string]int
	shots  int
	err    error
}

func sampleCmd(sel, shots int, cfg Config) tea.Cmd {
	return func() tea.Msg {
		exec := sim.New(effectiveSeed(cfg.Seed))
		counts, err := sim.Sample(context.Background(), demos[sel].prog, exec, shots, cfg.Parallelism)
		return runDoneMsg{sel: sel, counts: counts, shots: shots, err: err}
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.qasmView.Width = max(m.width/2-6, 20)
		m.qasmView.Height = max(m.height/2-8, 4)
		return m, nil

	case runDoneMsg:
		if msg.sel != m.sel {
			return m, nil
		}
		m.running = false
		if msg.err != nil {
			m.results = msg.err.Error()
			return m, nil
		}
		var sb strings.Builder
		printHistogram(&sb, msg.counts, msg.shots)
		m.results = sb.String()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.scroll = !m.scroll
			return m, nil
		case "enter", "r":
			if m.running {
				return m, nil
			}
			m.running = true
			m.results = ""
			return m, sampleCmd(m.sel, m.shots, m.cfg)
		case "+", "=":
			m.shots = min(m.shots*2, 1<<16)
			return m, nil
		case "-":
			m.shots = max(m.shots/2, 1)
			return m, nil
		}

		if m.scroll {
			var cmd tea.Cmd
			m.qasmView, cmd = m.qasmView.Update(msg)
			return m, cmd
		}
		switch key {
		case "up", "k":
			if m.sel > 0 {
				m.sel--
				m.refresh()
			}
		case "down", "j":
			if m.sel < len(demos)-1 {
				m.sel++
				m.refresh()
			}
		}
		return m, nil
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	menuW := 32
	rightW := max(m.width-menuW-6, 20)
	topH := max(m.height/2-2, 8)

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderMenu(menuW, topH),
		m.renderCircuit(rightW, topH))

	botH := max(m.height-topH-8, 4)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderQASM(m.width/2-2, botH),
		m.renderResults(m.width-m.width/2-4, botH))

	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, m.renderHelp(m.width-4))
}

func (m tuiModel) renderMenu(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Programs"))
	sb.WriteString("\n\n")
	for i, d := range demos {
		if i == m.sel {
			sb.WriteString(selectedStyle.Render("▸ " + d.name))
		} else {
			sb.WriteString(normalStyle.Render("  " + d.name))
		}
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("  " + d.blurb))
		sb.WriteString("\n")
	}
	return menuPaneStyle.Width(width).Height(height).Render(sb.String())
}

func (m tuiModel) renderCircuit(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Circuit: " + demos[m.sel].name))
	sb.WriteString("\n\n")
	sb.WriteString(m.diagram)
	return circuitPaneStyle.Width(width).Height(height).Render(sb.String())
}

func (m tuiModel) renderQASM(width, height int) string {
	title := "QASM"
	if m.scroll {
		title += " [scroll]"
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.qasmView.View())
	return qasmPaneStyle.Width(width).Height(height).Render(sb.String())
}

func (m tuiModel) renderResults(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Results (%d shots)", m.shots)))
	sb.WriteString("\n")
	switch {
	case m.running:
		sb.WriteString(dimStyle.Render("sampling..."))
	case m.results == "":
		sb.WriteString(dimStyle.Render("press r to run"))
	default:
		sb.WriteString(m.results)
	}
	return resultsPaneStyle.Width(width).Height(height).Render(sb.String())
}

func (m tuiModel) renderHelp(width int) string {
	var sb strings.Builder
	sb.WriteString(accentStyle.Render("↑↓/jk"))
	sb.WriteString(" Select  ")
	sb.WriteString(accentStyle.Render("r/⏎"))
	sb.WriteString(" Run  ")
	sb.WriteString(accentStyle.Render("+/-"))
	sb.WriteString(" Shots  ")
	sb.WriteString(accentStyle.Render("Tab"))
	sb.WriteString(" Scroll QASM  ")
	sb.WriteString(accentStyle.Render("q"))
	sb.WriteString(" Quit")
	return helpBarStyle.Width(width).Render(sb.String())
}
