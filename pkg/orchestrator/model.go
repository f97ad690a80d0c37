package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// runProgressMsg wraps a ProgressEvent for Bubble Tea.
type runProgressMsg ProgressEvent

// runCompleteMsg is sent when the run finishes.
type runCompleteMsg struct {
	result *RunResult
}

var (
	runTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	runSuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	runErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	runActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	runDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	runBarStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingRight(2)
)

// RunModel is a Bubble Tea model showing installer progress.
type RunModel struct {
	runner   *Runner
	selected []string

	spinner      spinner.Model
	progressBar  progress.Model
	events       []ProgressEvent
	progressChan chan ProgressEvent
	ctx          context.Context
	cancel       context.CancelFunc
	result       *RunResult
	done         bool
	quitting     bool

	width  int
	height int
}

// NewRunModel builds the Bubble Tea model that drives a run interactively.
// The returned model owns the run's lifetime: starting it, streaming its
// progress, and cancelling it on Ctrl+C.
func NewRunModel(runner *Runner, selected []string) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return RunModel{
		runner:       runner,
		selected:     selected,
		spinner:      s,
		progressBar:  p,
		events:       make([]ProgressEvent, 0),
		progressChan: make(chan ProgressEvent, 100),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (m RunModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startRun(),
		m.waitForProgress(),
	)
}

func (m RunModel) startRun() tea.Cmd {
	return func() tea.Msg {
		callback := func(e ProgressEvent) {
			m.progressChan <- e
		}

		result := m.runner.Run(m.ctx, m.selected, callback)
		close(m.progressChan)

		return runCompleteMsg{result: result}
	}
}

func (m RunModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.progressChan
		if !ok {
			return nil // channel closed
		}
		return runProgressMsg(event)
	}
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(msg.Width-10, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			if m.done {
				return m, tea.Quit
			}
			// The run stops between components; completion quits.
			return m, nil
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd

	case runProgressMsg:
		m.events = append(m.events, ProgressEvent(msg))
		return m, tea.Batch(
			m.waitForProgress(),
			m.progressBar.SetPercent(float64(msg.Percent)/100.0),
		)

	case runCompleteMsg:
		m.done = true
		m.result = msg.result
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

func (m RunModel) View() string {
	if m.quitting && !m.done {
		return "\n  Cancelling after the current component...\n"
	}

	var s strings.Builder

	header := runTitleStyle.Render(" Installing Components ")
	s.WriteString("\n")
	s.WriteString(header)
	s.WriteString("\n\n")

	if len(m.events) > 0 {
		lastEvent := m.events[len(m.events)-1]
		percent := lastEvent.Percent
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}

		barView := m.progressBar.ViewAs(float64(percent) / 100.0)
		s.WriteString(runBarStyle.Render(barView))
		s.WriteString(fmt.Sprintf(" %d%%", percent))
		s.WriteString("\n\n")
	}

	for i, event := range m.events {
		isLast := i == len(m.events)-1 && !m.done

		icon := "  "
		msgStyle := runDimStyle

		if event.IsError {
			icon = runErrorStyle.Render("  ✗")
			msgStyle = runErrorStyle
		} else if event.Stage == StageComplete {
			icon = runSuccessStyle.Render("  ✓")
			msgStyle = runSuccessStyle
		} else if isLast {
			icon = runActiveStyle.Render("  ›")
			msgStyle = lipgloss.NewStyle()
		} else {
			icon = runSuccessStyle.Render("  ✓")
		}

		s.WriteString(icon)
		s.WriteString(" ")
		s.WriteString(msgStyle.Render(event.Message))
		s.WriteString("\n")

		if event.Detail != "" && (isLast || event.IsError) {
			s.WriteString("     ")
			s.WriteString(runDimStyle.Render(event.Detail))
			s.WriteString("\n")
		}
	}

	if !m.done && len(m.events) > 0 {
		s.WriteString("\n")
		s.WriteString("  ")
		s.WriteString(m.spinner.View())
		s.WriteString(" Working...")
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.done {
		s.WriteString(runDimStyle.Render("  Press Enter to view the summary"))
	} else {
		s.WriteString(runDimStyle.Render("  Press Ctrl+C to cancel"))
	}
	s.WriteString("\n")

	return s.String()
}

// Result returns the finished run's result, nil until the run completes.
func (m RunModel) Result() *RunResult {
	return m.result
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
