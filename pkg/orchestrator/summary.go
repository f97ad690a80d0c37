package orchestrator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/machine-init/pkg/doctor"
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/installer"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// Summary is the end-of-run report: what each component reported plus a
// fresh probe of the tools that should now exist.
type Summary struct {
	Results []installer.InstallResult
	Checks  []doctor.Check
	Aborted bool
}

// Summarize re-probes the live system and pairs the probe with the run's
// per-component results. Probing rather than trusting the results catches
// installs that claimed success but left nothing behind.
func Summarize(exec execx.CommandExecutor, profile platform.SystemProfile, run *RunResult) Summary {
	checker := doctor.NewCheckerWithExecutor(exec, profile)
	return Summary{
		Results: run.Results,
		Checks:  checker.CheckAll(),
		Aborted: run.Aborted,
	}
}

// HasIssues reports whether the run was aborted, any component failed, or
// any probe found a missing tool. An interrupted run counts as an issue even
// when every tool probed fine: components that never ran were not verified.
func (s Summary) HasIssues() bool {
	if s.Aborted {
		return true
	}
	for _, res := range s.Results {
		if res.Status == installer.StatusFailed {
			return true
		}
	}
	return doctor.HasIssues(s.Checks)
}

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	summaryOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	summaryFailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	summaryWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	summaryDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Render formats the summary for terminal output.
func (s Summary) Render() string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(" Run Summary "))
	b.WriteString("\n\n")

	if s.Aborted {
		b.WriteString(summaryWarnStyle.Render("  ! run aborted before all components finished"))
		b.WriteString("\n\n")
	}

	for _, res := range s.Results {
		switch res.Status {
		case installer.StatusFailed:
			b.WriteString(summaryFailStyle.Render("  ✗ " + res.Name))
			if res.Message != "" {
				b.WriteString(summaryDimStyle.Render(" - " + res.Message))
			}
		case installer.StatusSkipped:
			b.WriteString(summaryDimStyle.Render("  - " + res.Name + " (skipped)"))
		case installer.StatusAlreadyPresent:
			b.WriteString(summaryOKStyle.Render("  ✓ " + res.Name))
			b.WriteString(summaryDimStyle.Render(" (already present)"))
		default:
			b.WriteString(summaryOKStyle.Render("  ✓ " + res.Name))
			if res.Message != "" {
				b.WriteString(summaryDimStyle.Render(" - " + res.Message))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(summaryTitleStyle.Render(" Verification "))
	b.WriteString("\n\n")

	for _, check := range s.Checks {
		switch check.Status {
		case doctor.StatusOK:
			b.WriteString(summaryOKStyle.Render("  ✓ "))
		case doctor.StatusWarning:
			b.WriteString(summaryWarnStyle.Render("  ! "))
		default:
			b.WriteString(summaryFailStyle.Render("  ✗ "))
		}
		b.WriteString(check.Name)
		if check.Message != "" {
			b.WriteString(summaryDimStyle.Render(" - " + check.Message))
		}
		if check.Status == doctor.StatusMissing && check.FixHint != "" {
			b.WriteString("\n")
			b.WriteString(summaryDimStyle.Render("      fix: " + check.FixHint))
		}
		b.WriteString("\n")
	}

	counts := doctor.GetSummary(s.Checks)
	b.WriteString("\n")
	b.WriteString(summaryDimStyle.Render(fmt.Sprintf("  %d ok, %d missing, %d warnings", counts.OK, counts.Missing, counts.Warnings)))
	b.WriteString("\n")

	return b.String()
}
