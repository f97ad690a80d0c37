package doctor

import (
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// Checker provides component checking functionality.
type Checker struct {
	exec    execx.CommandExecutor
	profile platform.SystemProfile
}

// NewChecker creates a new Checker with the real command executor.
func NewChecker(profile platform.SystemProfile) *Checker {
	return &Checker{
		exec:    &execx.RealExecutor{},
		profile: profile,
	}
}

// NewCheckerWithExecutor creates a new Checker with a custom executor (for testing).
func NewCheckerWithExecutor(exec execx.CommandExecutor, profile platform.SystemProfile) *Checker {
	return &Checker{exec: exec, profile: profile}
}

// CheckAll runs every check in display order.
func (c *Checker) CheckAll() []Check {
	checks := make([]Check, 0, len(AllCheckIDs))
	for _, id := range AllCheckIDs {
		checks = append(checks, c.runCheck(id))
	}
	return checks
}

// GetCheck runs a single check by ID.
func (c *Checker) GetCheck(checkID string) Check {
	return c.runCheck(checkID)
}

func (c *Checker) runCheck(checkID string) Check {
	switch checkID {
	case IDGit:
		return CheckGit(c.exec, c.profile.PackageManager)
	case IDCurl:
		return CheckCurl(c.exec, c.profile.PackageManager)
	case IDDocker:
		return CheckDocker(c.exec)
	case IDDockerCompose:
		return CheckDockerCompose(c.exec)
	case IDClaude:
		return CheckClaude(c.exec)
	case IDNode:
		return CheckNode(c.exec, c.profile.PackageManager)
	case IDNpm:
		return CheckNpm(c.exec, c.profile.PackageManager)
	default:
		return Check{
			ID:      checkID,
			Name:    checkID,
			Status:  StatusError,
			Message: "unknown check",
		}
	}
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func GetSummary(checks []Check) Summary {
	var summary Summary
	for _, check := range checks {
		summary.Total++
		switch check.Status {
		case StatusOK:
			summary.OK++
		case StatusMissing:
			summary.Missing++
		case StatusWarning:
			summary.Warnings++
		case StatusError:
			summary.Errors++
		}
	}
	return summary
}

// HasIssues returns true if any checks are missing or erroring.
func HasIssues(checks []Check) bool {
	summary := GetSummary(checks)
	return summary.Missing > 0 || summary.Errors > 0
}
