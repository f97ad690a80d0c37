package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/machine-init/pkg/doctor"
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check installed tools",
		Long:  `Probe the live system for the tools mcli installs and report their presence and versions.`,
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	exec := &execx.RealExecutor{}
	profile, _, err := platform.NewDetector(exec).Detect()
	if err != nil {
		return err
	}

	checks := doctor.NewCheckerWithExecutor(exec, profile).CheckAll()
	out := cmd.OutOrStdout()

	for _, check := range checks {
		var mark string
		switch check.Status {
		case doctor.StatusOK:
			mark = "✓"
		case doctor.StatusWarning:
			mark = "!"
		default:
			mark = "✗"
		}
		fmt.Fprintf(out, "  %s %-16s %s\n", mark, check.Name, check.Message)
		if check.Status == doctor.StatusMissing && check.FixHint != "" {
			fmt.Fprintf(out, "    %-18s fix: %s\n", "", check.FixHint)
		}
	}

	summary := doctor.GetSummary(checks)
	fmt.Fprintf(out, "\n%d ok, %d missing, %d warnings, %d errors\n",
		summary.OK, summary.Missing, summary.Warnings, summary.Errors)

	if doctor.HasIssues(checks) {
		return fmt.Errorf("%d of %d checks need attention", summary.Missing+summary.Errors, summary.Total)
	}
	return nil
}
