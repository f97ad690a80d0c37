package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// newDetectCmd creates the detect subcommand
func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the detected system profile",
		Long:  `Detect the distribution, family, package manager, and architecture this machine would be provisioned with.`,
		RunE:  runDetect,
	}
}

func runDetect(cmd *cobra.Command, _ []string) error {
	exec := &execx.RealExecutor{}
	profile, warning, err := platform.NewDetector(exec).Detect()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Distribution:    %s\n", profile.PrettyName)
	fmt.Fprintf(out, "ID:              %s\n", profile.Distro)
	fmt.Fprintf(out, "Family:          %s\n", profile.Family)
	fmt.Fprintf(out, "Package manager: %s\n", profile.PackageManager)
	fmt.Fprintf(out, "Architecture:    %s\n", profile.Arch)
	fmt.Fprintf(out, "Running as root: %t\n", profile.IsRoot)
	fmt.Fprintf(out, "Sudo group:      %s\n", profile.SudoGroup())
	if warning != "" {
		fmt.Fprintf(out, "\nWarning: %s\n", warning)
	}
	return nil
}
