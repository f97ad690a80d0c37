package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/machine-init/pkg/prompt"
)

// newUserCmd creates the user subcommand
func newUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Provision a user account",
		Long: `Create or reconfigure a development user account: home directory,
sudo group, optional docker group and passwordless sudo, and a managed
shell profile block. Passwords are read interactively and never echoed
or logged.`,
		RunE: runUser,
	}
}

func runUser(_ *cobra.Command, _ []string) error {
	if !prompt.IsInteractive() {
		return fmt.Errorf("user provisioning reads a password and requires an interactive terminal")
	}

	log, exec, profile, err := newRunEnv()
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spec, err := prompt.UserSpecForm()
	if err != nil {
		return err
	}
	defer spec.Wipe()

	return provisionAccount(ctx, log, exec, profile, spec)
}
