package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/machine-init/pkg/catalog"
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/installer"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
	"github.com/jaspreet-dot-casa/machine-init/pkg/orchestrator"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
	"github.com/jaspreet-dot-casa/machine-init/pkg/preflight"
	"github.com/jaspreet-dot-casa/machine-init/pkg/prompt"
	"github.com/jaspreet-dot-casa/machine-init/pkg/userprov"
)

// newSetupCmd creates the setup subcommand. Running mcli with no
// arguments reaches the same flow.
func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive machine setup",
		Long: `Run the full interactive setup: detect the platform, verify
prerequisites, optionally provision a user account, select components,
and install them in priority order.`,
		RunE: runSetup,
	}
}

// runSetup drives the full provisioning flow.
func runSetup(_ *cobra.Command, _ []string) error {
	if !prompt.IsInteractive() {
		return fmt.Errorf("setup requires an interactive terminal; use 'mcli install <components>' for scripted runs")
	}

	log, exec, profile, err := newRunEnv()
	if err != nil {
		return err
	}
	defer log.Close()
	log.Info("run log: %s", log.Path())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Preflight: sudo, network, and the baseline tools later steps assume.
	installed, err := preflight.NewChecker(exec).Check(ctx, profile)
	if err != nil {
		return err
	}
	for _, tool := range installed {
		log.Info("installed missing baseline tool %s", tool)
	}

	cfg := loadSettings()

	// Optional user provisioning.
	var dockerUsers []string
	provisionUser, err := prompt.ConfirmForm(
		"Provision a user account?",
		"Creates or reconfigures a dev account with sudo access and a managed shell profile.",
	)
	if err != nil {
		return err
	}
	if provisionUser {
		spec, err := prompt.UserSpecForm()
		if err != nil {
			return err
		}
		if err := provisionAccount(ctx, log, exec, profile, spec); err != nil {
			return err
		}
		if spec.DockerGroup {
			dockerUsers = append(dockerUsers, spec.Username)
		}
		spec.Wipe()
	}

	// Component selection.
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	registry := installer.NewRegistry(exec, profile, cat, log, installer.RegistryOptions{
		ToolsDir:    cfg.ToolsDir,
		DockerUsers: dockerUsers,
		ConfirmDockerReinstall: func() (bool, error) {
			return prompt.ConfirmForm("Docker is already installed", "Reinstall the engine and compose plugin anyway?")
		},
		Timezone: cfg.Timezone,
		Locale:   cfg.Locale,
	})

	preselect := make(map[string]bool, len(cfg.Components))
	for _, id := range cfg.Components {
		preselect[id] = true
	}

	options := make([]prompt.ComponentOption, 0, len(registry.All()))
	for _, inst := range registry.All() {
		present, detail := inst.IsInstalled()
		opt := prompt.ComponentOption{
			ID:          inst.ID(),
			Name:        inst.Name(),
			Description: inst.Description(),
			Selected:    !present || preselect[inst.ID()],
		}
		if present {
			opt.Description = fmt.Sprintf("%s (present: %s)", inst.Description(), detail)
		}
		options = append(options, opt)
	}

	selected, err := prompt.SelectComponents(options)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("Nothing selected; nothing to do.")
		return nil
	}

	proceed, err := prompt.ConfirmForm(
		fmt.Sprintf("Install %d component(s)?", len(selected)),
		"Components run in priority order; failures are collected, not fatal.",
	)
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Println("Aborted before any changes were made.")
		return nil
	}

	// Run with the live progress view.
	runner := orchestrator.NewRunner(registry, log)
	model := orchestrator.NewRunModel(runner, selected)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("progress view failed: %w", err)
	}

	result := final.(orchestrator.RunModel).Result()
	if result == nil {
		return fmt.Errorf("run did not complete")
	}

	summary := orchestrator.Summarize(exec, profile, result)
	fmt.Println(summary.Render())
	fmt.Printf("Full log: %s\n", log.Path())

	if result.Aborted {
		return fmt.Errorf("setup aborted before all components finished")
	}
	if summary.HasIssues() {
		return fmt.Errorf("setup finished with issues")
	}
	return nil
}

// provisionAccount runs the user provisioner with interactive
// reconfigure confirmation.
func provisionAccount(ctx context.Context, log *logging.Logger, exec execx.CommandExecutor, profile platform.SystemProfile, spec userprov.UserSpec) error {
	prov := userprov.NewProvisioner(exec, profile)
	prov.ConfirmReconfigure = func(username string) (bool, error) {
		return prompt.ConfirmForm(
			fmt.Sprintf("User %s already exists", username),
			"Reconfigure the account (groups, sudo, shell profile)?",
		)
	}

	res, err := prov.Provision(ctx, spec)
	if err != nil {
		return fmt.Errorf("user provisioning failed: %w", err)
	}

	switch {
	case res.Created:
		log.Success("created user %s (groups: %v)", spec.Username, res.Groups)
	case res.Reconfigured:
		log.Success("reconfigured user %s (groups: %v)", spec.Username, res.Groups)
	default:
		log.Info("user %s left unchanged", spec.Username)
	}
	if res.Sudoers {
		log.Info("passwordless sudo enabled for %s", spec.Username)
	}
	return nil
}
