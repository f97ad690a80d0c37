package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/machine-init/pkg/catalog"
	"github.com/jaspreet-dot-casa/machine-init/pkg/installer"
	"github.com/jaspreet-dot-casa/machine-init/pkg/orchestrator"
	"github.com/jaspreet-dot-casa/machine-init/pkg/preflight"
)

// newInstallCmd creates the install subcommand
func newInstallCmd() *cobra.Command {
	var timezone, locale string
	var dockerUsers []string

	cmd := &cobra.Command{
		Use:   "install [component...]",
		Short: "Install components non-interactively",
		Long: fmt.Sprintf(`Install the named components without prompting, in fixed priority
order. Components already in place are skipped.

Available components: %s`, strings.Join(installer.PriorityOrder, ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInstall(args, timezone, locale, dockerUsers)
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for the sysconfig component (e.g. Europe/Stockholm)")
	cmd.Flags().StringVar(&locale, "locale", "", "locale for the sysconfig component (e.g. en_US.UTF-8)")
	cmd.Flags().StringSliceVar(&dockerUsers, "docker-user", nil, "users to add to the docker group (repeatable)")

	return cmd
}

func runInstall(args []string, timezone, locale string, dockerUsers []string) error {
	known := make(map[string]bool, len(installer.PriorityOrder))
	for _, id := range installer.PriorityOrder {
		known[id] = true
	}
	var selected []string
	for _, arg := range args {
		if !known[arg] {
			return fmt.Errorf("unknown component %q (available: %s)", arg, strings.Join(installer.PriorityOrder, ", "))
		}
		selected = append(selected, arg)
	}

	log, exec, profile, err := newRunEnv()
	if err != nil {
		return err
	}
	defer log.Close()
	log.Info("run log: %s", log.Path())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	cfg := loadSettings()
	if timezone == "" {
		timezone = cfg.Timezone
	}
	if locale == "" {
		locale = cfg.Locale
	}

	registry := installer.NewRegistry(exec, profile, cat, log, installer.RegistryOptions{
		ToolsDir:    cfg.ToolsDir,
		DockerUsers: dockerUsers,
		Timezone:    timezone,
		Locale:      locale,
	})

	if _, err := preflight.NewChecker(exec).Check(ctx, profile); err != nil {
		return err
	}

	tracker := orchestrator.NewProgressTracker()
	record := tracker.Callback()

	runner := orchestrator.NewRunner(registry, log)
	result := runner.Run(ctx, selected, func(e orchestrator.ProgressEvent) {
		record(e)
		if e.IsError {
			log.Error("%s", e.Message)
			return
		}
		fmt.Printf("[%3d%%] %s\n", e.Percent, e.Message)
	})

	summary := orchestrator.Summarize(exec, profile, result)
	fmt.Println(summary.Render())

	if tracker.HasErrors() {
		fmt.Println("Errors:")
		for _, e := range tracker.Errors() {
			fmt.Printf("  %s: %s\n", e.Message, e.Detail)
		}
	}
	fmt.Printf("Full log: %s\n", log.Path())

	if !result.Success() {
		return fmt.Errorf("install finished with failures")
	}
	return nil
}
