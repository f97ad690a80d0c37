// Package main provides the mcli CLI tool for provisioning Linux development machines.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set via -ldflags during build
var version = "dev"

var cfgFile string

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for mcli
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcli",
		Short: "Linux Development Machine Setup",
		Long: `mcli provisions a fresh Linux machine into a working development
environment: base packages, Docker with Compose, the Claude CLI, dev
tools, AI tool repositories, and timezone/locale configuration.

Running mcli with no arguments starts the interactive setup. Every
component is idempotent: re-running setup skips what is already in
place and repairs what is missing.`,
		Version: version,
		RunE:    runSetup,
	}

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mcli/config.yaml)")

	rootCmd.AddCommand(
		newSetupCmd(),
		newDetectCmd(),
		newDoctorCmd(),
		newUserCmd(),
		newInstallCmd(),
	)

	return rootCmd
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(configDir + "/mcli")
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("MCLI")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults and environment cover it
	_ = viper.ReadInConfig()
}
