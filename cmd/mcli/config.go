package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// settings holds the resolved runtime configuration.
type settings struct {
	LogDir   string
	ToolsDir string
	Timezone string
	Locale   string
	// Components pre-selects the interactive component list when set.
	Components []string
}

// loadSettings resolves configuration with defaults under the invoking
// user's home directory.
func loadSettings() settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	viper.SetDefault("log_dir", filepath.Join(home, ".local", "state", "mcli", "logs"))
	viper.SetDefault("tools_dir", filepath.Join(home, "tools"))
	viper.SetDefault("timezone", "")
	viper.SetDefault("locale", "")
	viper.SetDefault("components", []string{})

	return settings{
		LogDir:     viper.GetString("log_dir"),
		ToolsDir:   viper.GetString("tools_dir"),
		Timezone:   viper.GetString("timezone"),
		Locale:     viper.GetString("locale"),
		Components: viper.GetStringSlice("components"),
	}
}

// newRunEnv builds the shared pieces every command needs: the logger, the
// executor teeing command output into the log file, and the detected
// system profile.
func newRunEnv() (*logging.Logger, *execx.RealExecutor, platform.SystemProfile, error) {
	cfg := loadSettings()

	log, err := logging.New(cfg.LogDir)
	if err != nil {
		return nil, nil, platform.SystemProfile{}, fmt.Errorf("failed to open run log: %w", err)
	}

	exec := &execx.RealExecutor{Output: log.FileWriter()}

	profile, warning, err := platform.NewDetector(exec).Detect()
	if err != nil {
		log.Close()
		return nil, nil, platform.SystemProfile{}, err
	}
	if warning != "" {
		log.Warn("%s", warning)
	}
	log.Info("detected %s (%s family, %s, %s)", profile.PrettyName, profile.Family, profile.PackageManager, profile.Arch)

	return log, exec, profile, nil
}
