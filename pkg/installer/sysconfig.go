package installer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// SysConfig sets the system timezone and locale. Settings left empty are
// skipped; a run that configures nothing reports StatusSkipped.
type SysConfig struct {
	exec    execx.CommandExecutor
	profile platform.SystemProfile
	log     *logging.Logger

	Timezone string // IANA name, e.g. "Europe/Stockholm"
	Locale   string // e.g. "en_US.UTF-8"
}

// NewSysConfig creates the system configuration installer.
func NewSysConfig(exec execx.CommandExecutor, profile platform.SystemProfile, log *logging.Logger) *SysConfig {
	return &SysConfig{exec: exec, profile: profile, log: log}
}

func (s *SysConfig) ID() string          { return IDSysConfig }
func (s *SysConfig) Name() string        { return "System configuration" }
func (s *SysConfig) Description() string { return "Timezone and locale" }

// ValidateTimezone rejects names the tz database does not know. Bad input
// re-prompts at the caller instead of reaching timedatectl.
func ValidateTimezone(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("timezone cannot be empty")
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown timezone %q", name)
	}
	return nil
}

// IsInstalled reports presence when the live timezone already matches the
// requested one and no locale change is requested.
func (s *SysConfig) IsInstalled() (bool, string) {
	if s.Timezone == "" && s.Locale == "" {
		return false, ""
	}
	if s.Locale != "" || s.Timezone == "" {
		return false, ""
	}
	out, err := s.exec.Run("timedatectl", "show", "--property=Timezone", "--value")
	if err != nil {
		return false, ""
	}
	current := strings.TrimSpace(out)
	if current == s.Timezone {
		return true, current
	}
	return false, current
}

func (s *SysConfig) Install(ctx context.Context) InstallResult {
	if s.Timezone == "" && s.Locale == "" {
		return InstallResult{ID: s.ID(), Name: s.Name(), Status: StatusSkipped, Message: "nothing to configure"}
	}

	var applied []string

	if s.Timezone != "" {
		if err := ValidateTimezone(s.Timezone); err != nil {
			return failure(s.ID(), s.Name(), err)
		}
		s.log.Info("setting timezone to %s", s.Timezone)
		if err := s.runElevated(ctx, "timedatectl", "set-timezone", s.Timezone); err != nil {
			return failure(s.ID(), s.Name(), fmt.Errorf("failed to set timezone: %w", err))
		}
		applied = append(applied, "timezone="+s.Timezone)
	}

	if s.Locale != "" {
		s.log.Info("setting locale to %s", s.Locale)
		if err := s.setLocale(ctx); err != nil {
			return failure(s.ID(), s.Name(), err)
		}
		applied = append(applied, "locale="+s.Locale)
	}

	return success(s.ID(), s.Name(), strings.Join(applied, ", "))
}

func (s *SysConfig) setLocale(ctx context.Context) error {
	if s.profile.Family == platform.FamilyDebian {
		if err := s.runElevated(ctx, "locale-gen", s.Locale); err != nil {
			return fmt.Errorf("locale-gen failed: %w", err)
		}
	}
	if err := s.runElevated(ctx, "localectl", "set-locale", "LANG="+s.Locale); err != nil {
		return fmt.Errorf("localectl failed: %w", err)
	}
	return nil
}

func (s *SysConfig) runElevated(ctx context.Context, name string, args ...string) error {
	n, a := name, args
	if !s.profile.IsRoot {
		n, a = execx.Sudo(name, args...)
	}
	_, err := s.exec.RunContext(ctx, n, a...)
	return err
}
