// Package pkgmgr builds and runs package-manager command lines for the
// supported distributions. All mutating commands run under sudo when the
// process is not root.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// Manager runs package operations through the profile's package manager.
type Manager struct {
	exec    execx.CommandExecutor
	pm      platform.PackageManager
	elevate bool
}

// New creates a Manager for the given profile.
func New(exec execx.CommandExecutor, profile platform.SystemProfile) *Manager {
	return &Manager{
		exec:    exec,
		pm:      profile.PackageManager,
		elevate: !profile.IsRoot,
	}
}

// UpdateArgs returns the command line that refreshes the package index.
func UpdateArgs(pm platform.PackageManager) []string {
	switch pm {
	case platform.Apt:
		return []string{"apt-get", "update"}
	case platform.Dnf:
		return []string{"dnf", "check-update", "-y"}
	case platform.Yum:
		return []string{"yum", "check-update", "-y"}
	case platform.Pacman:
		return []string{"pacman", "-Sy", "--noconfirm"}
	case platform.Zypper:
		return []string{"zypper", "--non-interactive", "refresh"}
	}
	return nil
}

// UpgradeArgs returns the command line that upgrades installed packages.
func UpgradeArgs(pm platform.PackageManager) []string {
	switch pm {
	case platform.Apt:
		return []string{"apt-get", "upgrade", "-y"}
	case platform.Dnf:
		return []string{"dnf", "upgrade", "-y"}
	case platform.Yum:
		return []string{"yum", "update", "-y"}
	case platform.Pacman:
		return []string{"pacman", "-Su", "--noconfirm"}
	case platform.Zypper:
		return []string{"zypper", "--non-interactive", "update"}
	}
	return nil
}

// InstallArgs returns the command line that installs the given packages.
func InstallArgs(pm platform.PackageManager, pkgs ...string) []string {
	switch pm {
	case platform.Apt:
		return append([]string{"apt-get", "install", "-y", "-q"}, pkgs...)
	case platform.Dnf:
		return append([]string{"dnf", "install", "-y"}, pkgs...)
	case platform.Yum:
		return append([]string{"yum", "install", "-y"}, pkgs...)
	case platform.Pacman:
		return append([]string{"pacman", "-S", "--noconfirm", "--needed"}, pkgs...)
	case platform.Zypper:
		return append([]string{"zypper", "--non-interactive", "install"}, pkgs...)
	}
	return nil
}

// CleanArgs returns the command line that cleans package caches.
func CleanArgs(pm platform.PackageManager) []string {
	switch pm {
	case platform.Apt:
		return []string{"apt-get", "autoremove", "-y"}
	case platform.Dnf:
		return []string{"dnf", "clean", "all"}
	case platform.Yum:
		return []string{"yum", "clean", "all"}
	case platform.Pacman:
		return []string{"pacman", "-Sc", "--noconfirm"}
	case platform.Zypper:
		return []string{"zypper", "clean"}
	}
	return nil
}

func (m *Manager) run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("no command mapping for package manager %s", m.pm)
	}
	name, args := argv[0], argv[1:]
	if m.elevate {
		name, args = "sudo", argv
	}
	if _, err := m.exec.RunContext(ctx, name, args...); err != nil {
		return fmt.Errorf("%s failed: %w", argv[0], err)
	}
	return nil
}

// Update refreshes the package index. dnf/yum check-update exits 100 when
// updates are merely available; that exit is not treated as a failure.
func (m *Manager) Update(ctx context.Context) error {
	err := m.run(ctx, UpdateArgs(m.pm))
	if err != nil && (m.pm == platform.Dnf || m.pm == platform.Yum) && exitCode(err) == 100 {
		return nil
	}
	return err
}

// exitCode extracts the process exit code from a wrapped command error,
// returning -1 when the error carries none.
func exitCode(err error) int {
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

// Upgrade upgrades installed packages.
func (m *Manager) Upgrade(ctx context.Context) error {
	return m.run(ctx, UpgradeArgs(m.pm))
}

// Install installs the given packages.
func (m *Manager) Install(ctx context.Context, pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}
	return m.run(ctx, InstallArgs(m.pm, pkgs...))
}

// Clean cleans package caches.
func (m *Manager) Clean(ctx context.Context) error {
	return m.run(ctx, CleanArgs(m.pm))
}
