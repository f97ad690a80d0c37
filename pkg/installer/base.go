package installer

import (
	"context"
	"fmt"

	"github.com/jaspreet-dot-casa/machine-init/pkg/catalog"
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
	"github.com/jaspreet-dot-casa/machine-init/pkg/pkgmgr"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// Base installs the baseline package set: index update, upgrade, the
// per-manager package list, and a cache clean. Update and upgrade are not
// presence-checked because re-running them is safe and cheap.
type Base struct {
	exec    execx.CommandExecutor
	profile platform.SystemProfile
	cat     *catalog.Catalog
	log     *logging.Logger
}

// NewBase creates the base package installer.
func NewBase(exec execx.CommandExecutor, profile platform.SystemProfile, cat *catalog.Catalog, log *logging.Logger) *Base {
	return &Base{exec: exec, profile: profile, cat: cat, log: log}
}

func (b *Base) ID() string          { return IDBase }
func (b *Base) Name() string        { return "Base packages" }
func (b *Base) Description() string { return "Core packages, editors, and build tooling" }

// IsInstalled always reports false: the index refresh and upgrade portions
// re-run on every invocation, and the install step is a no-op for packages
// already present.
func (b *Base) IsInstalled() (bool, string) {
	return false, "index refresh always re-runs"
}

func (b *Base) Install(ctx context.Context) InstallResult {
	mgr := pkgmgr.New(b.exec, b.profile)

	b.log.Info("updating package index (%s)", b.profile.PackageManager)
	if err := mgr.Update(ctx); err != nil {
		return failure(b.ID(), b.Name(), fmt.Errorf("index update failed: %w", err))
	}

	b.log.Info("upgrading installed packages")
	if err := mgr.Upgrade(ctx); err != nil {
		return failure(b.ID(), b.Name(), fmt.Errorf("upgrade failed: %w", err))
	}

	pkgs := b.cat.BaseFor(b.profile.PackageManager)
	b.log.Info("installing %d base packages", len(pkgs))
	if err := mgr.Install(ctx, pkgs...); err != nil {
		return failure(b.ID(), b.Name(), fmt.Errorf("package install failed: %w", err))
	}

	if err := mgr.Clean(ctx); err != nil {
		// Cache cleanup failing is not worth failing the component
		b.log.Warn("package cache cleanup failed: %v", err)
	}

	return success(b.ID(), b.Name(), fmt.Sprintf("%d packages", len(pkgs)))
}
