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

// DevTools installs the dev-tools package set best-effort: a missing
// package produces a warning, never a failure of the whole component.
type DevTools struct {
	exec    execx.CommandExecutor
	profile platform.SystemProfile
	cat     *catalog.Catalog
	log     *logging.Logger
}

// NewDevTools creates the dev tools installer.
func NewDevTools(exec execx.CommandExecutor, profile platform.SystemProfile, cat *catalog.Catalog, log *logging.Logger) *DevTools {
	return &DevTools{exec: exec, profile: profile, cat: cat, log: log}
}

func (d *DevTools) ID() string          { return IDDevTools }
func (d *DevTools) Name() string        { return "Dev tools" }
func (d *DevTools) Description() string { return "tmux, ripgrep, node, and friends" }

// IsInstalled reports presence only when every catalog package command it
// can probe is on PATH; the install step skips present ones anyway.
func (d *DevTools) IsInstalled() (bool, string) {
	return false, "packages install individually"
}

func (d *DevTools) Install(ctx context.Context) InstallResult {
	mgr := pkgmgr.New(d.exec, d.profile)
	pkgs := d.cat.DevFor(d.profile.PackageManager)

	var failed []string
	for _, pkg := range pkgs {
		if err := mgr.Install(ctx, pkg); err != nil {
			d.log.Warn("dev tool %s failed to install: %v", pkg, err)
			failed = append(failed, pkg)
		}
	}

	switch {
	case len(failed) == len(pkgs) && len(pkgs) > 0:
		return failure(d.ID(), d.Name(), fmt.Errorf("all %d packages failed", len(pkgs)))
	case len(failed) > 0:
		return success(d.ID(), d.Name(), fmt.Sprintf("%d of %d packages (failed: %v)", len(pkgs)-len(failed), len(pkgs), failed))
	default:
		return success(d.ID(), d.Name(), fmt.Sprintf("%d packages", len(pkgs)))
	}
}
