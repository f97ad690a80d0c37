package pkgmgr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

func TestInstallArgs(t *testing.T) {
	tests := []struct {
		pm   platform.PackageManager
		want []string
	}{
		{platform.Apt, []string{"apt-get", "install", "-y", "-q", "git", "curl"}},
		{platform.Dnf, []string{"dnf", "install", "-y", "git", "curl"}},
		{platform.Yum, []string{"yum", "install", "-y", "git", "curl"}},
		{platform.Pacman, []string{"pacman", "-S", "--noconfirm", "--needed", "git", "curl"}},
		{platform.Zypper, []string{"zypper", "--non-interactive", "install", "git", "curl"}},
	}

	for _, tt := range tests {
		t.Run(tt.pm.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, InstallArgs(tt.pm, "git", "curl"))
		})
	}
}

func TestManager_InstallRunsAsRoot(t *testing.T) {
	exec := &execx.MockExecutor{}
	m := New(exec, platform.SystemProfile{
		PackageManager: platform.Apt,
		IsRoot:         true,
	})

	require.NoError(t, m.Install(context.Background(), "git"))
	require.Len(t, exec.Commands, 1)
	assert.Equal(t, []string{"apt-get", "install", "-y", "-q", "git"}, exec.Commands[0])
}

func TestManager_InstallElevatesWhenNotRoot(t *testing.T) {
	exec := &execx.MockExecutor{}
	m := New(exec, platform.SystemProfile{
		PackageManager: platform.Pacman,
		IsRoot:         false,
	})

	require.NoError(t, m.Install(context.Background(), "git"))
	require.Len(t, exec.Commands, 1)
	assert.Equal(t, "sudo", exec.Commands[0][0])
	assert.Equal(t, "pacman", exec.Commands[0][1])
}

func TestManager_InstallNoPackagesIsNoop(t *testing.T) {
	exec := &execx.MockExecutor{}
	m := New(exec, platform.SystemProfile{PackageManager: platform.Apt, IsRoot: true})

	require.NoError(t, m.Install(context.Background()))
	assert.Empty(t, exec.Commands)
}

type exitCodeError struct{ code int }

func (e exitCodeError) Error() string { return "exit status" }
func (e exitCodeError) ExitCode() int { return e.code }

func TestManager_UpdateToleratesCheckUpdateExit100(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "", exitCodeError{code: 100}
		},
	}
	m := New(exec, platform.SystemProfile{PackageManager: platform.Dnf, IsRoot: true})

	assert.NoError(t, m.Update(context.Background()), "exit 100 means updates exist, not failure")
}

func TestManager_UpdatePassesThroughRealFailures(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "", exitCodeError{code: 1}
		},
	}

	for _, pm := range []platform.PackageManager{platform.Dnf, platform.Yum} {
		m := New(exec, platform.SystemProfile{PackageManager: pm, IsRoot: true})
		assert.Error(t, m.Update(context.Background()), "%s exit 1 is a real failure", pm)
	}
}

func TestUpdateUpgradeCleanArgsCoverAllManagers(t *testing.T) {
	for _, pm := range []platform.PackageManager{
		platform.Apt, platform.Dnf, platform.Yum, platform.Pacman, platform.Zypper,
	} {
		assert.NotEmpty(t, UpdateArgs(pm), "update args for %s", pm)
		assert.NotEmpty(t, UpgradeArgs(pm), "upgrade args for %s", pm)
		assert.NotEmpty(t, CleanArgs(pm), "clean args for %s", pm)
	}
}
