package userprov

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

func rootProfile() platform.SystemProfile {
	return platform.SystemProfile{
		Distro:         "ubuntu",
		Family:         platform.FamilyDebian,
		PackageManager: platform.Apt,
		IsRoot:         true,
	}
}

// newTestProvisioner returns a provisioner whose filesystem side effects
// land in a temp dir.
func newTestProvisioner(t *testing.T, exec execx.CommandExecutor) *Provisioner {
	t.Helper()
	p := NewProvisioner(exec, rootProfile())
	p.SudoersDir = t.TempDir()
	p.HomeRoot = t.TempDir()
	return p
}

// userMissingExec simulates a system where no account exists yet.
func userMissingExec() *execx.MockExecutor {
	return &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			switch name {
			case "id":
				return "", errors.New("no such user")
			case "getent":
				return "", errors.New("no such group")
			}
			return "", nil
		},
	}
}

func TestProvision_CreatesAccount(t *testing.T) {
	exec := userMissingExec()
	p := newTestProvisioner(t, exec)
	require.NoError(t, os.MkdirAll(filepath.Join(p.HomeRoot, "dev1"), 0o755))

	spec := UserSpec{
		Username:    "dev1",
		Password:    "longenough1",
		GrantSudo:   true,
		DockerGroup: true,
	}
	res, err := p.Provision(context.Background(), spec)
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.False(t, res.Reconfigured)
	assert.Equal(t, []string{"sudo", "docker"}, res.Groups)
	assert.False(t, res.Sudoers)

	var saw []string
	for _, cmd := range exec.Commands {
		saw = append(saw, strings.Join(cmd, " "))
	}
	assert.Contains(t, saw, "useradd -m -s /bin/bash dev1")
	assert.Contains(t, saw, "chpasswd")
	assert.Contains(t, saw, "groupadd docker")
	assert.Contains(t, saw, "usermod -aG sudo dev1")
	assert.Contains(t, saw, "usermod -aG docker dev1")

	// Shell profile carries the managed block exactly once
	data, err := os.ReadFile(res.ProfilePath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), blockBegin))
}

func TestProvision_ValidationFailsBeforeAnyMutation(t *testing.T) {
	exec := userMissingExec()
	p := newTestProvisioner(t, exec)

	_, err := p.Provision(context.Background(), UserSpec{Username: "Bad Name", Password: "longenough1"})
	require.Error(t, err)
	assert.Empty(t, exec.Commands, "no command may run when validation fails")

	_, err = p.Provision(context.Background(), UserSpec{Username: "dev1", Password: "short"})
	require.Error(t, err)
	assert.Empty(t, exec.Commands)
}

func TestProvision_ExistingUserIsReconfiguredNotDuplicated(t *testing.T) {
	exec := &execx.MockExecutor{} // id succeeds: user exists, groups exist
	p := newTestProvisioner(t, exec)
	require.NoError(t, os.MkdirAll(filepath.Join(p.HomeRoot, "dev1"), 0o755))

	asked := false
	p.ConfirmReconfigure = func(username string) (bool, error) {
		asked = true
		assert.Equal(t, "dev1", username)
		return true, nil
	}

	res, err := p.Provision(context.Background(), UserSpec{
		Username:  "dev1",
		Password:  "longenough1",
		GrantSudo: true,
	})
	require.NoError(t, err)

	assert.True(t, asked)
	assert.True(t, res.Reconfigured)
	assert.False(t, res.Created)

	for _, cmd := range exec.Commands {
		assert.NotEqual(t, "useradd", cmd[0], "existing user must not be re-created")
	}
}

func TestProvision_ExistingUserDeclined(t *testing.T) {
	exec := &execx.MockExecutor{}
	p := newTestProvisioner(t, exec)
	p.ConfirmReconfigure = func(string) (bool, error) { return false, nil }

	res, err := p.Provision(context.Background(), UserSpec{
		Username: "dev1",
		Password: "longenough1",
	})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.False(t, res.Reconfigured)
}

func TestProvision_DeclinedPasswordlessSudoWritesNoFragment(t *testing.T) {
	exec := userMissingExec()
	p := newTestProvisioner(t, exec)
	require.NoError(t, os.MkdirAll(filepath.Join(p.HomeRoot, "dev1"), 0o755))

	res, err := p.Provision(context.Background(), UserSpec{
		Username:  "dev1",
		Password:  "longenough1",
		GrantSudo: true,
	})
	require.NoError(t, err)
	assert.False(t, res.Sudoers)

	_, statErr := os.Stat(filepath.Join(p.SudoersDir, "dev1"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallPasswordlessSudo_WritesValidatedFragment(t *testing.T) {
	exec := &execx.MockExecutor{}
	p := newTestProvisioner(t, exec)

	require.NoError(t, p.InstallPasswordlessSudo(context.Background(), "dev1"))

	data, err := os.ReadFile(filepath.Join(p.SudoersDir, "dev1"))
	require.NoError(t, err)
	assert.Equal(t, "dev1 ALL=(ALL) NOPASSWD:ALL\n", string(data))

	// visudo -cf was invoked on the fragment
	var validated bool
	for _, cmd := range exec.Commands {
		if cmd[0] == "visudo" {
			validated = true
			assert.Equal(t, "-cf", cmd[1])
		}
	}
	assert.True(t, validated)
}

func TestInstallPasswordlessSudo_RollsBackOnValidationFailure(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "visudo" {
				return "syntax error near line 1", errors.New("exit status 1")
			}
			return "", nil
		},
	}
	p := newTestProvisioner(t, exec)

	err := p.InstallPasswordlessSudo(context.Background(), "dev1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSudoersRollback)

	// The fragment must not exist on disk afterward
	_, statErr := os.Stat(filepath.Join(p.SudoersDir, "dev1"))
	assert.True(t, os.IsNotExist(statErr))
}
