package doctor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

func aptProfile() platform.SystemProfile {
	return platform.SystemProfile{
		Distro:         "ubuntu",
		Family:         platform.FamilyDebian,
		PackageManager: platform.Apt,
	}
}

func TestCheckGit_Installed(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "git version 2.43.0", nil
		},
	}

	check := CheckGit(exec, platform.Apt)

	assert.Equal(t, IDGit, check.ID)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "2.43.0", check.Message)
}

func TestCheckGit_NotInstalled(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(string) (string, error) {
			return "", errors.New("not found")
		},
	}

	check := CheckGit(exec, platform.Apt)

	assert.Equal(t, StatusMissing, check.Status)
	assert.Equal(t, "not installed", check.Message)
	assert.Contains(t, check.FixHint, "apt-get install")
}

func TestCheckDocker_RunningDaemon(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "systemctl" {
				return "active\n", nil
			}
			return "Docker version 27.4.0, build bde2b89", nil
		},
	}

	check := CheckDocker(exec)

	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "27.4.0", check.Message)
}

func TestCheckDocker_ServiceStopped(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "systemctl" {
				return "inactive\n", errors.New("exit status 3")
			}
			return "Docker version 27.4.0, build bde2b89", nil
		},
	}

	check := CheckDocker(exec)

	assert.Equal(t, StatusWarning, check.Status)
	assert.Contains(t, check.Message, "service not running")
}

func TestCheckDockerCompose_PluginPreferred(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "docker" && len(args) > 0 && args[0] == "compose" {
				return "Docker Compose version v2.32.1", nil
			}
			return "", errors.New("unexpected")
		},
	}

	check := CheckDockerCompose(exec)

	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "plugin 2.32.1", check.Message)
}

func TestCheckDockerCompose_StandaloneFallback(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "docker-compose" {
				return "/usr/local/bin/docker-compose", nil
			}
			return "", errors.New("not found")
		},
		RunFunc: func(name string, args ...string) (string, error) {
			return "docker-compose version 2.30.0", nil
		},
	}

	check := CheckDockerCompose(exec)

	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "standalone 2.30.0", check.Message)
}

func TestCheckDockerCompose_Missing(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(string) (string, error) {
			return "", errors.New("not found")
		},
	}

	check := CheckDockerCompose(exec)
	assert.Equal(t, StatusMissing, check.Status)
}

func TestCheckClaude_VersionUnknownStillOK(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			return "", errors.New("flag not supported")
		},
	}

	check := CheckClaude(exec)

	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "installed (version unknown)", check.Message)
}

func TestCheckAllAndSummary(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "claude" || file == "docker-compose" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + file, nil
		},
		RunFunc: func(name string, args ...string) (string, error) {
			if name == "systemctl" {
				return "active", nil
			}
			if name == "docker" && len(args) > 0 && args[0] == "compose" {
				return "", errors.New("no plugin")
			}
			return "version 1.2.3", nil
		},
	}

	checker := NewCheckerWithExecutor(exec, aptProfile())
	checks := checker.CheckAll()
	assert.Len(t, checks, len(AllCheckIDs))

	summary := GetSummary(checks)
	assert.Equal(t, len(AllCheckIDs), summary.Total)
	assert.Equal(t, 2, summary.Missing) // claude and docker-compose
	assert.True(t, HasIssues(checks))
}

func TestExtractVersion_DefaultPattern(t *testing.T) {
	assert.Equal(t, "1.2.3", extractVersion("tool v1.2.3", nil))
	assert.Equal(t, "10.0", extractVersion("version 10.0", nil))
	assert.Empty(t, extractVersion("no version here", nil))
}
