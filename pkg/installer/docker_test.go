package installer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
	"github.com/jaspreet-dot-casa/machine-init/pkg/release"
)

// offlineReleaseClient returns a client whose every request fails, so the
// compose fallback path degrades instead of reaching the network.
func offlineReleaseClient(t *testing.T) *release.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return release.NewClientWithBase(srv.Client(), srv.URL)
}

func newTestDocker(t *testing.T, exec *execx.MockExecutor, profile platform.SystemProfile) *Docker {
	t.Helper()
	return NewDocker(exec, profile, mustCatalog(t), offlineReleaseClient(t), testLogger())
}

func TestDocker_AlreadyPresentWithoutConfirm(t *testing.T) {
	exec := &execx.MockExecutor{}
	d := newTestDocker(t, exec, ubuntuProfile())

	res := d.Install(context.Background())
	assert.Equal(t, StatusAlreadyPresent, res.Status)
	assert.Equal(t, "/usr/bin/docker", res.Message)
	assert.Empty(t, exec.Commands)
}

func TestDocker_AlreadyPresentConfirmDeclined(t *testing.T) {
	exec := &execx.MockExecutor{}
	d := newTestDocker(t, exec, ubuntuProfile())
	d.ConfirmReinstall = func() (bool, error) { return false, nil }

	res := d.Install(context.Background())
	assert.Equal(t, StatusAlreadyPresent, res.Status)
	assert.Empty(t, exec.Commands)
}

func TestDocker_DebianEngineInstall(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(string) (string, error) {
			return "", errors.New("not found")
		},
		RunFunc: func(name string, args ...string) (string, error) {
			switch name {
			case "bash":
				return "noble\n", nil
			case "dpkg":
				return "amd64\n", nil
			}
			return "", nil
		},
	}
	d := newTestDocker(t, exec, ubuntuProfile())

	res := d.Install(context.Background())
	require.Equal(t, StatusInstalled, res.Status, res.Message)

	var joined []string
	for _, cmd := range exec.Commands {
		joined = append(joined, strings.Join(cmd, " "))
	}
	all := strings.Join(joined, "\n")
	assert.Contains(t, all, "install -m 0755 -d /etc/apt/keyrings")
	assert.Contains(t, all, "curl -fsSL https://download.docker.com/linux/ubuntu/gpg")
	assert.Contains(t, all, "tee /etc/apt/sources.list.d/docker.list")
	assert.Contains(t, all, "docker-ce docker-ce-cli containerd.io docker-buildx-plugin docker-compose-plugin")
	assert.Contains(t, all, "systemctl enable --now docker")
}

func TestDocker_AptSourceUsesResolvedCodenameAndArch(t *testing.T) {
	var sourceLine string
	exec := &execx.MockExecutor{
		LookPathFunc: func(string) (string, error) {
			return "", errors.New("not found")
		},
		RunFunc: func(name string, args ...string) (string, error) {
			switch name {
			case "bash":
				return "trixie\n", nil
			case "dpkg":
				return "arm64\n", nil
			}
			return "", nil
		},
		RunWithInputFunc: func(input string, name string, args ...string) error {
			if len(args) > 0 && args[len(args)-1] == "/etc/apt/sources.list.d/docker.list" {
				sourceLine = input
			}
			return nil
		},
	}
	profile := ubuntuProfile()
	profile.Distro = "debian"
	profile.Arch = "arm64"
	d := newTestDocker(t, exec, profile)

	res := d.Install(context.Background())
	require.Equal(t, StatusInstalled, res.Status, res.Message)
	assert.Contains(t, sourceLine, "arch=arm64")
	assert.Contains(t, sourceLine, "https://download.docker.com/linux/debian trixie stable")
}

func TestDocker_ArchUsesDistroPackages(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(string) (string, error) {
			return "", errors.New("not found")
		},
	}
	profile := platform.SystemProfile{
		Distro:         "arch",
		Family:         platform.FamilyArch,
		PackageManager: platform.Pacman,
		Arch:           "amd64",
		IsRoot:         true,
	}
	d := newTestDocker(t, exec, profile)

	res := d.Install(context.Background())
	require.Equal(t, StatusInstalled, res.Status, res.Message)

	var all []string
	for _, cmd := range exec.Commands {
		all = append(all, strings.Join(cmd, " "))
	}
	assert.Contains(t, strings.Join(all, "\n"), "pacman -S --noconfirm --needed docker docker-compose")
	assert.NotContains(t, strings.Join(all, "\n"), "keyrings")
}

func TestDocker_GrantsGroupToUsers(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(string) (string, error) {
			return "", errors.New("not found")
		},
		RunFunc: func(name string, args ...string) (string, error) {
			switch name {
			case "bash":
				return "noble\n", nil
			case "dpkg":
				return "amd64\n", nil
			}
			return "", nil
		},
	}
	d := newTestDocker(t, exec, ubuntuProfile())
	d.Users = []string{"dev"}

	res := d.Install(context.Background())
	require.Equal(t, StatusInstalled, res.Status, res.Message)
	assert.Contains(t, exec.Commands, []string{"usermod", "-aG", "docker", "dev"})
}

func TestDocker_NonRootElevatesServiceEnable(t *testing.T) {
	exec := &execx.MockExecutor{
		LookPathFunc: func(string) (string, error) {
			return "", errors.New("not found")
		},
		RunFunc: func(name string, args ...string) (string, error) {
			switch name {
			case "bash":
				return "noble\n", nil
			case "dpkg":
				return "amd64\n", nil
			}
			return "", nil
		},
	}
	profile := ubuntuProfile()
	profile.IsRoot = false
	d := newTestDocker(t, exec, profile)

	res := d.Install(context.Background())
	require.Equal(t, StatusInstalled, res.Status, res.Message)
	assert.Contains(t, exec.Commands, []string{"sudo", "systemctl", "enable", "--now", "docker"})
}
