package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/machine-init/pkg/catalog"
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
	"github.com/jaspreet-dot-casa/machine-init/pkg/pkgmgr"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
	"github.com/jaspreet-dot-casa/machine-init/pkg/release"
)

// composeAssetArch maps GOARCH to the architecture token in Compose release
// artifact names.
var composeAssetArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "aarch64",
	"arm":   "armv7",
}

// Docker installs the Docker engine, the Compose plugin, a standalone
// Compose fallback binary, and a dispatch script preferring the plugin form.
type Docker struct {
	exec    execx.CommandExecutor
	profile platform.SystemProfile
	cat     *catalog.Catalog
	rel     *release.Client
	log     *logging.Logger

	// Users to add to the docker group after install.
	Users []string
	// ConfirmReinstall is consulted when docker is already present.
	// Nil means skip the reinstall.
	ConfirmReinstall func() (bool, error)
}

// NewDocker creates the Docker installer.
func NewDocker(exec execx.CommandExecutor, profile platform.SystemProfile, cat *catalog.Catalog, rel *release.Client, log *logging.Logger) *Docker {
	return &Docker{exec: exec, profile: profile, cat: cat, rel: rel, log: log}
}

func (d *Docker) ID() string          { return IDDocker }
func (d *Docker) Name() string        { return "Docker" }
func (d *Docker) Description() string { return "Container engine with Compose plugin and fallback" }

// IsInstalled probes for the docker binary.
func (d *Docker) IsInstalled() (bool, string) {
	path, err := d.exec.LookPath("docker")
	if err != nil {
		return false, ""
	}
	return true, path
}

func (d *Docker) Install(ctx context.Context) InstallResult {
	if present, path := d.IsInstalled(); present {
		if d.ConfirmReinstall == nil {
			return InstallResult{ID: d.ID(), Name: d.Name(), Status: StatusAlreadyPresent, Message: path}
		}
		reinstall, err := d.ConfirmReinstall()
		if err != nil {
			return failure(d.ID(), d.Name(), err)
		}
		if !reinstall {
			return InstallResult{ID: d.ID(), Name: d.Name(), Status: StatusAlreadyPresent, Message: path}
		}
	}

	if err := d.installEngine(ctx); err != nil {
		return failure(d.ID(), d.Name(), err)
	}

	if err := d.enableService(ctx); err != nil {
		return failure(d.ID(), d.Name(), err)
	}

	if err := d.grantDockerGroup(ctx); err != nil {
		return failure(d.ID(), d.Name(), err)
	}

	// The standalone fallback and dispatch script are conveniences; losing
	// them degrades to the plugin form, so failures are warnings.
	if err := d.installComposeFallback(ctx); err != nil {
		d.log.Warn("standalone compose fallback not installed: %v", err)
	}
	if err := d.installDispatchScript(ctx); err != nil {
		d.log.Warn("compose dispatch script not installed: %v", err)
	}

	return success(d.ID(), d.Name(), "engine, compose plugin, and fallback")
}

// installEngine adds the vendor repository where one exists and installs the
// engine packages. Arch and SUSE ship docker in their own repositories.
func (d *Docker) installEngine(ctx context.Context) error {
	mgr := pkgmgr.New(d.exec, d.profile)

	switch d.profile.Family {
	case platform.FamilyDebian:
		if err := d.addAptRepo(ctx, mgr); err != nil {
			return err
		}
		d.log.Info("installing docker engine and compose plugin")
		return mgr.Install(ctx, "docker-ce", "docker-ce-cli", "containerd.io", "docker-buildx-plugin", "docker-compose-plugin")

	case platform.FamilyRHEL:
		if err := d.addRHELRepo(ctx); err != nil {
			return err
		}
		d.log.Info("installing docker engine and compose plugin")
		return mgr.Install(ctx, "docker-ce", "docker-ce-cli", "containerd.io", "docker-buildx-plugin", "docker-compose-plugin")

	case platform.FamilyArch:
		d.log.Info("installing docker from distribution repositories")
		return mgr.Install(ctx, "docker", "docker-compose")

	case platform.FamilySUSE:
		d.log.Info("installing docker from distribution repositories")
		return mgr.Install(ctx, "docker", "docker-compose")

	default:
		// Unknown family runs the debian path, matching the apt fallback
		if err := d.addAptRepo(ctx, mgr); err != nil {
			return err
		}
		return mgr.Install(ctx, "docker-ce", "docker-ce-cli", "containerd.io", "docker-buildx-plugin", "docker-compose-plugin")
	}
}

// addAptRepo installs the vendor key and apt source for debian-family hosts.
func (d *Docker) addAptRepo(ctx context.Context, mgr *pkgmgr.Manager) error {
	d.log.Info("adding docker apt repository")

	if err := mgr.Install(ctx, "ca-certificates", "curl", "gnupg"); err != nil {
		return fmt.Errorf("failed to install repo prerequisites: %w", err)
	}

	distro := d.profile.Distro
	if distro != "ubuntu" && distro != "debian" {
		distro = "debian"
	}

	if err := d.runElevated(ctx, "install", "-m", "0755", "-d", "/etc/apt/keyrings"); err != nil {
		return fmt.Errorf("failed to create keyring directory: %w", err)
	}

	keyURL := fmt.Sprintf("https://download.docker.com/linux/%s/gpg", distro)
	key, err := d.exec.RunContext(ctx, "curl", "-fsSL", keyURL)
	if err != nil {
		return fmt.Errorf("failed to fetch docker gpg key: %w", err)
	}
	if err := d.writeRootFile(ctx, "/etc/apt/keyrings/docker.asc", key); err != nil {
		return fmt.Errorf("failed to install docker gpg key: %w", err)
	}

	codename, err := d.exec.RunContext(ctx, "bash", "-c", ". /etc/os-release && echo \"${VERSION_CODENAME:-$UBUNTU_CODENAME}\"")
	if err != nil {
		return fmt.Errorf("failed to resolve release codename: %w", err)
	}

	arch, err := d.exec.RunContext(ctx, "dpkg", "--print-architecture")
	if err != nil {
		return fmt.Errorf("failed to resolve dpkg architecture: %w", err)
	}

	source := fmt.Sprintf(
		"deb [arch=%s signed-by=/etc/apt/keyrings/docker.asc] https://download.docker.com/linux/%s %s stable\n",
		strings.TrimSpace(arch), distro, strings.TrimSpace(codename),
	)
	if err := d.writeRootFile(ctx, "/etc/apt/sources.list.d/docker.list", source); err != nil {
		return fmt.Errorf("failed to write docker apt source: %w", err)
	}

	return mgr.Update(ctx)
}

// addRHELRepo adds the vendor repository for dnf/yum hosts.
func (d *Docker) addRHELRepo(ctx context.Context) error {
	d.log.Info("adding docker repository")

	repoDistro := "centos"
	if d.profile.Distro == "fedora" {
		repoDistro = "fedora"
	}
	repoURL := fmt.Sprintf("https://download.docker.com/linux/%s/docker-ce.repo", repoDistro)

	if d.profile.PackageManager == platform.Dnf {
		if err := d.runElevated(ctx, "dnf", "config-manager", "--add-repo", repoURL); err != nil {
			// dnf5 renamed the plugin invocation
			return d.runElevated(ctx, "dnf", "config-manager", "addrepo", "--from-repofile="+repoURL)
		}
		return nil
	}
	return d.runElevated(ctx, "yum-config-manager", "--add-repo", repoURL)
}

// enableService starts docker and enables it at boot.
func (d *Docker) enableService(ctx context.Context) error {
	d.log.Info("enabling docker service")
	if err := d.runElevated(ctx, "systemctl", "enable", "--now", "docker"); err != nil {
		return fmt.Errorf("failed to enable docker service: %w", err)
	}
	return nil
}

// grantDockerGroup adds the configured users to the docker group.
func (d *Docker) grantDockerGroup(ctx context.Context) error {
	if len(d.Users) == 0 {
		return nil
	}
	if _, err := d.exec.Run("getent", "group", "docker"); err != nil {
		if err := d.runElevated(ctx, "groupadd", "docker"); err != nil {
			return fmt.Errorf("failed to create docker group: %w", err)
		}
	}
	for _, user := range d.Users {
		if err := d.runElevated(ctx, "usermod", "-aG", "docker", user); err != nil {
			return fmt.Errorf("failed to add %s to docker group: %w", user, err)
		}
	}
	return nil
}

// installComposeFallback resolves the latest Compose release and installs
// the architecture-matched standalone binary.
func (d *Docker) installComposeFallback(ctx context.Context) error {
	arch, ok := composeAssetArch[d.profile.Arch]
	if !ok {
		return fmt.Errorf("no compose artifact for architecture %s", d.profile.Arch)
	}

	tag, err := d.rel.LatestTag(ctx, d.cat.Compose.Repo)
	if err != nil {
		return err
	}
	d.log.Info("installing standalone compose %s", tag)

	url := fmt.Sprintf("https://github.com/%s/releases/download/%s/docker-compose-linux-%s", d.cat.Compose.Repo, tag, arch)

	tmpPath := filepath.Join("/tmp", "docker-compose-"+tag)
	if err := d.rel.Download(ctx, release.DownloadOptions{
		URL:      url,
		DestPath: tmpPath,
		Mode:     0o755,
	}); err != nil {
		return err
	}

	if err := d.runElevated(ctx, "install", "-D", "-m", "0755", tmpPath, d.cat.Compose.BinaryPath); err != nil {
		return fmt.Errorf("failed to install compose binary: %w", err)
	}
	return d.runElevated(ctx, "rm", "-f", tmpPath)
}

// installDispatchScript writes the docker-compose dispatch script that
// prefers the plugin form and falls back to the standalone binary.
func (d *Docker) installDispatchScript(ctx context.Context) error {
	script := fmt.Sprintf(`#!/bin/sh
# Dispatch to the compose plugin when available, else the standalone binary.
if docker compose version >/dev/null 2>&1; then
    exec docker compose "$@"
fi
exec %s "$@"
`, d.cat.Compose.BinaryPath)

	if err := d.writeRootFile(ctx, d.cat.Compose.DispatchPath, script); err != nil {
		return err
	}
	return d.runElevated(ctx, "chmod", "0755", d.cat.Compose.DispatchPath)
}

func (d *Docker) writeRootFile(ctx context.Context, path, content string) error {
	if d.profile.IsRoot {
		return d.exec.RunWithInput(ctx, content, "tee", path)
	}
	return d.exec.RunWithInput(ctx, content, "sudo", "tee", path)
}

func (d *Docker) runElevated(ctx context.Context, name string, args ...string) error {
	n, a := name, args
	if !d.profile.IsRoot {
		n, a = execx.Sudo(name, args...)
	}
	_, err := d.exec.RunContext(ctx, n, a...)
	return err
}
