package userprov

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// ConfirmFunc asks the operator whether to reconfigure an existing account.
type ConfirmFunc func(username string) (bool, error)

// Result reports what the provisioner did.
type Result struct {
	Created      bool     // account was created this run
	Reconfigured bool     // account existed and was reconfigured
	Groups       []string // groups the user was added to
	Sudoers      bool     // passwordless sudo fragment installed
	ProfilePath  string   // shell profile that carries the managed block
}

// Provisioner creates and configures a single user account.
type Provisioner struct {
	exec    execx.CommandExecutor
	profile platform.SystemProfile

	// SudoersDir is the sudoers fragment directory, overridable in tests.
	SudoersDir string
	// HomeRoot is the parent of user home directories, overridable in tests.
	HomeRoot string
	// ConfirmReconfigure is consulted when the account already exists.
	// Nil means proceed without asking.
	ConfirmReconfigure ConfirmFunc
}

// NewProvisioner creates a Provisioner for the given profile.
func NewProvisioner(exec execx.CommandExecutor, profile platform.SystemProfile) *Provisioner {
	return &Provisioner{
		exec:       exec,
		profile:    profile,
		SudoersDir: "/etc/sudoers.d",
		HomeRoot:   "/home",
	}
}

// Exists reports whether the account already exists, probing the live
// system rather than any cached state.
func (p *Provisioner) Exists(username string) bool {
	_, err := p.exec.Run("id", "-u", username)
	return err == nil
}

// Provision drives the account flow: validate, create or reconfigure,
// grant groups, optional passwordless sudo, and the shell profile block.
// Validation must fully pass before the first mutating command runs.
func (p *Provisioner) Provision(ctx context.Context, spec UserSpec) (Result, error) {
	var res Result

	if err := spec.Validate(); err != nil {
		return res, err
	}
	defer spec.Wipe()

	if p.Exists(spec.Username) {
		if p.ConfirmReconfigure != nil {
			ok, err := p.ConfirmReconfigure(spec.Username)
			if err != nil {
				return res, err
			}
			if !ok {
				return res, nil
			}
		}
		res.Reconfigured = true
	} else {
		if err := p.createAccount(ctx, spec); err != nil {
			return res, err
		}
		res.Created = true
	}

	groups, err := p.grantGroups(ctx, spec)
	if err != nil {
		return res, err
	}
	res.Groups = groups

	if spec.PasswordlessSudo {
		if err := p.InstallPasswordlessSudo(ctx, spec.Username); err != nil {
			return res, err
		}
		res.Sudoers = true
	}

	profilePath := filepath.Join(p.HomeRoot, spec.Username, ".bashrc")
	if err := p.WriteManagedBlock(ctx, profilePath, DefaultProfileBlock(spec.Username)); err != nil {
		return res, fmt.Errorf("failed to write shell profile: %w", err)
	}
	res.ProfilePath = profilePath

	return res, nil
}

// createAccount creates the user and sets its password. The password is fed
// to chpasswd on stdin so it never appears in a process listing.
func (p *Provisioner) createAccount(ctx context.Context, spec UserSpec) error {
	if err := p.runElevated(ctx, "useradd", "-m", "-s", "/bin/bash", spec.Username); err != nil {
		return fmt.Errorf("useradd failed: %w", err)
	}

	input := spec.Username + ":" + spec.Password + "\n"
	name, args := "chpasswd", []string(nil)
	if !p.profile.IsRoot {
		name, args = execx.Sudo("chpasswd")
	}
	if err := p.exec.RunWithInput(ctx, input, name, args...); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// grantGroups adds the user to the sudo-equivalent group and, when asked,
// the docker group. Grants are additive (usermod -aG), never destructive.
func (p *Provisioner) grantGroups(ctx context.Context, spec UserSpec) ([]string, error) {
	var groups []string

	if spec.GrantSudo {
		groups = append(groups, p.profile.SudoGroup())
	}
	if spec.DockerGroup {
		if !p.groupExists("docker") {
			if err := p.runElevated(ctx, "groupadd", "docker"); err != nil {
				return nil, fmt.Errorf("failed to create docker group: %w", err)
			}
		}
		groups = append(groups, "docker")
	}

	for _, group := range groups {
		if err := p.runElevated(ctx, "usermod", "-aG", group, spec.Username); err != nil {
			return nil, fmt.Errorf("failed to add %s to group %s: %w", spec.Username, group, err)
		}
	}
	return groups, nil
}

func (p *Provisioner) groupExists(name string) bool {
	_, err := p.exec.Run("getent", "group", name)
	return err == nil
}

func (p *Provisioner) runElevated(ctx context.Context, name string, args ...string) error {
	n, a := name, args
	if !p.profile.IsRoot {
		n, a = execx.Sudo(name, args...)
	}
	_, err := p.exec.RunContext(ctx, n, a...)
	return err
}
