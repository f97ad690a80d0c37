// Package preflight verifies the run's prerequisites: usable sudo, outbound
// network connectivity, and the baseline tools later steps depend on.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/pkgmgr"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// ErrNoNetwork is returned when none of the probe hosts are reachable.
var ErrNoNetwork = errors.New("no outbound network connectivity")

// ErrNoSudo is returned when sudo cannot be obtained.
var ErrNoSudo = errors.New("sudo is required but could not be obtained")

// probeHosts are probed for connectivity. Two hosts avoid a single-host
// outage looking like a dead network.
var probeHosts = []string{
	"https://github.com",
	"https://deb.debian.org",
}

// baselineTools must exist before any installer runs. Missing ones are
// installed via the package manager, the only install permitted before
// full validation completes.
var baselineTools = []string{"curl", "git"}

// Checker runs prerequisite checks against the live system.
type Checker struct {
	exec   execx.CommandExecutor
	client *http.Client
	hosts  []string
}

// NewChecker creates a Checker with the default HTTP client and probe hosts.
func NewChecker(exec execx.CommandExecutor) *Checker {
	return &Checker{
		exec:   exec,
		client: &http.Client{Timeout: 5 * time.Second},
		hosts:  probeHosts,
	}
}

// NewCheckerWithClient creates a Checker with a custom client and hosts (for testing).
func NewCheckerWithClient(exec execx.CommandExecutor, client *http.Client, hosts []string) *Checker {
	return &Checker{exec: exec, client: client, hosts: hosts}
}

// Check validates all prerequisites for the given profile. Sudo and network
// failures are fatal; missing baseline tools are installed in place.
// Returns the list of tools it had to install.
func (c *Checker) Check(ctx context.Context, profile platform.SystemProfile) ([]string, error) {
	if err := c.checkSudo(ctx, profile); err != nil {
		return nil, err
	}
	if err := c.checkNetwork(ctx); err != nil {
		return nil, err
	}
	return c.ensureBaseline(ctx, profile)
}

// checkSudo verifies privilege escalation works. Tries non-interactive sudo
// first, then a normal sudo run so a cached-credential prompt can succeed.
func (c *Checker) checkSudo(ctx context.Context, profile platform.SystemProfile) error {
	if profile.IsRoot {
		return nil
	}
	if _, err := c.exec.LookPath("sudo"); err != nil {
		return fmt.Errorf("%w: sudo binary not found", ErrNoSudo)
	}
	if _, err := c.exec.RunContext(ctx, "sudo", "-n", "true"); err == nil {
		return nil
	}
	if _, err := c.exec.RunContext(ctx, "sudo", "true"); err != nil {
		return fmt.Errorf("%w: %v", ErrNoSudo, err)
	}
	return nil
}

// checkNetwork probes the well-known hosts; a single success passes.
func (c *Checker) checkNetwork(ctx context.Context) error {
	var lastErr error
	for _, host := range c.hosts {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, host, nil)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: last error: %v", ErrNoNetwork, lastErr)
	}
	return ErrNoNetwork
}

// ensureBaseline installs any missing baseline tools.
func (c *Checker) ensureBaseline(ctx context.Context, profile platform.SystemProfile) ([]string, error) {
	var missing []string
	for _, tool := range baselineTools {
		if _, err := c.exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	mgr := pkgmgr.New(c.exec, profile)
	if err := mgr.Install(ctx, missing...); err != nil {
		return nil, fmt.Errorf("failed to install baseline tools %v: %w", missing, err)
	}
	return missing, nil
}
