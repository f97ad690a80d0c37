package installer

import (
	"context"
	"fmt"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
)

const claudeInstallURL = "https://claude.ai/install.sh"

// Claude installs the Claude CLI via the vendor's remote install script.
// A failed install is reported with a manual-install hint; it never aborts
// the rest of the run.
type Claude struct {
	exec execx.CommandExecutor
	log  *logging.Logger
}

// NewClaude creates the Claude CLI installer.
func NewClaude(exec execx.CommandExecutor, log *logging.Logger) *Claude {
	return &Claude{exec: exec, log: log}
}

func (c *Claude) ID() string          { return IDClaude }
func (c *Claude) Name() string        { return "Claude CLI" }
func (c *Claude) Description() string { return "AI coding assistant command-line tool" }

// IsInstalled probes for the claude binary.
func (c *Claude) IsInstalled() (bool, string) {
	path, err := c.exec.LookPath("claude")
	if err != nil {
		return false, ""
	}
	return true, path
}

func (c *Claude) Install(ctx context.Context) InstallResult {
	if present, path := c.IsInstalled(); present {
		return InstallResult{ID: c.ID(), Name: c.Name(), Status: StatusAlreadyPresent, Message: path}
	}

	c.log.Info("running vendor install script")
	script := fmt.Sprintf("curl -fsSL %s | bash", claudeInstallURL)
	if _, err := c.exec.RunContext(ctx, "bash", "-c", script); err != nil {
		return failure(c.ID(), c.Name(), fmt.Errorf("install script failed: %w; install manually with: %s", err, script))
	}

	// Verify presence after the script claims success
	if present, path := c.IsInstalled(); present {
		return success(c.ID(), c.Name(), path)
	}
	return failure(c.ID(), c.Name(), fmt.Errorf("claude not found after install; install manually with: %s", script))
}
