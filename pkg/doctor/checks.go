package doctor

import (
	"regexp"
	"strings"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/pkgmgr"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

// checkTool checks if a tool is installed and gets its version.
func checkTool(exec execx.CommandExecutor, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixHint string) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixHint:     fixHint,
	}

	path, err := exec.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := exec.Run(path, versionArgs...)
	if err != nil {
		// Tool exists but version check failed - still consider it OK
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	version := extractVersion(output, versionRegex)
	if version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}

	return check
}

// extractVersion extracts a version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		regex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)
	}
	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// pkgFixHint builds an install hint using the profile's package manager.
func pkgFixHint(pm platform.PackageManager, pkg string) string {
	argv := pkgmgr.InstallArgs(pm, pkg)
	if len(argv) == 0 {
		return ""
	}
	return "sudo " + strings.Join(argv, " ")
}

// CheckGit checks if git is installed.
func CheckGit(exec execx.CommandExecutor, pm platform.PackageManager) Check {
	return checkTool(
		exec,
		IDGit,
		"Git",
		"Version control",
		[]string{"--version"},
		regexp.MustCompile(`git version (\d+\.\d+\.\d+)`),
		pkgFixHint(pm, "git"),
	)
}

// CheckCurl checks if curl is installed.
func CheckCurl(exec execx.CommandExecutor, pm platform.PackageManager) Check {
	return checkTool(
		exec,
		IDCurl,
		"curl",
		"HTTP client",
		[]string{"--version"},
		regexp.MustCompile(`curl (\d+\.\d+\.\d+)`),
		pkgFixHint(pm, "curl"),
	)
}

// CheckNode checks if node is installed.
func CheckNode(exec execx.CommandExecutor, pm platform.PackageManager) Check {
	return checkTool(
		exec,
		IDNode,
		"Node.js",
		"JavaScript runtime",
		[]string{"--version"},
		regexp.MustCompile(`v(\d+\.\d+\.\d+)`),
		pkgFixHint(pm, "nodejs"),
	)
}

// CheckNpm checks if npm is installed.
func CheckNpm(exec execx.CommandExecutor, pm platform.PackageManager) Check {
	return checkTool(
		exec,
		IDNpm,
		"npm",
		"Node package manager",
		[]string{"--version"},
		regexp.MustCompile(`(\d+\.\d+\.\d+)`),
		pkgFixHint(pm, "npm"),
	)
}

// CheckClaude checks if the Claude CLI is installed.
func CheckClaude(exec execx.CommandExecutor) Check {
	return checkTool(
		exec,
		IDClaude,
		"Claude CLI",
		"AI coding assistant",
		[]string{"--version"},
		nil,
		"curl -fsSL https://claude.ai/install.sh | bash",
	)
}

// CheckDocker checks if docker is installed and the daemon is running.
func CheckDocker(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDDocker,
		Name:        "Docker",
		Description: "Container engine",
		FixHint:     "run: mcli install docker",
	}

	path, err := exec.LookPath("docker")
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := exec.Run(path, "--version")
	if err != nil {
		check.Status = StatusError
		check.Message = "installed but not working"
		return check
	}

	version := extractVersion(output, regexp.MustCompile(`Docker version (\d+\.\d+\.\d+)`))
	if version == "" {
		version = "installed"
	}

	// Daemon state is a warning, not a failure
	if out, err := exec.Run("systemctl", "is-active", "docker"); err != nil || !strings.Contains(strings.TrimSpace(out), "active") {
		check.Status = StatusWarning
		check.Message = version + " (service not running)"
		return check
	}

	check.Status = StatusOK
	check.Message = version
	return check
}

// CheckDockerCompose checks for Compose, preferring the plugin form and
// falling back to the standalone binary.
func CheckDockerCompose(exec execx.CommandExecutor) Check {
	check := Check{
		ID:          IDDockerCompose,
		Name:        "Docker Compose",
		Description: "Container orchestration",
		FixHint:     "run: mcli install docker",
	}

	composeRegex := regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

	// Plugin form: docker compose version
	if _, err := exec.LookPath("docker"); err == nil {
		if output, err := exec.Run("docker", "compose", "version"); err == nil {
			check.Status = StatusOK
			check.Message = "plugin " + extractVersion(output, composeRegex)
			return check
		}
	}

	// Standalone fallback binary
	if path, err := exec.LookPath("docker-compose"); err == nil {
		if output, err := exec.Run(path, "--version"); err == nil {
			check.Status = StatusOK
			check.Message = "standalone " + extractVersion(output, composeRegex)
			return check
		}
	}

	check.Status = StatusMissing
	check.Message = "not installed"
	return check
}
