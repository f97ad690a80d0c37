// Package doctor probes the live system for the tools mcli installs and
// reports their presence and versions. Results are always derived by
// re-probing, never from cached state.
package doctor

// CheckStatus represents the status of a component check.
type CheckStatus int

const (
	// StatusOK indicates the component is installed and working.
	StatusOK CheckStatus = iota
	// StatusMissing indicates the component is not installed.
	StatusMissing
	// StatusError indicates an error occurred during the check.
	StatusError
	// StatusWarning indicates the component has issues but may work.
	StatusWarning
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Check represents a single component check result.
type Check struct {
	ID          string      // Unique identifier, e.g., "docker", "claude"
	Name        string      // Display name
	Description string      // What this tool does
	Status      CheckStatus // Current status
	Message     string      // Status message (version info, error, etc.)
	FixHint     string      // How to install if missing (empty if none)
}

// CheckID constants for individual checks.
const (
	IDGit           = "git"
	IDCurl          = "curl"
	IDDocker        = "docker"
	IDDockerCompose = "docker-compose"
	IDClaude        = "claude"
	IDNode          = "node"
	IDNpm           = "npm"
)

// AllCheckIDs lists every check in display order.
var AllCheckIDs = []string{
	IDGit, IDCurl, IDDocker, IDDockerCompose, IDClaude, IDNode, IDNpm,
}
