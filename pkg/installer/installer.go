// Package installer implements the idempotent component installers: base
// packages, Docker with Compose, the Claude CLI, dev tools, AI tool
// repositories, and system configuration. Each installer probes the live
// system for presence instead of trusting any recorded state.
package installer

import "context"

// Status is the outcome of an install attempt.
type Status string

const (
	StatusInstalled      Status = "installed"
	StatusAlreadyPresent Status = "already_present"
	StatusFailed         Status = "failed"
	StatusSkipped        Status = "skipped"
)

// InstallResult reports what a single installer did.
type InstallResult struct {
	ID      string
	Name    string
	Status  Status
	Message string
}

// Installer is a single idempotent component installer.
type Installer interface {
	// ID is the stable identifier used for selection and ordering.
	ID() string
	// Name is the display name.
	Name() string
	// Description says what the component provides.
	Description() string
	// IsInstalled probes the live system and reports presence with a
	// short detail message.
	IsInstalled() (bool, string)
	// Install performs the installation. Failures are reported in the
	// result, not returned, so one component never aborts its siblings.
	Install(ctx context.Context) InstallResult
}

// Installer identifiers, in fixed execution priority order.
const (
	IDBase      = "base"
	IDDocker    = "docker"
	IDClaude    = "claude"
	IDDevTools  = "devtools"
	IDSysConfig = "sysconfig"
	IDAITools   = "aitools"
)

// PriorityOrder is the fixed execution order. Selections always run in
// this order regardless of the order they were chosen in.
var PriorityOrder = []string{IDBase, IDDocker, IDClaude, IDDevTools, IDSysConfig, IDAITools}

func failure(id, name string, err error) InstallResult {
	return InstallResult{ID: id, Name: name, Status: StatusFailed, Message: err.Error()}
}

func success(id, name, message string) InstallResult {
	return InstallResult{ID: id, Name: name, Status: StatusInstalled, Message: message}
}
