// Package platform detects the host distribution and resolves the package
// manager every later provisioning step uses.
package platform

// PackageManager identifies the distribution's package manager.
type PackageManager string

const (
	Apt    PackageManager = "apt"
	Dnf    PackageManager = "dnf"
	Yum    PackageManager = "yum"
	Pacman PackageManager = "pacman"
	Zypper PackageManager = "zypper"
)

// String returns the manager's binary name.
func (p PackageManager) String() string {
	return string(p)
}

// Family groups distributions that share packaging conventions.
type Family string

const (
	FamilyDebian  Family = "debian"
	FamilyRHEL    Family = "rhel"
	FamilyArch    Family = "arch"
	FamilySUSE    Family = "suse"
	FamilyUnknown Family = "unknown"
)

// SystemProfile describes the host system. It is computed once at startup,
// never re-detected mid-run, and passed by value into every installer.
type SystemProfile struct {
	Distro         string         // os-release ID, e.g. "ubuntu"
	PrettyName     string         // os-release PRETTY_NAME for display
	Family         Family         // distribution family
	PackageManager PackageManager // resolved manager
	Arch           string         // runtime.GOARCH
	IsRoot         bool           // whether the process runs as root
}

// SudoGroup returns the distribution's sudo-equivalent group.
func (p SystemProfile) SudoGroup() string {
	switch p.Family {
	case FamilyRHEL, FamilyArch, FamilySUSE:
		return "wheel"
	default:
		return "sudo"
	}
}
