package platform

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
)

const osReleasePath = "/etc/os-release"

// Detector resolves the host SystemProfile. File reading is injectable for tests.
type Detector struct {
	exec     execx.CommandExecutor
	readFile func(string) ([]byte, error)
}

// NewDetector creates a Detector backed by the given executor.
func NewDetector(exec execx.CommandExecutor) *Detector {
	return &Detector{
		exec:     exec,
		readFile: os.ReadFile,
	}
}

// NewDetectorWithReader creates a Detector with a custom file reader (for testing).
func NewDetectorWithReader(exec execx.CommandExecutor, readFile func(string) ([]byte, error)) *Detector {
	return &Detector{
		exec:     exec,
		readFile: readFile,
	}
}

// Detect inspects the host and returns its SystemProfile. It fails when no
// package manager can be resolved or the resolved manager binary is absent.
// An unrecognized distribution falls back to apt; the returned warning tells
// the caller to surface that best-effort default.
func (d *Detector) Detect() (SystemProfile, string, error) {
	profile := SystemProfile{
		Arch:   runtime.GOARCH,
		IsRoot: execx.IsRoot(),
	}

	id, idLike, pretty := d.identify()
	profile.Distro = id
	profile.PrettyName = pretty
	profile.Family = resolveFamily(id, idLike)

	var warning string
	if profile.Family == FamilyUnknown {
		warning = fmt.Sprintf("unrecognized distribution %q, assuming apt", id)
	}

	manager, err := d.resolveManager(profile.Family)
	if err != nil {
		return SystemProfile{}, warning, err
	}
	profile.PackageManager = manager

	return profile, warning, nil
}

// identify reads /etc/os-release, falling back to lsb_release and uname.
func (d *Detector) identify() (id, idLike, pretty string) {
	if data, err := d.readFile(osReleasePath); err == nil {
		fields := ParseOSRelease(string(data))
		return fields["ID"], fields["ID_LIKE"], fields["PRETTY_NAME"]
	}

	if out, err := d.exec.Run("lsb_release", "-si"); err == nil {
		id = strings.ToLower(strings.TrimSpace(out))
		return id, "", id
	}

	if out, err := d.exec.Run("uname", "-s"); err == nil {
		id = strings.ToLower(strings.TrimSpace(out))
		return id, "", id
	}

	return "", "", ""
}

// ParseOSRelease parses the key=value format of /etc/os-release.
func ParseOSRelease(content string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		fields[key] = value
	}
	return fields
}

// familyTable maps os-release IDs to distribution families.
var familyTable = map[string]Family{
	"debian":      FamilyDebian,
	"ubuntu":      FamilyDebian,
	"linuxmint":   FamilyDebian,
	"pop":         FamilyDebian,
	"raspbian":    FamilyDebian,
	"kali":        FamilyDebian,
	"fedora":      FamilyRHEL,
	"rhel":        FamilyRHEL,
	"centos":      FamilyRHEL,
	"rocky":       FamilyRHEL,
	"almalinux":   FamilyRHEL,
	"amzn":        FamilyRHEL,
	"ol":          FamilyRHEL,
	"arch":        FamilyArch,
	"manjaro":     FamilyArch,
	"endeavouros": FamilyArch,
	"opensuse":    FamilySUSE,
	"sles":        FamilySUSE,
	"suse":        FamilySUSE,
}

// resolveFamily resolves a family from ID, then ID_LIKE tokens.
func resolveFamily(id, idLike string) Family {
	if f, ok := lookupFamily(id); ok {
		return f
	}
	for _, like := range strings.Fields(idLike) {
		if f, ok := lookupFamily(like); ok {
			return f
		}
	}
	return FamilyUnknown
}

func lookupFamily(id string) (Family, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if f, ok := familyTable[id]; ok {
		return f, true
	}
	// openSUSE variants report IDs like "opensuse-leap" and "opensuse-tumbleweed"
	if strings.HasPrefix(id, "opensuse") {
		return FamilySUSE, true
	}
	return FamilyUnknown, false
}

// resolveManager maps a family to its package manager and verifies the
// binary exists. RHEL prefers dnf and falls back to yum on older systems.
func (d *Detector) resolveManager(family Family) (PackageManager, error) {
	switch family {
	case FamilyDebian, FamilyUnknown:
		return d.requireBinary(Apt)
	case FamilyRHEL:
		if _, err := d.exec.LookPath(Dnf.String()); err == nil {
			return Dnf, nil
		}
		return d.requireBinary(Yum)
	case FamilyArch:
		return d.requireBinary(Pacman)
	case FamilySUSE:
		return d.requireBinary(Zypper)
	default:
		return "", fmt.Errorf("no package manager mapping for family %q", family)
	}
}

func (d *Detector) requireBinary(pm PackageManager) (PackageManager, error) {
	if _, err := d.exec.LookPath(pm.String()); err != nil {
		return "", fmt.Errorf("package manager %s not found on PATH: %w", pm, err)
	}
	return pm, nil
}
