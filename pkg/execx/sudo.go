package execx

import "os"

// IsRoot reports whether the current process runs as root.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// Sudo prepends sudo to a command line. Callers decide whether elevation
// is needed based on the detected profile, not the live process.
func Sudo(name string, args ...string) (string, []string) {
	return "sudo", append([]string{name}, args...)
}
