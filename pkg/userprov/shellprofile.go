package userprov

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Sentinel comments delimiting the managed block in the shell profile.
// Re-runs replace the block in place instead of appending another copy.
const (
	blockBegin = "# >>> mcli managed block >>>"
	blockEnd   = "# <<< mcli managed block <<<"
)

// DefaultProfileBlock returns the alias and environment block written into
// the user's shell profile.
func DefaultProfileBlock(username string) string {
	return strings.Join([]string{
		"alias ll='ls -alF'",
		"alias la='ls -A'",
		"alias gs='git status'",
		"alias dc='docker compose'",
		`export PATH="$HOME/.local/bin:$PATH"`,
		fmt.Sprintf(`echo "Welcome, %s. Machine provisioned by mcli."`, username),
	}, "\n")
}

// WriteManagedBlock writes content between the sentinel markers in the file
// at path, replacing an existing block or appending a new one. The
// surrounding file content is preserved byte for byte. The target lives in
// another user's home, so reads and writes elevate like every other
// mutation when the process is not root.
func (p *Provisioner) WriteManagedBlock(ctx context.Context, path, content string) error {
	existing, err := p.readProfile(ctx, path)
	if err != nil {
		return err
	}

	block := blockBegin + "\n" + strings.TrimRight(content, "\n") + "\n" + blockEnd + "\n"
	updated := replaceOrAppend(existing, block)

	return p.writeProfile(ctx, path, updated)
}

// HasManagedBlock reports whether the profile already carries a managed block.
func (p *Provisioner) HasManagedBlock(ctx context.Context, path string) bool {
	content, err := p.readProfile(ctx, path)
	if err != nil {
		return false
	}
	return strings.Contains(content, blockBegin)
}

// readProfile returns the profile's current content, empty when the file
// does not exist yet.
func (p *Provisioner) readProfile(ctx context.Context, path string) (string, error) {
	if p.profile.IsRoot {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return "", err
		}
		return string(data), nil
	}
	if !p.exec.FileExists(path) {
		return "", nil
	}
	out, err := p.exec.RunContext(ctx, "sudo", "cat", path)
	if err != nil {
		return "", fmt.Errorf("failed to read shell profile: %w", err)
	}
	return out, nil
}

func (p *Provisioner) writeProfile(ctx context.Context, path, content string) error {
	if p.profile.IsRoot {
		return os.WriteFile(path, []byte(content), 0o644)
	}
	return p.exec.RunWithInput(ctx, content, "sudo", "tee", path)
}

func replaceOrAppend(existing, block string) string {
	start := strings.Index(existing, blockBegin)
	if start == -1 {
		if existing != "" && !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		if existing != "" {
			existing += "\n"
		}
		return existing + block
	}

	end := strings.Index(existing[start:], blockEnd)
	if end == -1 {
		// Begin marker without end marker: treat everything from the marker
		// on as the stale block.
		return existing[:start] + block
	}
	end = start + end + len(blockEnd)
	// Swallow the trailing newline of the old block
	if end < len(existing) && existing[end] == '\n' {
		end++
	}

	return existing[:start] + block + existing[end:]
}
