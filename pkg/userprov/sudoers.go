package userprov

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSudoersRollback is returned when a freshly written sudoers fragment
// fails validation and has been removed again. A malformed fragment left on
// disk can lock out privilege escalation, so the file must never survive a
// failed check.
var ErrSudoersRollback = errors.New("sudoers fragment failed validation and was removed")

// InstallPasswordlessSudo writes a single-line passwordless-sudo rule to a
// per-user fragment, validates it with visudo, and rolls the file back when
// validation fails.
func (p *Provisioner) InstallPasswordlessSudo(ctx context.Context, username string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}

	path := filepath.Join(p.SudoersDir, username)
	rule := fmt.Sprintf("%s ALL=(ALL) NOPASSWD:ALL\n", username)

	if err := p.writeFragment(ctx, path, rule); err != nil {
		return fmt.Errorf("failed to write sudoers fragment: %w", err)
	}

	if err := p.runElevated(ctx, "visudo", "-cf", path); err != nil {
		if rmErr := p.removeFragment(ctx, path); rmErr != nil {
			return fmt.Errorf("%w (removal also failed: %v)", ErrSudoersRollback, rmErr)
		}
		return fmt.Errorf("%w: %v", ErrSudoersRollback, err)
	}

	return nil
}

func (p *Provisioner) writeFragment(ctx context.Context, path, rule string) error {
	if p.profile.IsRoot {
		return os.WriteFile(path, []byte(rule), 0o440)
	}
	if err := p.exec.RunWithInput(ctx, rule, "sudo", "tee", path); err != nil {
		return err
	}
	return p.runElevated(ctx, "chmod", "0440", path)
}

func (p *Provisioner) removeFragment(ctx context.Context, path string) error {
	if p.profile.IsRoot {
		return os.Remove(path)
	}
	return p.runElevated(ctx, "rm", "-f", path)
}
