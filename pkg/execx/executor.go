// Package execx provides command execution with an injectable executor
// so callers that probe or mutate the live system stay unit-testable.
package execx

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// CommandExecutor is an interface for executing commands, allowing for testing.
type CommandExecutor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) (string, error)
	RunContext(ctx context.Context, name string, args ...string) (string, error)
	RunWithInput(ctx context.Context, input string, name string, args ...string) error
	FileExists(path string) bool
}

// RealExecutor is the default command executor that uses the real system.
type RealExecutor struct {
	// Output, when set, receives a copy of stdout/stderr from RunContext
	// and RunWithInput. Used to duplicate command output into the run log.
	Output io.Writer
}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *RealExecutor) Run(name string, args ...string) (string, error) {
	return e.RunContext(context.Background(), name, args...)
}

// RunContext executes a command under a context and returns its output.
func (e *RealExecutor) RunContext(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if e.Output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, e.Output)
		cmd.Stderr = io.MultiWriter(&stderr, e.Output)
	}
	err := cmd.Run()
	if err != nil {
		// Some tools report version and errors on stderr
		if stderr.Len() > 0 {
			return stderr.String(), err
		}
		return stdout.String(), err
	}
	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	return output, nil
}

// RunWithInput executes a command feeding input on stdin. Used for commands
// like chpasswd that take secrets on stdin so they never appear in argv.
func (e *RealExecutor) RunWithInput(ctx context.Context, input string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewBufferString(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if e.Output != nil {
		cmd.Stderr = io.MultiWriter(&stderr, e.Output)
	}
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return &ExitError{Err: err, Stderr: stderr.String()}
		}
		return err
	}
	return nil
}

// FileExists checks if a file exists.
func (e *RealExecutor) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExitError wraps a command failure with its captured stderr.
type ExitError struct {
	Err    error
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
