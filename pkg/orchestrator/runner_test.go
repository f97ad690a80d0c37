package orchestrator

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/machine-init/pkg/catalog"
	"github.com/jaspreet-dot-casa/machine-init/pkg/execx"
	"github.com/jaspreet-dot-casa/machine-init/pkg/installer"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
	"github.com/jaspreet-dot-casa/machine-init/pkg/platform"
)

type nopCloser struct{ bytes.Buffer }

func (n *nopCloser) Close() error { return nil }

func testLogger() *logging.Logger {
	return logging.NewWithWriters(&bytes.Buffer{}, &nopCloser{})
}

func testRunner(t *testing.T, exec execx.CommandExecutor) *Runner {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)

	profile := platform.SystemProfile{
		Distro:         "ubuntu",
		Family:         platform.FamilyDebian,
		PackageManager: platform.Apt,
		Arch:           "amd64",
		IsRoot:         true,
	}
	registry := installer.NewRegistry(exec, profile, cat, testLogger(), installer.RegistryOptions{
		ToolsDir: t.TempDir(),
	})
	return NewRunner(registry, testLogger())
}

func TestRunner_RunsSelectionInPriorityOrder(t *testing.T) {
	exec := &execx.MockExecutor{}
	r := testRunner(t, exec)
	tracker := NewProgressTracker()

	// Selection order deliberately scrambled; sysconfig has nothing
	// configured so it skips, claude resolves on PATH so it is already
	// present, base always runs.
	result := r.Run(context.Background(), []string{installer.IDSysConfig, installer.IDClaude, installer.IDBase}, tracker.Callback())

	require.Len(t, result.Results, 3)
	assert.Equal(t, installer.IDBase, result.Results[0].ID)
	assert.Equal(t, installer.IDClaude, result.Results[1].ID)
	assert.Equal(t, installer.IDSysConfig, result.Results[2].ID)

	assert.Equal(t, installer.StatusInstalled, result.Results[0].Status)
	assert.Equal(t, installer.StatusAlreadyPresent, result.Results[1].Status)
	assert.Equal(t, installer.StatusSkipped, result.Results[2].Status)

	assert.True(t, result.Success())
	assert.False(t, tracker.HasErrors())

	last := tracker.LastEvent()
	require.NotNil(t, last)
	assert.Equal(t, StageComplete, last.Stage)
	assert.Equal(t, 100, last.Percent)

	// Every component announces its idempotence probe before installing.
	var stages []Stage
	for _, e := range tracker.Events() {
		if e.Component == installer.IDBase {
			stages = append(stages, e.Stage)
		}
	}
	require.NotEmpty(t, stages)
	assert.Equal(t, StageProbing, stages[0])
	assert.Equal(t, StageInstalling, stages[1])
}

func TestRunner_CancelledContextAborts(t *testing.T) {
	exec := &execx.MockExecutor{}
	r := testRunner(t, exec)
	tracker := NewProgressTracker()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.Run(ctx, []string{installer.IDBase, installer.IDClaude}, tracker.Callback())

	assert.True(t, result.Aborted)
	assert.False(t, result.Success())
	assert.Empty(t, result.Results)
	assert.True(t, tracker.HasErrors())
	assert.Empty(t, exec.Commands, "no component runs once the context is cancelled")
}

func TestRunner_FailureDoesNotStopSiblings(t *testing.T) {
	exec := &execx.MockExecutor{
		RunFunc: func(name string, args ...string) (string, error) {
			// Index update failure takes down the base component only.
			if len(args) > 0 && args[0] == "update" {
				return "", assert.AnError
			}
			return "", nil
		},
	}
	r := testRunner(t, exec)
	tracker := NewProgressTracker()

	result := r.Run(context.Background(), []string{installer.IDBase, installer.IDClaude}, tracker.Callback())

	require.Len(t, result.Results, 2, "claude still ran after base failed")
	assert.Equal(t, installer.StatusFailed, result.Results[0].Status)
	assert.Equal(t, installer.StatusAlreadyPresent, result.Results[1].Status)

	assert.False(t, result.Success())
	require.Len(t, result.Failed(), 1)
	assert.Equal(t, installer.IDBase, result.Failed()[0].ID)
	assert.True(t, tracker.HasErrors())
}

func TestRunner_NilProgressCallback(t *testing.T) {
	exec := &execx.MockExecutor{}
	r := testRunner(t, exec)

	result := r.Run(context.Background(), []string{installer.IDClaude}, nil)
	assert.True(t, result.Success())
}

func TestSummary_HasIssuesOnFailedComponent(t *testing.T) {
	exec := &execx.MockExecutor{}
	profile := platform.SystemProfile{PackageManager: platform.Apt, IsRoot: true}

	run := &RunResult{Results: []installer.InstallResult{
		{ID: installer.IDBase, Name: "Base packages", Status: installer.StatusFailed, Message: "boom"},
	}}
	s := Summarize(exec, profile, run)
	assert.True(t, s.HasIssues())
	assert.NotEmpty(t, s.Checks)

	rendered := s.Render()
	assert.Contains(t, rendered, "Base packages")
	assert.Contains(t, rendered, "Verification")
}

// An interrupted run is an issue even when nothing failed and every tool
// probes fine, otherwise Ctrl+C between components exits cleanly.
func TestSummary_HasIssuesOnAbortedRun(t *testing.T) {
	s := Summary{
		Results: []installer.InstallResult{
			{ID: installer.IDBase, Name: "Base packages", Status: installer.StatusInstalled},
		},
		Aborted: true,
	}
	assert.True(t, s.HasIssues())
	assert.Contains(t, s.Render(), "aborted")
}
