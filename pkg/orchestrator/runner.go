// Package orchestrator runs the selected component installers in priority
// order, reports progress, and verifies the result by re-probing the live
// system afterwards.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/jaspreet-dot-casa/machine-init/pkg/installer"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
)

// RunResult reports the outcome of a full run.
type RunResult struct {
	Results []installer.InstallResult
	// Aborted is set when the context was cancelled before every selected
	// component had its turn.
	Aborted bool
}

// Failed returns the results for components that failed.
func (r *RunResult) Failed() []installer.InstallResult {
	var out []installer.InstallResult
	for _, res := range r.Results {
		if res.Status == installer.StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Success reports whether every component that ran came out healthy.
func (r *RunResult) Success() bool {
	return !r.Aborted && len(r.Failed()) == 0
}

// Runner executes installers sequentially in fixed priority order.
type Runner struct {
	registry *installer.Registry
	log      *logging.Logger
}

// NewRunner creates a runner over the given registry.
func NewRunner(registry *installer.Registry, log *logging.Logger) *Runner {
	return &Runner{registry: registry, log: log}
}

// Run executes the selected installers. One component failing never stops
// its siblings; only context cancellation aborts the run, and it aborts
// between components rather than mid-install.
func (r *Runner) Run(ctx context.Context, selected []string, progress ProgressCallback) *RunResult {
	if progress == nil {
		progress = NoOpProgress
	}

	ordered := r.registry.Ordered(selected)
	result := &RunResult{Results: make([]installer.InstallResult, 0, len(ordered))}

	for i, inst := range ordered {
		if err := ctx.Err(); err != nil {
			r.log.Warn("run aborted before %s: %v", inst.ID(), err)
			result.Aborted = true
			progress(NewErrorEvent(inst.ID(), "Run aborted", err.Error(), r.percent(i, len(ordered))))
			return result
		}

		probeMsg := fmt.Sprintf("Checking %s", inst.Name())
		if present, where := inst.IsInstalled(); present && where != "" {
			probeMsg = fmt.Sprintf("%s found: %s", inst.Name(), where)
		}
		progress(NewProgressEvent(StageProbing, inst.ID(), probeMsg, r.percent(i, len(ordered))))

		progress(NewProgressEvent(StageInstalling, inst.ID(),
			fmt.Sprintf("%s: %s", inst.Name(), inst.Description()), r.percent(i, len(ordered))))
		r.log.Info("component %s starting", inst.ID())

		res := inst.Install(ctx)
		result.Results = append(result.Results, res)

		done := r.percent(i+1, len(ordered))
		switch res.Status {
		case installer.StatusFailed:
			r.log.Error("component %s failed: %s", res.ID, res.Message)
			progress(NewErrorEvent(res.ID, fmt.Sprintf("%s failed", res.Name), res.Message, done))
		case installer.StatusSkipped:
			r.log.Info("component %s skipped: %s", res.ID, res.Message)
			progress(NewProgressEvent(StageSkipped, res.ID, fmt.Sprintf("%s skipped", res.Name), done))
		case installer.StatusAlreadyPresent:
			r.log.Info("component %s already present: %s", res.ID, res.Message)
			progress(NewProgressEvent(StageDone, res.ID, fmt.Sprintf("%s already present", res.Name), done))
		default:
			r.log.Success("component %s installed: %s", res.ID, res.Message)
			progress(NewProgressEvent(StageDone, res.ID, fmt.Sprintf("%s installed", res.Name), done))
		}
	}

	progress(NewProgressEvent(StageComplete, "", "All components processed", 100))
	return result
}

func (r *Runner) percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}
