package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	"github.com/jaspreet-dot-casa/machine-init/pkg/catalog"
	"github.com/jaspreet-dot-casa/machine-init/pkg/logging"
)

// AITools clones the catalog's AI tool repositories into the tools
// directory, pulling updates for clones that already exist. Every repo is
// best-effort: a failed clone is a warning, not a component failure.
type AITools struct {
	cat *catalog.Catalog
	log *logging.Logger

	// ToolsDir is the clone destination root, e.g. ~/tools.
	ToolsDir string
}

// NewAITools creates the AI tools installer cloning under toolsDir.
func NewAITools(cat *catalog.Catalog, log *logging.Logger, toolsDir string) *AITools {
	return &AITools{cat: cat, log: log, ToolsDir: toolsDir}
}

func (a *AITools) ID() string          { return IDAITools }
func (a *AITools) Name() string        { return "AI tool repositories" }
func (a *AITools) Description() string { return "Clones of optional AI tooling projects" }

// IsInstalled reports presence when every catalog repo already has a clone.
func (a *AITools) IsInstalled() (bool, string) {
	for _, repo := range a.cat.ToolRepos {
		if _, err := os.Stat(filepath.Join(a.ToolsDir, repo.Name, ".git")); err != nil {
			return false, ""
		}
	}
	return true, a.ToolsDir
}

func (a *AITools) Install(ctx context.Context) InstallResult {
	if err := os.MkdirAll(a.ToolsDir, 0o755); err != nil {
		return failure(a.ID(), a.Name(), fmt.Errorf("failed to create tools directory: %w", err))
	}

	var cloned, updated, failed int
	for _, repo := range a.cat.ToolRepos {
		dest := filepath.Join(a.ToolsDir, repo.Name)
		switch err := a.cloneOrPull(ctx, repo, dest); {
		case err == nil:
			cloned++
		case errors.Is(err, git.NoErrAlreadyUpToDate), errors.Is(err, errUpdated):
			updated++
		default:
			a.log.Warn("repo %s: %v", repo.Name, err)
			failed++
		}
	}

	total := len(a.cat.ToolRepos)
	if failed == total && total > 0 {
		return failure(a.ID(), a.Name(), fmt.Errorf("all %d repositories failed", total))
	}
	return success(a.ID(), a.Name(), fmt.Sprintf("%d cloned, %d updated, %d failed", cloned, updated, failed))
}

// errUpdated marks an existing clone that was pulled successfully.
var errUpdated = errors.New("updated existing clone")

func (a *AITools) cloneOrPull(ctx context.Context, repo catalog.ToolRepo, dest string) error {
	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		return a.pull(ctx, dest)
	}

	a.log.Info("cloning %s", repo.URL)
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:   repo.URL,
		Depth: 1,
	})
	if err != nil {
		return fmt.Errorf("clone failed: %w", err)
	}
	return nil
}

func (a *AITools) pull(ctx context.Context, dest string) error {
	r, err := git.PlainOpen(dest)
	if err != nil {
		return fmt.Errorf("open failed: %w", err)
	}
	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("worktree failed: %w", err)
	}

	a.log.Info("updating %s", filepath.Base(dest))
	err = w.PullContext(ctx, &git.PullOptions{})
	if err == nil {
		return errUpdated
	}
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return git.NoErrAlreadyUpToDate
	}
	return fmt.Errorf("pull failed: %w", err)
}
