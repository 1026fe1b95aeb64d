package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
	"github.com/spork-cli/spork/internal/domain/feature"
)

// Provisioner combines an allocated number and a sanitized request into a
// workspace identifier and drives worktree creation.
type Provisioner struct {
	worktrees WorktreeCreator
	dirName   string // conventional subdirectory of the repo root, e.g. ".worktrees"
}

// NewProvisioner creates a provisioner placing worktrees under dirName.
func NewProvisioner(worktrees WorktreeCreator, dirName string) *Provisioner {
	return &Provisioner{worktrees: worktrees, dirName: dirName}
}

// Plan builds the workspace configuration and rejects identifier collisions
// up front: the identifier must not match any known local or remote branch,
// and the target directory must not exist. The eventual create call remains
// the backstop for races that slip past these checks.
func (p *Provisioner) Plan(num feature.Number, req feature.Request, snap feature.RepositorySnapshot, branches []string) (feature.WorkspaceConfig, error) {
	identifier := num.Formatted + "-" + req.Sanitized

	for _, branch := range branches {
		short := branch
		if idx := strings.LastIndex(branch, "/"); idx >= 0 {
			short = branch[idx+1:]
		}
		if short == identifier {
			return feature.WorkspaceConfig{}, domainerrors.NewError(domainerrors.CodeGit,
				fmt.Sprintf("branch %q already exists", identifier),
				domainerrors.ErrNameCollision).
				WithSuggestion("rerun spork; a concurrent invocation may have taken this number")
		}
	}

	path := filepath.Join(snap.Root, p.dirName, identifier)
	if _, err := os.Stat(path); err == nil {
		return feature.WorkspaceConfig{}, domainerrors.NewError(domainerrors.CodeGit,
			fmt.Sprintf("worktree directory %s already exists", path),
			domainerrors.ErrPathCollision).
			WithSuggestion("remove the stale directory or inspect it for unfinished work")
	}

	return feature.WorkspaceConfig{
		BranchName: identifier,
		Path:       path,
		BaseBranch: snap.PrimaryBranch,
		Number:     num,
		Request:    req,
	}, nil
}

// Create materializes the planned worktree. On failure nothing is cleaned up;
// partial state is left for manual inspection.
func (p *Provisioner) Create(ctx context.Context, snap feature.RepositorySnapshot, cfg feature.WorkspaceConfig) error {
	return p.worktrees.Create(ctx, snap.Root, cfg.Path, cfg.BranchName, cfg.BaseBranch)
}
