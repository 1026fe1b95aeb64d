package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
)

// WorktreeManager creates git worktrees. The git binary is resolved lazily
// so construction succeeds even before the prerequisite chain has verified
// that git is installed.
type WorktreeManager struct {
	gitPath string
}

// NewWorktreeManager creates a new worktree manager.
func NewWorktreeManager() *WorktreeManager {
	return &WorktreeManager{}
}

func (wm *WorktreeManager) lookupGit() (string, error) {
	if wm.gitPath != "" {
		return wm.gitPath, nil
	}
	path, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("git not found in PATH: %w", err)
	}
	wm.gitPath = path
	return path, nil
}

// Create materializes a new worktree at path on a new branch based at base.
// On failure nothing is cleaned up; a partially created worktree is left for
// manual inspection because removing it could destroy concurrent work.
func (wm *WorktreeManager) Create(ctx context.Context, repoRoot, path, branch, base string) error {
	if repoRoot == "" {
		return fmt.Errorf("repository path is required")
	}
	if path == "" {
		return fmt.Errorf("worktree path is required")
	}
	if branch == "" {
		return fmt.Errorf("branch name is required")
	}
	if base == "" {
		return fmt.Errorf("base branch is required")
	}

	gitPath, err := wm.lookupGit()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, gitPath, "worktree", "add", path, "-b", branch, base)
	cmd.Dir = repoRoot

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return classifyWorktreeError(stderr.String(), err)
	}
	return nil
}

// classifyWorktreeError maps git's stderr onto domain error kinds, surfacing
// the backend text as-is alongside the classification.
func classifyWorktreeError(stderr string, cause error) error {
	detail := strings.TrimSpace(stderr)
	lower := strings.ToLower(detail)

	switch {
	case strings.Contains(lower, "already exists"):
		return domainerrors.NewError(domainerrors.CodeGit,
			fmt.Sprintf("branch or worktree already exists: %s", detail),
			domainerrors.ErrNameCollision).
			WithSuggestion("another invocation may have taken this feature number; rerun spork")
	case strings.Contains(lower, "permission denied"):
		return domainerrors.NewError(domainerrors.CodeGit,
			fmt.Sprintf("permission denied: %s", detail),
			domainerrors.ErrPermissionDenied)
	default:
		return domainerrors.NewError(domainerrors.CodeGit,
			fmt.Sprintf("git worktree creation failed: %s", detail), cause)
	}
}
