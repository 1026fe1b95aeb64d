// Package bootstrap implements the validation-and-provisioning pipeline:
// prerequisite checks, feature number allocation, worktree creation, and the
// assistant hand-off.
package bootstrap

import (
	"context"

	"github.com/spork-cli/spork/internal/infrastructure/filesystem"
)

// GitInspector is the read-only view of the version-control backend the
// pipeline depends on.
type GitInspector interface {
	Installed(ctx context.Context) bool
	IsRepository(ctx context.Context) bool
	Root(ctx context.Context) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	PrimaryBranch(ctx context.Context) (string, error)
	HasRemote(ctx context.Context) (bool, error)
	Fetch(ctx context.Context) error
	Branches(ctx context.Context) ([]string, error)
	TreeEntryExists(ctx context.Context, branch, path string) (bool, error)
	TreeHasEntries(ctx context.Context, branch, path string) (bool, error)
}

// WorktreeCreator materializes a new worktree on a new branch.
type WorktreeCreator interface {
	Create(ctx context.Context, repoRoot, path, branch, base string) error
}

// AssistantRunner starts the external assistant and blocks for the session.
type AssistantRunner interface {
	Installed(ctx context.Context) bool
	Launch(ctx context.Context, workDir, instruction string) (int, error)
}

// EnvCopier propagates untracked env files into a new worktree.
type EnvCopier interface {
	Copy(root, dest string) (filesystem.EnvCopyResult, error)
}

// Reporter receives user-facing progress lines. The CLI formatter satisfies
// this; tests use a recorder.
type Reporter interface {
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
}
