// Package git provides Git integration over the git binary.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
)

// Inspector answers read-only questions about the repository enclosing a
// working directory. Every query shells out to git; nothing is cached across
// invocations.
type Inspector struct {
	gitPath string
	workDir string
}

// NewInspector creates an inspector rooted at workDir. The git binary is
// resolved lazily so callers can still ask Installed when git is absent.
func NewInspector(workDir string) *Inspector {
	return &Inspector{workDir: workDir}
}

// lookupGit resolves and caches the git binary path.
func (i *Inspector) lookupGit() (string, error) {
	if i.gitPath != "" {
		return i.gitPath, nil
	}
	path, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("git not found in PATH: %w", err)
	}
	i.gitPath = path
	return path, nil
}

// run executes a git command in the inspector's working directory and returns
// trimmed stdout. stderr is captured for error classification.
func (i *Inspector) run(ctx context.Context, args ...string) (string, string, error) {
	gitPath, err := i.lookupGit()
	if err != nil {
		return "", "", err
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = i.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return strings.TrimSpace(stdout.String()), stderr.String(), err
}

// Installed reports whether the git binary is present and runnable.
func (i *Inspector) Installed(ctx context.Context) bool {
	_, _, err := i.run(ctx, "--version")
	return err == nil
}

// IsRepository reports whether the working directory is inside a git work tree.
func (i *Inspector) IsRepository(ctx context.Context) bool {
	out, _, err := i.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Root returns the absolute path of the repository root.
func (i *Inspector) Root(ctx context.Context) (string, error) {
	out, stderr, err := i.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		if strings.Contains(strings.ToLower(stderr), "not a git repository") {
			return "", domainerrors.NewError(domainerrors.CodeValidation, "not a git repository", domainerrors.ErrNotARepository).
				WithSuggestion("run 'git init' or navigate to an existing repository")
		}
		return "", domainerrors.NewError(domainerrors.CodeGit, "could not determine repository root", fmt.Errorf("%s: %w", strings.TrimSpace(stderr), err))
	}
	return out, nil
}

// CurrentBranch returns the checked-out branch name, or empty on a detached HEAD.
func (i *Inspector) CurrentBranch(ctx context.Context) (string, error) {
	out, stderr, err := i.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", domainerrors.NewError(domainerrors.CodeGit, "could not determine current branch", fmt.Errorf("%s: %w", strings.TrimSpace(stderr), err))
	}
	return out, nil
}

// PrimaryBranch resolves the repository's main line of development, trying
// the modern name before the legacy one.
func (i *Inspector) PrimaryBranch(ctx context.Context) (string, error) {
	for _, name := range []string{"main", "master"} {
		_, _, err := i.run(ctx, "rev-parse", "--verify", "--quiet", name)
		if err == nil {
			return name, nil
		}
	}
	return "", domainerrors.NewError(domainerrors.CodeGit, "neither 'main' nor 'master' branch found", domainerrors.ErrNoPrimaryBranch).
		WithSuggestion("create a 'main' branch before bootstrapping feature workspaces")
}

// HasRemote reports whether any remote is configured.
func (i *Inspector) HasRemote(ctx context.Context) (bool, error) {
	out, stderr, err := i.run(ctx, "remote")
	if err != nil {
		return false, domainerrors.NewError(domainerrors.CodeGit, "could not list remotes", fmt.Errorf("%s: %w", strings.TrimSpace(stderr), err))
	}
	return out != "", nil
}

// Fetch refreshes remote-tracking state. Callers decide whether a missing
// remote makes this skippable; a configured remote that fails to fetch is a
// hard error.
func (i *Inspector) Fetch(ctx context.Context) error {
	_, stderr, err := i.run(ctx, "fetch")
	if err != nil {
		return domainerrors.NewError(domainerrors.CodeGit, "could not fetch from remote", fmt.Errorf("%s: %w", strings.TrimSpace(stderr), domainerrors.ErrRemoteFetchFailed)).
			WithSuggestion("check network access and remote configuration, or remove the remote")
	}
	return nil
}

// Branches returns local and remote branch short names. Duplicates are
// possible and left to the caller; the symbolic HEAD entry is dropped.
func (i *Inspector) Branches(ctx context.Context) ([]string, error) {
	out, stderr, err := i.run(ctx, "branch", "-a", "--format=%(refname:short)")
	if err != nil {
		return nil, domainerrors.NewError(domainerrors.CodeGit, "could not list branches", fmt.Errorf("%s: %w", strings.TrimSpace(stderr), err))
	}
	return splitBranchOutput(out), nil
}

// BranchExists reports whether a local branch with the given name exists.
func (i *Inspector) BranchExists(ctx context.Context, branch string) (bool, error) {
	_, _, err := i.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("failed to check branch existence: %w", err)
}

// TreeEntryExists reports whether path exists in the committed tree of branch.
func (i *Inspector) TreeEntryExists(ctx context.Context, branch, path string) (bool, error) {
	_, _, err := i.run(ctx, "cat-file", "-e", branch+":"+path)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, fmt.Errorf("failed to inspect %s:%s: %w", branch, path, err)
}

// TreeHasEntries reports whether path is a non-empty directory in the
// committed tree of branch.
func (i *Inspector) TreeHasEntries(ctx context.Context, branch, path string) (bool, error) {
	out, _, err := i.run(ctx, "ls-tree", branch+":"+path)
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect %s:%s: %w", branch, path, err)
	}
	return out != "", nil
}

// splitBranchOutput splits raw branch listing output into short names,
// dropping blank lines and the "origin/HEAD" style symbolic entries.
func splitBranchOutput(out string) []string {
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, "/HEAD") {
			continue
		}
		branches = append(branches, line)
	}
	return branches
}
