package bootstrap

import (
	"context"
	"fmt"

	"github.com/spork-cli/spork/internal/infrastructure/filesystem"
)

// fakeGit is a scriptable GitInspector that records every query made.
type fakeGit struct {
	installed   bool
	inRepo      bool
	root        string
	current     string
	hasRemote   bool
	primary     string
	primaryErr  error
	fetchErr    error
	branches    []string
	branchesErr error
	treeEntries map[string]bool // "branch:path" -> file exists in committed tree
	treeDirs    map[string]bool // "branch:path" -> non-empty dir in committed tree

	calls []string
}

func (f *fakeGit) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeGit) Installed(ctx context.Context) bool {
	f.record("Installed")
	return f.installed
}

func (f *fakeGit) IsRepository(ctx context.Context) bool {
	f.record("IsRepository")
	return f.inRepo
}

func (f *fakeGit) Root(ctx context.Context) (string, error) {
	f.record("Root")
	return f.root, nil
}

func (f *fakeGit) CurrentBranch(ctx context.Context) (string, error) {
	f.record("CurrentBranch")
	return f.current, nil
}

func (f *fakeGit) PrimaryBranch(ctx context.Context) (string, error) {
	f.record("PrimaryBranch")
	return f.primary, f.primaryErr
}

func (f *fakeGit) HasRemote(ctx context.Context) (bool, error) {
	f.record("HasRemote")
	return f.hasRemote, nil
}

func (f *fakeGit) Fetch(ctx context.Context) error {
	f.record("Fetch")
	return f.fetchErr
}

func (f *fakeGit) Branches(ctx context.Context) ([]string, error) {
	f.record("Branches")
	return f.branches, f.branchesErr
}

func (f *fakeGit) TreeEntryExists(ctx context.Context, branch, path string) (bool, error) {
	f.record("TreeEntryExists " + branch + ":" + path)
	return f.treeEntries[branch+":"+path], nil
}

func (f *fakeGit) TreeHasEntries(ctx context.Context, branch, path string) (bool, error) {
	f.record("TreeHasEntries " + branch + ":" + path)
	return f.treeDirs[branch+":"+path], nil
}

// fakeAssistant is a scriptable AssistantRunner.
type fakeAssistant struct {
	installed bool
	exitCode  int
	launchErr error

	launched       bool
	gotWorkDir     string
	gotInstruction string
}

func (f *fakeAssistant) Installed(ctx context.Context) bool { return f.installed }

func (f *fakeAssistant) Launch(ctx context.Context, workDir, instruction string) (int, error) {
	f.launched = true
	f.gotWorkDir = workDir
	f.gotInstruction = instruction
	return f.exitCode, f.launchErr
}

// fakeCreator is a scriptable WorktreeCreator.
type fakeCreator struct {
	err error

	created   bool
	gotRoot   string
	gotPath   string
	gotBranch string
	gotBase   string
}

func (f *fakeCreator) Create(ctx context.Context, repoRoot, path, branch, base string) error {
	f.created = true
	f.gotRoot = repoRoot
	f.gotPath = path
	f.gotBranch = branch
	f.gotBase = base
	return f.err
}

// fakeEnvCopier is a scriptable EnvCopier.
type fakeEnvCopier struct {
	result filesystem.EnvCopyResult
	err    error
	called bool
}

func (f *fakeEnvCopier) Copy(root, dest string) (filesystem.EnvCopyResult, error) {
	f.called = true
	return f.result, f.err
}

// recorder captures Reporter output for assertions.
type recorder struct {
	successes []string
	warnings  []string
}

func (r *recorder) Success(format string, args ...interface{}) {
	r.successes = append(r.successes, fmt.Sprintf(format, args...))
}

func (r *recorder) Warning(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}
