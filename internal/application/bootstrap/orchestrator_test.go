package bootstrap

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
	"github.com/spork-cli/spork/internal/infrastructure/config"
	"github.com/spork-cli/spork/internal/infrastructure/filesystem"
	"github.com/spork-cli/spork/internal/infrastructure/logging"
	"github.com/spork-cli/spork/internal/infrastructure/tracing"
)

type orchestratorFixture struct {
	git       *fakeGit
	creator   *fakeCreator
	assistant *fakeAssistant
	env       *fakeEnvCopier
	out       *recorder
	orch      *Orchestrator
}

func newFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	git := newHealthyGit(t)
	git.branches = []string{"main", "origin/main"}
	creator := &fakeCreator{}
	assistant := &fakeAssistant{installed: true}
	env := &fakeEnvCopier{}
	out := &recorder{}

	tracer, err := tracing.New(context.Background(), tracing.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	log := logging.New(logging.Config{Level: logging.LevelError, Format: logging.FormatText, Output: io.Discard})

	orch := NewOrchestrator(config.NewDefaultConfig(), git, creator, assistant, env, out, log, tracer)
	return &orchestratorFixture{git: git, creator: creator, assistant: assistant, env: env, out: out, orch: orch}
}

func TestOrchestratorHappyPath(t *testing.T) {
	f := newFixture(t)
	f.assistant.exitCode = 0

	code, err := f.orch.Run(context.Background(), "Add User Authentication")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	if !f.creator.created {
		t.Fatal("worktree was not created")
	}
	if f.creator.gotBranch != "001-add-user-authentication" {
		t.Errorf("branch = %q", f.creator.gotBranch)
	}
	if f.creator.gotBase != "main" {
		t.Errorf("base = %q", f.creator.gotBase)
	}

	if !f.assistant.launched {
		t.Fatal("assistant was not launched")
	}
	if f.assistant.gotWorkDir != f.creator.gotPath {
		t.Errorf("assistant workdir %q differs from worktree path %q", f.assistant.gotWorkDir, f.creator.gotPath)
	}
	// The instruction embeds the literal text, not the sanitized fragment.
	if f.assistant.gotInstruction != "/specify Add User Authentication" {
		t.Errorf("instruction = %q", f.assistant.gotInstruction)
	}

	if !f.env.called {
		t.Error("env files were not propagated")
	}
}

func TestOrchestratorPropagatesAssistantExitCode(t *testing.T) {
	f := newFixture(t)
	f.assistant.exitCode = 7

	code, err := f.orch.Run(context.Background(), "some feature")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
}

func TestOrchestratorRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"oversized", strings.Repeat("x", 501)},
		{"no retainable characters", "!!! ???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.orch.Run(context.Background(), tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := domainerrors.ExitCodeFor(err); code != domainerrors.ExitInput {
				t.Errorf("exit code = %d, want %d", code, domainerrors.ExitInput)
			}
			if f.creator.created {
				t.Error("worktree was created despite invalid input")
			}
			if f.assistant.launched {
				t.Error("assistant was launched despite invalid input")
			}
		})
	}
}

func TestOrchestratorValidationFailureStopsPipeline(t *testing.T) {
	f := newFixture(t)
	f.git.inRepo = false

	_, err := f.orch.Run(context.Background(), "some feature")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := domainerrors.ExitCodeFor(err); code != domainerrors.ExitValidation {
		t.Errorf("exit code = %d, want %d", code, domainerrors.ExitValidation)
	}

	for _, call := range f.git.calls {
		if call == "Fetch" || call == "Branches" {
			t.Errorf("pipeline continued past failed validation: %s", call)
		}
	}
	if f.creator.created || f.assistant.launched {
		t.Error("side effects occurred after failed validation")
	}
}

func TestOrchestratorFetchFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.git.fetchErr = domainerrors.NewError(domainerrors.CodeGit, "could not fetch from remote", domainerrors.ErrRemoteFetchFailed)

	_, err := f.orch.Run(context.Background(), "some feature")
	if !errors.Is(err, domainerrors.ErrRemoteFetchFailed) {
		t.Fatalf("expected ErrRemoteFetchFailed, got %v", err)
	}
	if code := domainerrors.ExitCodeFor(err); code != domainerrors.ExitGit {
		t.Errorf("exit code = %d, want %d", code, domainerrors.ExitGit)
	}
	if f.creator.created {
		t.Error("worktree was created despite failed fetch")
	}
}

func TestOrchestratorNoRemoteSkipsFetch(t *testing.T) {
	f := newFixture(t)
	f.git.hasRemote = false

	code, err := f.orch.Run(context.Background(), "some feature")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}

	for _, call := range f.git.calls {
		if call == "Fetch" {
			t.Error("fetch ran with no remote configured")
		}
	}
	if len(f.out.warnings) == 0 {
		t.Error("expected a warning about the missing remote")
	}
}

func TestOrchestratorAllocatesAfterFetch(t *testing.T) {
	f := newFixture(t)
	f.git.branches = []string{"001-x", "002-y", "origin/003-z"}

	_, err := f.orch.Run(context.Background(), "next one")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if f.creator.gotBranch != "004-next-one" {
		t.Errorf("branch = %q, want 004-next-one", f.creator.gotBranch)
	}

	fetchIdx, branchesIdx := -1, -1
	for i, call := range f.git.calls {
		switch call {
		case "Fetch":
			fetchIdx = i
		case "Branches":
			branchesIdx = i
		}
	}
	if fetchIdx == -1 || branchesIdx == -1 || branchesIdx < fetchIdx {
		t.Errorf("branch listing must follow the remote refresh, calls: %v", f.git.calls)
	}
}

func TestOrchestratorEnvCopyFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.env.result = filesystem.EnvCopyResult{Discovered: 2, Copied: 1, Failed: 1, Errors: []string{"failed to copy .env: boom"}}
	f.assistant.exitCode = 0

	code, err := f.orch.Run(context.Background(), "some feature")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
	if !f.assistant.launched {
		t.Error("assistant was not launched after partial env copy")
	}
	if len(f.out.warnings) == 0 {
		t.Error("expected env copy warnings")
	}
}

func TestOrchestratorCreateFailureLeavesNoCleanup(t *testing.T) {
	f := newFixture(t)
	f.creator.err = domainerrors.NewError(domainerrors.CodeGit, "branch already exists", domainerrors.ErrNameCollision)

	_, err := f.orch.Run(context.Background(), "some feature")
	if !errors.Is(err, domainerrors.ErrNameCollision) {
		t.Fatalf("expected ErrNameCollision, got %v", err)
	}
	if f.assistant.launched {
		t.Error("assistant was launched after failed worktree creation")
	}
	if f.env.called {
		t.Error("env copy ran after failed worktree creation")
	}
}
