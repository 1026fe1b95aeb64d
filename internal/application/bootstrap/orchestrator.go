package bootstrap

import (
	"context"
	"os"
	"strings"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
	"github.com/spork-cli/spork/internal/domain/feature"
	"github.com/spork-cli/spork/internal/infrastructure/config"
	"github.com/spork-cli/spork/internal/infrastructure/logging"
	"github.com/spork-cli/spork/internal/infrastructure/tracing"
)

// Orchestrator sequences the bootstrap pipeline: validate, refresh remote,
// allocate, sanitize, plan, create, hand off. Linear and fail-fast; no step
// is retried or revisited, and on success the assistant's exit code is the
// pipeline's result.
type Orchestrator struct {
	cfg         *config.Config
	git         GitInspector
	validator   *Validator
	provisioner *Provisioner
	assistant   AssistantRunner
	env         EnvCopier
	out         Reporter
	log         *logging.Logger
	tracer      *tracing.Tracer
}

// NewOrchestrator wires the pipeline over its collaborators.
func NewOrchestrator(cfg *config.Config, git GitInspector, worktrees WorktreeCreator, assistant AssistantRunner, env EnvCopier, out Reporter, log *logging.Logger, tracer *tracing.Tracer) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		git:         git,
		validator:   NewValidator(git, assistant, cfg.SpecKit),
		provisioner: NewProvisioner(worktrees, cfg.Worktrees.Dir),
		assistant:   assistant,
		env:         env,
		out:         out,
		log:         log,
		tracer:      tracer,
	}
}

// Run executes the pipeline for one feature request and returns the process
// exit code to use on success (the assistant's own exit status, verbatim).
func (o *Orchestrator) Run(ctx context.Context, requestText string) (int, error) {
	if err := o.checkInput(ctx, requestText); err != nil {
		return 0, err
	}

	wd, _ := os.Getwd()
	inv := feature.InvocationContext{WorkingDir: wd}

	snap, results, err := o.validate(ctx)
	inv.Repository = snap
	inv.Results = results
	if err != nil {
		return 0, err
	}

	if err := o.refreshRemote(ctx, snap); err != nil {
		return 0, err
	}

	// Branches are listed only after the refresh so concurrently created
	// remote branches are visible to the allocator.
	branches, err := o.listBranches(ctx)
	if err != nil {
		return 0, err
	}

	num, err := o.allocate(ctx, branches)
	if err != nil {
		return 0, err
	}
	o.out.Success("next feature number: %s", num.Formatted)

	req, err := o.sanitize(ctx, requestText)
	if err != nil {
		return 0, err
	}

	wsCfg, err := o.plan(ctx, num, req, *snap, branches)
	if err != nil {
		return 0, err
	}
	inv.Workspace = &wsCfg

	o.out.Success("creating worktree at %s/%s", o.cfg.Worktrees.Dir, wsCfg.BranchName)
	if err := o.create(ctx, *snap, wsCfg); err != nil {
		return 0, err
	}
	o.log.Debug("workspace bootstrapped",
		"working_dir", inv.WorkingDir,
		"repository", inv.Repository.Root,
		"checks_passed", len(inv.Results),
		"branch", inv.Workspace.BranchName)

	o.copyEnvFiles(ctx, snap.Root, wsCfg.Path)

	o.out.Success("launching %s...", o.cfg.Assistant.Command)
	return o.launch(ctx, wsCfg)
}

// checkInput rejects missing, empty, or oversized requests before any backend
// call is made.
func (o *Orchestrator) checkInput(ctx context.Context, text string) error {
	_, span := o.tracer.StartStep(ctx, "check_input")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return domainerrors.NewError(domainerrors.CodeInput, "feature request is required", domainerrors.ErrEmptyRequest).
			WithSuggestion(`usage: spork "<feature request>"`)
	}
	if len(text) > feature.MaxRequestLength {
		return domainerrors.NewError(domainerrors.CodeInput, "feature request exceeds 500 characters", domainerrors.ErrRequestTooLong)
	}
	return nil
}

func (o *Orchestrator) validate(ctx context.Context) (*feature.RepositorySnapshot, []feature.ValidationResult, error) {
	ctx, span := o.tracer.StartStep(ctx, "validate")
	snap, results, err := o.validator.Run(ctx)
	tracing.EndStep(span, err)

	for _, res := range results {
		if !res.Passed {
			break
		}
		o.reportCheck(res.Check, snap)
	}
	if err != nil {
		failed := ""
		if n := len(results); n > 0 && !results[n-1].Passed {
			failed = results[n-1].Check
		}
		o.log.Debug("validation chain stopped", "failed_check", failed, "checks_run", len(results))
		return snap, results, err
	}
	return snap, results, nil
}

// reportCheck prints the user-facing progress line for a passed check.
func (o *Orchestrator) reportCheck(check string, snap *feature.RepositorySnapshot) {
	switch check {
	case CheckGitInstalled:
		o.out.Success("git found")
	case CheckInsideRepository:
		o.out.Success("in git repository: %s", snap.Root)
	case CheckSpecKitPresent:
		o.out.Success("Spec Kit present at repository root")
	case CheckSpecKitInitialized:
		o.out.Success("Spec Kit initialized on %s branch", snap.PrimaryBranch)
	case CheckAssistantInstalled:
		o.out.Success("%s found", o.cfg.Assistant.Command)
	}
}

// refreshRemote updates remote-tracking state. A missing remote is a warning;
// a configured remote that fails to fetch aborts the run.
func (o *Orchestrator) refreshRemote(ctx context.Context, snap *feature.RepositorySnapshot) error {
	ctx, span := o.tracer.StartStep(ctx, "refresh_remote")
	if !snap.HasRemote {
		o.out.Warning("no remote configured, skipping fetch")
		tracing.EndStep(span, nil)
		return nil
	}

	o.out.Success("fetching remote branches...")
	err := o.git.Fetch(ctx)
	tracing.EndStep(span, err)
	return err
}

func (o *Orchestrator) listBranches(ctx context.Context) ([]string, error) {
	ctx, span := o.tracer.StartStep(ctx, "list_branches")
	branches, err := o.git.Branches(ctx)
	tracing.EndStep(span, err)
	return branches, err
}

func (o *Orchestrator) allocate(ctx context.Context, branches []string) (feature.Number, error) {
	_, span := o.tracer.StartStep(ctx, "allocate_number")
	num, err := feature.AllocateNumber(branches)
	tracing.EndStep(span, err)
	if err == nil {
		o.log.Debug("allocated feature number", "number", num.Value, "branches_scanned", len(branches))
	}
	return num, err
}

func (o *Orchestrator) sanitize(ctx context.Context, text string) (feature.Request, error) {
	_, span := o.tracer.StartStep(ctx, "sanitize")
	req, err := feature.NewRequest(text, o.cfg.Naming.MaxFragmentLength)
	tracing.EndStep(span, err)
	return req, err
}

func (o *Orchestrator) plan(ctx context.Context, num feature.Number, req feature.Request, snap feature.RepositorySnapshot, branches []string) (feature.WorkspaceConfig, error) {
	_, span := o.tracer.StartStep(ctx, "plan_workspace")
	cfg, err := o.provisioner.Plan(num, req, snap, branches)
	tracing.EndStep(span, err)
	return cfg, err
}

func (o *Orchestrator) create(ctx context.Context, snap feature.RepositorySnapshot, cfg feature.WorkspaceConfig) error {
	ctx, span := o.tracer.StartStep(ctx, "create_workspace")
	err := o.provisioner.Create(ctx, snap, cfg)
	tracing.EndStep(span, err)
	return err
}

// copyEnvFiles propagates untracked env files into the fresh worktree.
// Best-effort by design: failures are reported but never abort the hand-off.
func (o *Orchestrator) copyEnvFiles(ctx context.Context, root, dest string) {
	_, span := o.tracer.StartStep(ctx, "copy_env_files")
	defer span.End()

	result, err := o.env.Copy(root, dest)
	if err != nil {
		o.out.Warning("could not copy env files: %v", err)
		return
	}
	for _, msg := range result.Errors {
		o.out.Warning("%s", msg)
	}
	if result.Copied > 0 {
		o.out.Success("copied %d env file(s) into worktree", result.Copied)
	}
	o.log.Debug("env file propagation finished",
		"discovered", result.Discovered, "copied", result.Copied, "failed", result.Failed)
}

func (o *Orchestrator) launch(ctx context.Context, cfg feature.WorkspaceConfig) (int, error) {
	ctx, span := o.tracer.StartStep(ctx, "launch_assistant")
	// The instruction embeds the literal request text, not the sanitized
	// fragment, so nothing the user typed is lost.
	code, err := o.assistant.Launch(ctx, cfg.Path, o.cfg.Instruction(cfg.Request.Text))
	tracing.EndStep(span, err)
	if err != nil {
		return 0, domainerrors.NewError(domainerrors.CodeInternal, "failed to launch assistant", err)
	}
	o.log.Debug("assistant session ended", "exit_code", code)
	return code, nil
}
