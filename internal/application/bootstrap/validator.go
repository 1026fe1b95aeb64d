package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
	"github.com/spork-cli/spork/internal/domain/feature"
	"github.com/spork-cli/spork/internal/infrastructure/config"
)

// Check identifiers, in chain order.
const (
	CheckGitInstalled       = "git_installed"
	CheckInsideRepository   = "inside_repository"
	CheckSpecKitPresent     = "spec_kit_present"
	CheckSpecKitInitialized = "spec_kit_initialized"
	CheckAssistantInstalled = "assistant_installed"
)

// Validator runs the fixed, ordered prerequisite chain. Each check is
// independent but the chain short-circuits on the first failure, so no
// workspace side effect can occur after a failed check.
type Validator struct {
	git       GitInspector
	assistant AssistantRunner
	specKit   config.SpecKitConfig

	// resolved while the chain runs
	snapshot *feature.RepositorySnapshot
}

// NewValidator creates a validator over the given collaborators.
func NewValidator(git GitInspector, assistant AssistantRunner, specKit config.SpecKitConfig) *Validator {
	return &Validator{git: git, assistant: assistant, specKit: specKit}
}

// namedCheck pairs a check identifier with its predicate. A predicate returns
// the check's result, or an error for infrastructure failures that are not
// themselves validation outcomes (for example a broken primary branch query).
type namedCheck struct {
	name string
	run  func(ctx context.Context) (feature.ValidationResult, error)
}

// Run executes the chain. It returns the repository snapshot resolved during
// validation, the ordered results produced so far (all passes plus at most
// one trailing failure), and the error terminating the run, if any.
func (v *Validator) Run(ctx context.Context) (*feature.RepositorySnapshot, []feature.ValidationResult, error) {
	checks := []namedCheck{
		{CheckGitInstalled, v.checkGitInstalled},
		{CheckInsideRepository, v.checkInsideRepository},
		{CheckSpecKitPresent, v.checkSpecKitPresent},
		{CheckSpecKitInitialized, v.checkSpecKitInitialized},
		{CheckAssistantInstalled, v.checkAssistantInstalled},
	}

	var results []feature.ValidationResult
	for _, chk := range checks {
		res, err := chk.run(ctx)
		if err != nil {
			return v.snapshot, results, err
		}
		results = append(results, res)
		if !res.Passed {
			return v.snapshot, results, domainerrors.NewError(domainerrors.CodeValidation, res.Message, nil).
				WithSuggestion(res.Suggestion)
		}
	}
	return v.snapshot, results, nil
}

func (v *Validator) checkGitInstalled(ctx context.Context) (feature.ValidationResult, error) {
	if !v.git.Installed(ctx) {
		return feature.Fail(CheckGitInstalled,
			"git is not installed or not in PATH",
			"install git: https://git-scm.com/downloads"), nil
	}
	return feature.Pass(CheckGitInstalled), nil
}

// checkInsideRepository verifies the working directory is in a work tree and,
// on success, resolves the full repository snapshot the later checks and the
// provisioner need.
func (v *Validator) checkInsideRepository(ctx context.Context) (feature.ValidationResult, error) {
	if !v.git.IsRepository(ctx) {
		return feature.Fail(CheckInsideRepository,
			"not in a git repository",
			"run 'git init' or navigate to an existing repository"), nil
	}

	root, err := v.git.Root(ctx)
	if err != nil {
		return feature.ValidationResult{}, err
	}
	current, err := v.git.CurrentBranch(ctx)
	if err != nil {
		return feature.ValidationResult{}, err
	}
	hasRemote, err := v.git.HasRemote(ctx)
	if err != nil {
		return feature.ValidationResult{}, err
	}
	primary, err := v.git.PrimaryBranch(ctx)
	if err != nil {
		return feature.ValidationResult{}, err
	}

	snap := &feature.RepositorySnapshot{
		Root:          root,
		CurrentBranch: current,
		HasRemote:     hasRemote,
		PrimaryBranch: primary,
	}
	if err := snap.Validate(); err != nil {
		return feature.ValidationResult{}, domainerrors.NewError(domainerrors.CodeGit, "invalid repository state", err)
	}
	v.snapshot = snap
	return feature.Pass(CheckInsideRepository), nil
}

// checkSpecKitPresent requires the Spec Kit directory at the repository root
// and rejects repositories that gitignore it, since an ignored Spec Kit can
// never reach the primary branch's committed tree.
func (v *Validator) checkSpecKitPresent(ctx context.Context) (feature.ValidationResult, error) {
	dir := filepath.Join(v.snapshot.Root, v.specKit.Dir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return feature.Fail(CheckSpecKitPresent,
			fmt.Sprintf("Spec Kit directory %s not found at repository root", v.specKit.Dir),
			"run 'specify init .' to initialize Spec Kit"), nil
	}

	if ignored, line := gitignoreContains(filepath.Join(v.snapshot.Root, ".gitignore"), v.specKit.Dir); ignored {
		return feature.Fail(CheckSpecKitPresent,
			fmt.Sprintf("Spec Kit (%s) is listed in .gitignore (%q)", v.specKit.Dir, line),
			fmt.Sprintf("remove %s from .gitignore so Spec Kit can be committed", v.specKit.Dir)), nil
	}

	return feature.Pass(CheckSpecKitPresent), nil
}

// checkSpecKitInitialized verifies the manifest file plus non-empty templates
// and scripts directories against the primary branch's committed tree, not
// the working tree, so a feature branch missing the framework locally does
// not falsely pass.
func (v *Validator) checkSpecKitInitialized(ctx context.Context) (feature.ValidationResult, error) {
	primary := v.snapshot.PrimaryBranch

	ok, err := v.git.TreeEntryExists(ctx, primary, v.specKit.ManifestFile)
	if err != nil {
		return feature.ValidationResult{}, domainerrors.NewError(domainerrors.CodeGit,
			fmt.Sprintf("could not verify Spec Kit on %s branch", primary), err)
	}
	if !ok {
		return feature.Fail(CheckSpecKitInitialized,
			fmt.Sprintf("Spec Kit manifest %s not found on %s branch", v.specKit.ManifestFile, primary),
			fmt.Sprintf("initialize Spec Kit and commit it to the %s branch", primary)), nil
	}

	for _, dir := range []string{v.specKit.TemplatesDir, v.specKit.ScriptsDir} {
		ok, err := v.git.TreeHasEntries(ctx, primary, dir)
		if err != nil {
			return feature.ValidationResult{}, domainerrors.NewError(domainerrors.CodeGit,
				fmt.Sprintf("could not verify Spec Kit structure on %s branch", primary), err)
		}
		if !ok {
			return feature.Fail(CheckSpecKitInitialized,
				fmt.Sprintf("Spec Kit incomplete on %s branch (%s missing)", primary, dir),
				fmt.Sprintf("run 'specify init .' and commit to the %s branch", primary)), nil
		}
	}

	return feature.Pass(CheckSpecKitInitialized), nil
}

func (v *Validator) checkAssistantInstalled(ctx context.Context) (feature.ValidationResult, error) {
	if !v.assistant.Installed(ctx) {
		return feature.Fail(CheckAssistantInstalled,
			"assistant CLI not found in PATH",
			"install the assistant CLI or add it to PATH"), nil
	}
	return feature.Pass(CheckAssistantInstalled), nil
}

// gitignoreContains reports whether the gitignore file at path carries an
// entry covering dir, returning the matching line.
func gitignoreContains(path, dir string) (bool, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, ""
	}
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == dir || line == dir+"/" || line == dir+"/*" || strings.HasPrefix(line, dir+"/") {
			return true, line
		}
	}
	return false, ""
}
