// Package feature defines the domain model for feature workspace bootstrapping.
package feature

import (
	"fmt"
	"strings"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
)

const (
	// MaxRequestLength is the maximum accepted length of the raw feature request.
	MaxRequestLength = 500
	// MaxFragmentLength is the default maximum length of the sanitized fragment.
	MaxFragmentLength = 50
	// MaxFeatureNumber is the highest allocatable feature number.
	MaxFeatureNumber = 999
)

// Request is a user's feature request: the literal text plus the sanitized
// fragment derived from it. Construct with NewRequest; values are never
// mutated afterwards.
type Request struct {
	Text      string
	Sanitized string
}

// NewRequest validates the raw text and derives the sanitized fragment.
// The literal text is preserved as given so nothing is lost when it is later
// handed to the assistant.
func NewRequest(text string, maxFragmentLength int) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, domainerrors.NewError(domainerrors.CodeInput, "feature request is required", domainerrors.ErrEmptyRequest).
			WithSuggestion(`usage: spork "<feature request>"`)
	}
	if len(text) > MaxRequestLength {
		return Request{}, domainerrors.NewError(domainerrors.CodeInput,
			fmt.Sprintf("feature request is %d characters, maximum is %d", len(text), MaxRequestLength),
			domainerrors.ErrRequestTooLong)
	}

	sanitized := Sanitize(text, maxFragmentLength)
	if sanitized == "" {
		return Request{}, domainerrors.NewError(domainerrors.CodeInput,
			"feature request contains no characters usable in a branch name",
			domainerrors.ErrUnusableRequest).
			WithSuggestion("use letters or digits in the feature request")
	}

	return Request{Text: text, Sanitized: sanitized}, nil
}

// ValidationResult is the outcome of a single prerequisite check. A failed
// result always carries a message; the suggestion is optional.
type ValidationResult struct {
	Check      string
	Passed     bool
	Message    string
	Suggestion string
}

// Pass returns a passing result for the named check.
func Pass(check string) ValidationResult {
	return ValidationResult{Check: check, Passed: true}
}

// Fail returns a failing result for the named check. The message is mandatory
// for failures; an empty one is replaced so the invariant holds.
func Fail(check, message, suggestion string) ValidationResult {
	if message == "" {
		message = fmt.Sprintf("check %q failed", check)
	}
	return ValidationResult{Check: check, Passed: false, Message: message, Suggestion: suggestion}
}

// RepositorySnapshot is a point-in-time view of the enclosing git repository.
// It is recomputed on every invocation and never cached across runs.
type RepositorySnapshot struct {
	Root          string
	CurrentBranch string
	HasRemote     bool
	PrimaryBranch string
}

// Validate checks the snapshot invariants.
func (s RepositorySnapshot) Validate() error {
	if s.Root == "" {
		return fmt.Errorf("repository root is required")
	}
	if s.PrimaryBranch != "main" && s.PrimaryBranch != "master" {
		return fmt.Errorf("primary branch must be 'main' or 'master', got %q", s.PrimaryBranch)
	}
	return nil
}

// Number is a feature number and its zero-padded string form. The two are
// kept consistent by construction.
type Number struct {
	Value     int
	Formatted string
}

// NewNumber builds a Number, enforcing the [1,999] range.
func NewNumber(value int) (Number, error) {
	if value < 1 || value > MaxFeatureNumber {
		return Number{}, domainerrors.NewError(domainerrors.CodeGit,
			fmt.Sprintf("feature number %d is outside [1,%d]", value, MaxFeatureNumber),
			domainerrors.ErrNumberSpaceExhausted)
	}
	return Number{Value: value, Formatted: fmt.Sprintf("%03d", value)}, nil
}

// WorkspaceConfig describes the worktree to create. It is built only after
// every validation has passed and is used exactly once.
type WorkspaceConfig struct {
	BranchName string
	Path       string
	BaseBranch string
	Number     Number
	Request    Request
}

// InvocationContext carries the state accumulated across one spork run.
type InvocationContext struct {
	WorkingDir string
	Repository *RepositorySnapshot
	Workspace  *WorkspaceConfig
	Results    []ValidationResult
}
