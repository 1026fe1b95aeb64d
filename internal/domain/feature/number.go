package feature

import (
	"regexp"
	"strconv"
	"strings"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
)

// numberedBranch matches a leading exactly-3-digit prefix followed by a hyphen.
var numberedBranch = regexp.MustCompile(`^(\d{3})-`)

// AllocateNumber derives the next unused feature number from the given branch
// names (local and remote, in any order, duplicates allowed). Remote prefixes
// like "origin/" are stripped before matching. The result is one past the
// highest matched prefix, or 1 when nothing matches.
//
// Callers must refresh remote state before allocating so branches created
// concurrently on the shared remote are visible; this narrows the collision
// window but does not close it, and the eventual worktree creation is the
// collision backstop.
func AllocateNumber(branches []string) (Number, error) {
	max := 0
	for _, branch := range branches {
		short := branch
		if idx := strings.LastIndex(branch, "/"); idx >= 0 {
			short = branch[idx+1:]
		}
		m := numberedBranch.FindStringSubmatch(short)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	next := max + 1
	if next > MaxFeatureNumber {
		return Number{}, domainerrors.NewError(domainerrors.CodeGit,
			"all 999 feature numbers are taken",
			domainerrors.ErrNumberSpaceExhausted).
			WithSuggestion("delete or renumber old feature branches to free up the number space")
	}
	return NewNumber(next)
}
