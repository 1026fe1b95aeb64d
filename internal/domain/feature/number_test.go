package feature

import (
	"errors"
	"testing"

	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
)

func TestAllocateNumber(t *testing.T) {
	tests := []struct {
		name     string
		branches []string
		want     int
	}{
		{"no branches", nil, 1},
		{"no numbered branches", []string{"main", "develop", "feature/login"}, 1},
		{"local numbered branches", []string{"001-x", "002-y", "main"}, 3},
		{"remote prefix stripped", []string{"001-x", "002-y", "origin/003-z"}, 4},
		{"gaps take max plus one", []string{"001-a", "007-b"}, 8},
		{"duplicates across local and remote", []string{"004-a", "origin/004-a"}, 5},
		{"two digit prefix ignored", []string{"42-short", "main"}, 1},
		{"four digit prefix ignored", []string{"0042-long"}, 1},
		{"prefix without hyphen ignored", []string{"123abc"}, 1},
		{"number mid-name ignored", []string{"feature-001-x"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AllocateNumber(tt.branches)
			if err != nil {
				t.Fatalf("AllocateNumber() error: %v", err)
			}
			if got.Value != tt.want {
				t.Errorf("AllocateNumber() = %d, want %d", got.Value, tt.want)
			}
		})
	}
}

func TestAllocateNumberFormatted(t *testing.T) {
	got, err := AllocateNumber(nil)
	if err != nil {
		t.Fatalf("AllocateNumber() error: %v", err)
	}
	if got.Formatted != "001" {
		t.Errorf("Formatted = %q, want %q", got.Formatted, "001")
	}

	got, err = AllocateNumber([]string{"041-a"})
	if err != nil {
		t.Fatalf("AllocateNumber() error: %v", err)
	}
	if got.Formatted != "042" {
		t.Errorf("Formatted = %q, want %q", got.Formatted, "042")
	}
}

func TestAllocateNumberExhausted(t *testing.T) {
	_, err := AllocateNumber([]string{"999-last"})
	if err == nil {
		t.Fatal("expected error when number space is exhausted")
	}
	if !errors.Is(err, domainerrors.ErrNumberSpaceExhausted) {
		t.Errorf("expected ErrNumberSpaceExhausted, got %v", err)
	}
	if code := domainerrors.ExitCodeFor(err); code != domainerrors.ExitGit {
		t.Errorf("expected exit code %d, got %d", domainerrors.ExitGit, code)
	}
}

func TestAllocateNumberIdempotent(t *testing.T) {
	branches := []string{"001-x", "origin/002-y", "main", "002-y"}
	first, err := AllocateNumber(branches)
	if err != nil {
		t.Fatalf("AllocateNumber() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := AllocateNumber(branches)
		if err != nil {
			t.Fatalf("AllocateNumber() error: %v", err)
		}
		if again != first {
			t.Errorf("allocation not idempotent: first %v, run %d got %v", first, i, again)
		}
	}
}
