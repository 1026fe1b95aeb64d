// Package filesystem provides filesystem operations for workspace provisioning.
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Directories never descended into when discovering env files.
var skippedDirs = map[string]bool{
	".git":       true,
	".worktrees": true,
}

// EnvCopyResult summarizes one env-file propagation pass.
type EnvCopyResult struct {
	Discovered int
	Copied     int
	Failed     int
	Errors     []string
}

// EnvFileCopier propagates .env* files from the main checkout into new
// worktrees. Env files hold credentials and are never committed, so a fresh
// worktree would otherwise start without them.
type EnvFileCopier struct{}

// NewEnvFileCopier creates a new env file copier.
func NewEnvFileCopier() *EnvFileCopier {
	return &EnvFileCopier{}
}

// Discover returns the repo-relative paths of all .env* files under root,
// sorted, skipping .git and .worktrees subtrees.
func (c *EnvFileCopier) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workspace path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace path is not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasPrefix(d.Name(), ".env") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover env files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// Copy copies every discovered .env* file from root into dest, preserving
// relative paths. Best-effort: individual failures are recorded in the result
// rather than aborting the pass.
func (c *EnvFileCopier) Copy(root, dest string) (EnvCopyResult, error) {
	info, err := os.Stat(dest)
	if err != nil {
		return EnvCopyResult{}, fmt.Errorf("worktree path does not exist: %w", err)
	}
	if !info.IsDir() {
		return EnvCopyResult{}, fmt.Errorf("worktree path is not a directory: %s", dest)
	}

	files, err := c.Discover(root)
	if err != nil {
		return EnvCopyResult{}, err
	}

	result := EnvCopyResult{Discovered: len(files)}
	for _, rel := range files {
		if err := copyFile(filepath.Join(root, rel), filepath.Join(dest, rel)); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to copy %s: %v", rel, err))
			continue
		}
		result.Copied++
	}
	return result, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}
