package ingestion

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// gitHead returns the HEAD commit hash of the repository containing dir,
// or an error if dir is not inside a git checkout.
func gitHead(ctx context.Context, dir string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// gitChangedFiles lists files added or modified between two commits,
// returned as absolute paths. Paths outside dir are filtered out.
func gitChangedFiles(ctx context.Context, dir, fromCommit, toCommit string) ([]string, error) {
	out, err := exec.CommandContext(ctx, "git", "-C", dir,
		"diff", "--diff-filter=AM", "--name-only", fromCommit, toCommit).Output()
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}

	root, err := gitRoot(ctx, dir)
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		abs := filepath.Join(root, line)
		if rel, err := filepath.Rel(absDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			paths = append(paths, abs)
		}
	}
	return paths, nil
}

// gitRoot returns the top-level directory of the repository containing dir.
func gitRoot(ctx context.Context, dir string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse --show-toplevel: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
