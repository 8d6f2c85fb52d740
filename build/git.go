// Package build implements the VCS half of the Build Pipeline (C3):
// cloning and pulling a project's repository. Recipe lookup and image
// construction live in the docker package, since both need the Docker SDK
// handle; this package only shells out to the system git binary, mirroring
// the teacher's build2/git_clone.go idiom.
package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CloneRepo performs a shallow, single-branch clone of repoURL into
// destDir, routing combined stdout/stderr to logWriter.
func CloneRepo(ctx context.Context, repoURL, branch, destDir string, logWriter io.Writer) error {
	cmd := exec.CommandContext(ctx, "git", "clone",
		"--branch", branch,
		"--single-branch",
		"--depth", "1",
		repoURL, destDir,
	)
	cmd.Stdout = logWriter
	cmd.Stderr = logWriter

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

// PullRepo fast-forwards the tracked branch in an existing checkout and
// returns the resulting HEAD commit SHA.
func PullRepo(ctx context.Context, repoDir, branch string, logWriter io.Writer) (string, error) {
	pull := exec.CommandContext(ctx, "git", "pull", "origin", branch)
	pull.Dir = repoDir
	pull.Stdout = logWriter
	pull.Stderr = logWriter
	if err := pull.Run(); err != nil {
		return "", fmt.Errorf("git pull failed: %w", err)
	}

	revParse := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	revParse.Dir = repoDir
	var out bytes.Buffer
	revParse.Stdout = &out
	revParse.Stderr = logWriter
	if err := revParse.Run(); err != nil {
		return "", fmt.Errorf("git rev-parse HEAD failed: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}
