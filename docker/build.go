package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/build"
)

// recipeCandidates lists the Dockerfile names looked for, in priority
// order, matching the reference implementation's find_dockerfile.
var recipeCandidates = []string{"Dockerfile", "dockerfile", "Dockerfile.prod"}

// ErrNoRecipe is returned when none of recipeCandidates exists in a
// checked-out repository.
var ErrNoRecipe = fmt.Errorf("no Dockerfile found in repository")

// FindRecipe returns the path (relative to projectDir) of the first
// Dockerfile candidate present, or ErrNoRecipe.
func FindRecipe(projectDir string) (string, error) {
	for _, candidate := range recipeCandidates {
		if _, err := os.Stat(filepath.Join(projectDir, candidate)); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNoRecipe
}

// BuildImage packages projectDir into a tar build context (recursive, no
// filters) and submits it to the engine's native image builder. Streamed
// build events are surfaced as info-level log lines; an event carrying a
// non-empty error field aborts the build.
func (dockerClient *DockerClient) BuildImage(ctx context.Context, projectDir, imageTag, dockerfile string) error {
	buildContext, err := createBuildContext(projectDir)
	if err != nil {
		return err
	}

	resp, err := dockerClient.sdk.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags:        []string{imageTag},
		Dockerfile:  dockerfile,
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("submit image build %s: %w", imageTag, err)
	}
	defer resp.Body.Close()

	return streamBuildOutput(resp.Body, dockerClient.logger)
}

type buildStreamEvent struct {
	Stream string `json:"stream"`
	Error  string `json:"error"`
}

func streamBuildOutput(r io.Reader, logger *slog.Logger) error {
	decoder := json.NewDecoder(r)
	for {
		var event buildStreamEvent
		if err := decoder.Decode(&event); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read build output: %w", err)
		}

		if msg := trimNewline(event.Stream); msg != "" {
			logger.Info(msg)
		}
		if event.Error != "" {
			return fmt.Errorf("build failed: %s", event.Error)
		}
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// createBuildContext tars the project directory recursively, rejecting
// nothing beyond what os.Stat/walk naturally skips (the whole working
// tree, .git included, becomes the build context — callers typically rely
// on a .dockerignore checked into the repository to trim it, same as a
// standard `docker build .` invocation would).
func createBuildContext(projectDir string) (io.Reader, error) {
	var buf bytes.Buffer
	writer := tar.NewWriter(&buf)

	err := filepath.WalkDir(projectDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(projectDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)

		if err := writer.WriteHeader(header); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create build context from %s: %w", projectDir, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize build context tar: %w", err)
	}

	return &buf, nil
}
