package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/build"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/docker"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/util"
)

// inFlight is the build-exclusion set (spec §4.5, §5): a plain set behind
// a mutex. tryAcquire checks and inserts while holding that mutex so the
// check-and-set is atomic with respect to the set, not the records map.
type inFlight struct {
	mu  sync.Mutex
	set map[string]struct{}
}

func newInFlight() *inFlight {
	return &inFlight{set: make(map[string]struct{})}
}

// tryAcquire returns true if slug was not already present and inserts it.
func (f *inFlight) tryAcquire(slug string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.set[slug]; busy {
		return false
	}
	f.set[slug] = struct{}{}
	return true
}

func (f *inFlight) release(slug string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.set, slug)
}

// RunScheduler is the single consumer of the bounded job queue. Each job
// is dispatched to a newly spawned goroutine so unrelated slugs proceed
// concurrently, while per-slug mutual exclusion is enforced by the
// inFlight set for Deploy/Rebuild. Stop and Delete bypass the exclusion
// set: they are short-running engine calls, and delete forces removal
// regardless of build state (spec §4.5).
func (s *State) RunScheduler(ctx context.Context) {
	building := newInFlight()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			go s.dispatch(ctx, job, building)
		}
	}
}

func (s *State) dispatch(ctx context.Context, job models.Job, building *inFlight) {
	switch job.Kind {
	case models.JobDeploy:
		if !building.tryAcquire(job.Slug) {
			s.Logger.Warn("deploy already in progress", "slug", job.Slug)
			return
		}
		defer building.release(job.Slug)

		if err := s.executeDeploy(ctx, job.Slug); err != nil {
			s.Logger.Error("deploy failed", "slug", job.Slug, "error", err)
		}

	case models.JobRebuild:
		if !building.tryAcquire(job.Slug) {
			s.Logger.Warn("rebuild already in progress", "slug", job.Slug)
			return
		}
		defer building.release(job.Slug)

		if err := s.executeRebuild(ctx, job.Slug); err != nil {
			s.Logger.Error("rebuild failed", "slug", job.Slug, "error", err)
		}

	case models.JobStop:
		if err := s.Stop(ctx, job.Slug); err != nil {
			s.Logger.Error("scheduled stop failed", "slug", job.Slug, "error", err)
		}

	case models.JobDelete:
		if err := s.Delete(ctx, job.Slug); err != nil {
			s.Logger.Error("scheduled delete failed", "slug", job.Slug, "error", err)
		}
	}
}

// executeDeploy runs the Deploy procedure (spec §4.5 steps 1-5).
func (s *State) executeDeploy(ctx context.Context, slug string) error {
	record, ok := s.recordClone(slug)
	if !ok {
		return fmt.Errorf("project %q not found", slug)
	}

	repoDir := s.Paths.ProjectRepoDir(slug)
	logFile, closeLog := s.openBuildLog(slug)
	defer closeLog()

	s.Logger.Info("cloning repository", "slug", slug)
	if err := build.CloneRepo(ctx, record.RepoURL, record.Branch, repoDir, logFile); err != nil {
		return err
	}

	s.Logger.Info("building image", "slug", slug)
	recipe, err := docker.FindRecipe(repoDir)
	if err != nil {
		return err
	}
	tag := fmt.Sprintf("%s:latest", record.Container.ImageName)
	if err := s.Docker.BuildImage(ctx, repoDir, tag, recipe); err != nil {
		return err
	}

	s.Logger.Info("starting container", "slug", slug)
	containerID, err := s.Docker.CreateAndStart(ctx, record.Container.ContainerName, tag, record.Domain.HostPort, record.Domain.ContainerPort, record.Container.EnvVars, SharedNetwork)
	if err != nil {
		return err
	}
	s.Logger.Info("deployed", "slug", slug, "container", shortID(containerID), "port", record.Domain.HostPort)

	return s.touchRecord(slug)
}

// executeRebuild runs the blue-green Rebuild procedure (spec §4.5 steps 1-9).
func (s *State) executeRebuild(ctx context.Context, slug string) error {
	record, ok := s.recordClone(slug)
	if !ok {
		return fmt.Errorf("project %q not found", slug)
	}

	repoDir := s.Paths.ProjectRepoDir(slug)
	logFile, closeLog := s.openBuildLog(slug)
	defer closeLog()

	s.Logger.Info("pulling latest code", "slug", slug)
	sha, err := build.PullRepo(ctx, repoDir, record.Branch, logFile)
	if err != nil {
		return err
	}
	s.Logger.Info("latest commit", "slug", slug, "commit", shortID(sha))

	newTag := fmt.Sprintf("%s:build-%d", record.Container.ImageName, time.Now().Unix())
	s.Logger.Info("building new image", "slug", slug)
	recipe, err := docker.FindRecipe(repoDir)
	if err != nil {
		return err
	}
	if err := s.Docker.BuildImage(ctx, repoDir, newTag, recipe); err != nil {
		return err
	}

	transientContainer := record.Container.ContainerName + "-new"
	tempPort, err := findTempPort()
	if err != nil {
		return err
	}

	s.Logger.Info("starting new container (blue-green)", "slug", slug)
	if _, err := s.Docker.CreateAndStart(ctx, transientContainer, newTag, tempPort, record.Domain.ContainerPort, record.Container.EnvVars, SharedNetwork); err != nil {
		return err
	}

	time.Sleep(3 * time.Second)

	running, err := s.Docker.IsRunning(ctx, transientContainer)
	if err != nil || !running {
		_ = s.Docker.Remove(ctx, transientContainer)
		_ = s.Docker.RemoveImage(ctx, newTag)
		return fmt.Errorf("new container failed to start")
	}

	s.Logger.Info("switching to new container", "slug", slug)
	_ = s.Docker.Stop(ctx, record.Container.ContainerName)
	_ = s.Docker.Remove(ctx, record.Container.ContainerName)

	if err := s.Docker.Rename(ctx, transientContainer, record.Container.ContainerName); err != nil {
		return fmt.Errorf("rename transient container into place: %w", err)
	}

	if err := s.Docker.Tag(ctx, newTag, record.Container.ImageName, "latest"); err != nil {
		return fmt.Errorf("tag new image as latest: %w", err)
	}
	_ = s.Docker.RemoveImage(ctx, newTag)

	s.Logger.Info("rebuild complete (zero-downtime)", "slug", slug)
	return s.touchRecord(slug)
}

// touchRecord updates updated_at under the write lock and persists.
func (s *State) touchRecord(slug string) error {
	s.recordsMu.Lock()
	record, ok := s.records[slug]
	if ok {
		record.UpdatedAt = time.Now().UTC()
	}
	s.recordsMu.Unlock()
	if !ok {
		return nil
	}
	return s.Store.Save(record)
}

func (s *State) openBuildLog(slug string) (*os.File, func()) {
	dir := s.Paths.ProjectLogsDir(slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.Logger.Warn("could not create log directory", "slug", slug, "error", err)
		return nil, func() {}
	}

	path := filepath.Join(dir, "build.log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.Logger.Warn("could not open build log", "slug", slug, "error", err)
		return nil, func() {}
	}
	return file, func() { file.Close() }
}

func findTempPort() (uint16, error) {
	return util.FindAvailablePort()
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
