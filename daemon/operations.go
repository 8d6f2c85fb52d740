package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/store"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/util"
)

// ErrProjectNotFound mirrors store.ErrProjectNotFound for callers that only
// import daemon, so HTTP handlers can do a single errors.Is check.
var ErrProjectNotFound = store.ErrProjectNotFound

// ErrProjectAlreadyExists is returned by Deploy when the derived slug
// already has a record.
var ErrProjectAlreadyExists = errors.New("project already exists")

// DeployRequest is the input to Deploy, mirroring the reference's
// DeployRequest (spec §6, §4.4).
type DeployRequest struct {
	RepoURL       string
	Branch        string
	NetworkMode   models.NetworkMode
	Hostname      string
	ContainerPort uint16
	EnvVars       map[string]string
}

// DeployResponse is the descriptor returned on successful deploy.
type DeployResponse struct {
	Slug       string
	Name       string
	URL        string
	WebhookURL string
	HostPort   uint16
}

// Deploy derives the project name/slug from the repo URL, rejects
// duplicate slugs, allocates a host port, persists a new record, inserts
// it into the in-memory map, and enqueues a Deploy job. Per the ordering
// guarantee in spec §5, insertion into the map happens before enqueue,
// which happens before the scheduler can pick the job up.
func (s *State) Deploy(ctx context.Context, req DeployRequest) (*DeployResponse, error) {
	name := util.RepoName(req.RepoURL)
	slug := util.Slugify(name)

	s.recordsMu.RLock()
	_, exists := s.records[slug]
	s.recordsMu.RUnlock()
	if exists {
		return nil, ErrProjectAlreadyExists
	}

	branch := req.Branch
	if branch == "" {
		branch = "main"
	}

	hostPort, err := util.FindAvailablePort()
	if err != nil {
		return nil, fmt.Errorf("allocate host port: %w", err)
	}

	record := newRecord(name, slug, req.RepoURL, branch, req.NetworkMode, req.Hostname, req.ContainerPort, hostPort)
	if req.EnvVars != nil {
		record.Container.EnvVars = req.EnvVars
	}

	if err := s.Store.Save(record); err != nil {
		return nil, fmt.Errorf("persist new project %s: %w", slug, err)
	}

	s.recordsMu.Lock()
	s.records[slug] = record
	s.recordsMu.Unlock()

	s.enqueue(models.Job{Kind: models.JobDeploy, Slug: slug})

	url := recordURL(record)

	return &DeployResponse{
		Slug:       slug,
		Name:       name,
		URL:        url,
		WebhookURL: s.WebhookURL(slug),
		HostPort:   hostPort,
	}, nil
}

// Rebuild enqueues a Rebuild job and returns immediately.
func (s *State) Rebuild(slug string) error {
	s.recordsMu.RLock()
	_, exists := s.records[slug]
	s.recordsMu.RUnlock()
	if !exists {
		return ErrProjectNotFound
	}

	s.enqueue(models.Job{Kind: models.JobRebuild, Slug: slug})
	return nil
}

// Start synchronously starts a stopped container by its mapped name.
func (s *State) Start(ctx context.Context, slug string) error {
	record, ok := s.recordClone(slug)
	if !ok {
		return ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := s.Docker.StartExisting(ctx, record.Container.ContainerName); err != nil {
		return fmt.Errorf("start project %s: %w", slug, err)
	}
	return nil
}

// Stop synchronously stops a running container by its mapped name.
func (s *State) Stop(ctx context.Context, slug string) error {
	record, ok := s.recordClone(slug)
	if !ok {
		return ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := s.Docker.Stop(ctx, record.Container.ContainerName); err != nil {
		return fmt.Errorf("stop project %s: %w", slug, err)
	}
	return nil
}

// Delete best-effort stops and removes the container and image (driver
// failures are logged and ignored), then removes the record from the map
// and disk. A slug with no record returns ErrProjectNotFound, so a second
// Delete of the same slug reports not-found.
func (s *State) Delete(ctx context.Context, slug string) error {
	record, ok := s.recordClone(slug)
	if !ok {
		return ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.Docker.Stop(ctx, record.Container.ContainerName); err != nil {
		s.Logger.Warn("stop during delete failed, continuing", "slug", slug, "error", err)
	}
	if err := s.Docker.Remove(ctx, record.Container.ContainerName); err != nil {
		s.Logger.Warn("remove container during delete failed, continuing", "slug", slug, "error", err)
	}
	if err := s.Docker.RemoveImage(ctx, fmt.Sprintf("%s:latest", record.Container.ImageName)); err != nil {
		s.Logger.Warn("remove image during delete failed, continuing", "slug", slug, "error", err)
	}

	s.recordsMu.Lock()
	delete(s.records, slug)
	s.recordsMu.Unlock()

	if err := s.Store.Delete(slug); err != nil {
		return fmt.Errorf("delete project record %s: %w", slug, err)
	}

	s.Logger.Info("deleted project", "slug", slug)
	return nil
}

// ListStatuses synthesizes a ProjectStatus per record by combining it with
// live driver observations.
func (s *State) ListStatuses(ctx context.Context) ([]models.ProjectStatus, error) {
	records := s.snapshotRecords()
	statuses := make([]models.ProjectStatus, 0, len(records))
	for _, record := range records {
		statuses = append(statuses, s.synthesizeStatus(ctx, record))
	}
	return statuses, nil
}

// Detail returns the ProjectDetail for a single slug.
func (s *State) Detail(ctx context.Context, slug string) (*models.ProjectDetail, error) {
	record, ok := s.recordClone(slug)
	if !ok {
		return nil, ErrProjectNotFound
	}

	return &models.ProjectDetail{
		Status:        s.synthesizeStatus(ctx, record),
		RepoURL:       record.RepoURL,
		Branch:        record.Branch,
		WebhookSecret: record.Webhook.Secret,
	}, nil
}

func (s *State) synthesizeStatus(ctx context.Context, record *models.ProjectRecord) models.ProjectStatus {
	state, err := s.Docker.State(ctx, record.Container.ContainerName)
	if err != nil {
		s.Logger.Error("container state query failed", "slug", record.Slug, "error", err)
		state = models.StateOffline
	}

	status := models.ProjectStatus{
		Slug:          record.Slug,
		Name:          record.Name,
		State:         state,
		HostPort:      record.Domain.HostPort,
		ContainerPort: record.Domain.ContainerPort,
		NetworkMode:   record.NetworkMode.String(),
		URL:           recordURL(record),
	}
	updatedAt := record.UpdatedAt
	status.LastDeploy = &updatedAt

	if state == models.StateOnline {
		if memoryMB, cpuPercent, err := s.Docker.Stats(ctx, record.Container.ContainerName); err == nil {
			status.MemoryUsageMB = &memoryMB
			status.CPUPercent = &cpuPercent
		}
		if uptime, err := s.Docker.Uptime(ctx, record.Container.ContainerName); err == nil {
			status.UptimeSecs = uptime
		}
	}

	return status
}

// Logs returns up to tail lines of combined container output.
func (s *State) Logs(ctx context.Context, slug string, tail uint32, follow bool) ([]string, error) {
	record, ok := s.recordClone(slug)
	if !ok {
		return nil, ErrProjectNotFound
	}

	return s.Docker.Logs(ctx, record.Container.ContainerName, tail, follow)
}

func (s *State) enqueue(job models.Job) {
	s.jobs <- job
}
