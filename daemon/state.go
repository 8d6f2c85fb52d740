// Package daemon implements the Daemon State (C4), Job Scheduler (C5), and
// Health Watcher (C6): the process-wide shared state, the single-consumer
// build queue with per-slug mutual exclusion, and the periodic
// reconciliation loop.
package daemon

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/config"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/docker"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
	"github.com/sasta-kro/corvus-paas/corvus-control-plane/store"
)

// NamePrefix derives container_name and image_name from a slug:
// container_name = "<prefix>-<slug>", image_name = "<prefix>/<slug>".
const NamePrefix = "dockyard"

// SharedNetwork is the single bridge network joining all project
// containers, created if absent at bootstrap (spec §6).
const SharedNetwork = "dockyard-network"

// JobQueueCapacity bounds the scheduler's multi-producer single-consumer
// channel; producers block when full, providing natural backpressure.
const JobQueueCapacity = 100

// State is the process-wide singleton assembled at bootstrap.
type State struct {
	configMu sync.RWMutex
	config   config.GlobalConfig

	Docker *docker.DockerClient
	Store  *store.Store
	Paths  config.Paths
	Logger *slog.Logger

	recordsMu sync.RWMutex
	records   map[string]*models.ProjectRecord

	startedAt time.Time
	jobs      chan models.Job
}

// NewState constructs the daemon state. It starts nothing: callers run
// RunScheduler and RunWatcher in their own goroutines and register the
// HTTP servers (Control API, Webhook Ingress) separately.
func NewState(cfg config.GlobalConfig, paths config.Paths, dockerClient *docker.DockerClient, projectStore *store.Store, logger *slog.Logger) *State {
	return &State{
		config:    cfg,
		Docker:    dockerClient,
		Store:     projectStore,
		Paths:     paths,
		Logger:    logger,
		records:   make(map[string]*models.ProjectRecord),
		startedAt: time.Now(),
		jobs:      make(chan models.Job, JobQueueCapacity),
	}
}

// LoadRecords populates the in-memory map from disk. Called once at
// bootstrap, before the scheduler/watcher/servers start (spec §4.9 step 5).
func (s *State) LoadRecords() error {
	records, err := s.Store.LoadAll()
	if err != nil {
		return fmt.Errorf("load project records: %w", err)
	}

	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()
	for _, record := range records {
		s.records[record.Slug] = record
	}
	return nil
}

func (s *State) UptimeSecs() uint64 {
	return uint64(time.Since(s.startedAt).Seconds())
}

func (s *State) ProjectCount() int {
	s.recordsMu.RLock()
	defer s.recordsMu.RUnlock()
	return len(s.records)
}

// GlobalConfig returns a value copy of the current config.
func (s *State) GlobalConfig() config.GlobalConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// UpdateGlobalConfig applies mutate under the write lock and persists the
// result before returning.
func (s *State) UpdateGlobalConfig(mutate func(*config.GlobalConfig)) error {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	updated := s.config
	mutate(&updated)
	if err := updated.Save(s.Paths.GlobalConfigPath()); err != nil {
		return err
	}
	s.config = updated
	return nil
}

// recordClone returns a value clone of a record for external callers,
// matching the ownership model in spec §3: the map exclusively owns
// records; external reads get clones.
func (s *State) recordClone(slug string) (*models.ProjectRecord, bool) {
	s.recordsMu.RLock()
	defer s.recordsMu.RUnlock()
	record, ok := s.records[slug]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// snapshotRecords returns clones of every record, for iteration by the
// watcher and list_statuses without holding the lock for the duration.
func (s *State) snapshotRecords() []*models.ProjectRecord {
	s.recordsMu.RLock()
	defer s.recordsMu.RUnlock()
	out := make([]*models.ProjectRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record.Clone())
	}
	return out
}

// newRecord constructs a fresh ProjectRecord for a deploy request,
// deriving container_name/image_name from slug per NamePrefix.
func newRecord(name, slug, repoURL, branch string, networkMode models.NetworkMode, hostname string, containerPort, hostPort uint16) *models.ProjectRecord {
	now := time.Now().UTC()
	return &models.ProjectRecord{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		RepoURL:     repoURL,
		Branch:      branch,
		NetworkMode: networkMode,
		Domain: models.DomainConfig{
			Hostname:      hostname,
			ContainerPort: containerPort,
			HostPort:      hostPort,
		},
		Container: models.ContainerConfig{
			ImageName:      fmt.Sprintf("%s/%s", NamePrefix, slug),
			ContainerName:  fmt.Sprintf("%s-%s", NamePrefix, slug),
			DockerfilePath: "Dockerfile",
			EnvVars:        map[string]string{},
		},
		Webhook: models.WebhookConfig{
			Secret: generateWebhookSecret(),
		},
		CreatedAt: now,
		UpdatedAt: now,
		Enabled:   true,
	}
}

func recordURL(record *models.ProjectRecord) string {
	if record.Domain.Hostname != "" {
		return fmt.Sprintf("https://%s", record.Domain.Hostname)
	}
	if record.NetworkMode == models.NetworkLocalOnly {
		return fmt.Sprintf("http://localhost:%d", record.Domain.HostPort)
	}
	return ""
}

// WebhookURL builds the user-facing webhook URL surfaced on deploy,
// derived from the configured webhook port (spec §4.4, §6).
func (s *State) WebhookURL(slug string) string {
	port := s.GlobalConfig().Daemon.WebhookPort
	return fmt.Sprintf("http://YOUR_SERVER:%d/webhook/%s", port, slug)
}
