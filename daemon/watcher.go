package daemon

import (
	"context"
	"time"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
)

// WatchInterval is the health watcher's polling period (spec §4.6).
const WatchInterval = 30 * time.Second

// RunWatcher periodically reconciles every enabled record's observed
// container state against the engine, restarting containers that have
// stopped unexpectedly. It never mutates records directly; it only issues
// driver calls and logs. Exits when ctx is cancelled.
func (s *State) RunWatcher(ctx context.Context) {
	ticker := time.NewTicker(WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.watchOnce(ctx)
		}
	}
}

func (s *State) watchOnce(ctx context.Context) {
	for _, record := range s.snapshotRecords() {
		if !record.Enabled {
			continue
		}
		s.watchOne(ctx, record)
	}
}

// watchOne applies the action table from spec §4.6: a container found
// Stopped is restarted and logged; Online/Starting/Building/Rebuilding
// need no action; Offline is logged at debug (commonly "never deployed
// yet"); a state query failure is logged at error and otherwise ignored.
func (s *State) watchOne(ctx context.Context, record *models.ProjectRecord) {
	state, err := s.Docker.State(ctx, record.Container.ContainerName)
	if err != nil {
		s.Logger.Error("health watcher: state query failed", "slug", record.Slug, "error", err)
		return
	}

	switch state {
	case models.StateStopped:
		s.Logger.Warn("health watcher: restarting stopped container", "slug", record.Slug)
		if err := s.Docker.StartExisting(ctx, record.Container.ContainerName); err != nil {
			s.Logger.Error("health watcher: restart failed", "slug", record.Slug, "error", err)
		}
	case models.StateOffline:
		s.Logger.Debug("health watcher: container offline", "slug", record.Slug)
	case models.StateOnline, models.StateStarting, models.StateBuilding, models.StateRebuilding:
		// no action needed
	case models.StateError:
		s.Logger.Error("health watcher: container in error state", "slug", record.Slug)
	}
}
