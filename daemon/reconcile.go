package daemon

import (
	"context"

	"github.com/sasta-kro/corvus-paas/corvus-control-plane/models"
)

// Reconcile runs once at bootstrap (spec §4.9 step 6): every enabled
// record is compared against its observed container state. A Stopped
// container is resumed in place; anything else (most commonly Offline,
// meaning the container was removed entirely) is restored by enqueuing a
// fresh Deploy. Disabled records are left untouched, matching the
// "disabled projects are not auto-started" invariant from spec §3.
func (s *State) Reconcile(ctx context.Context) {
	for _, record := range s.snapshotRecords() {
		if !record.Enabled {
			continue
		}

		state, err := s.Docker.State(ctx, record.Container.ContainerName)
		if err != nil {
			s.Logger.Warn("bootstrap reconciliation: state query failed", "slug", record.Slug, "error", err)
			continue
		}

		switch state {
		case models.StateOnline:
			// already running, nothing to do

		case models.StateStopped:
			s.Logger.Info("bootstrap reconciliation: resuming stopped project", "slug", record.Slug)
			if err := s.Start(ctx, record.Slug); err != nil {
				s.Logger.Warn("bootstrap reconciliation: resume failed", "slug", record.Slug, "error", err)
			}

		default:
			s.Logger.Info("bootstrap reconciliation: restoring missing container", "slug", record.Slug, "observed_state", state)
			s.enqueue(models.Job{Kind: models.JobDeploy, Slug: record.Slug})
		}
	}
}
