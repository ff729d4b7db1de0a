package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/amader/portsync/internal/database"
	"github.com/amader/portsync/internal/pricecache"
	"github.com/amader/portsync/internal/snapshots"
)

const (
	// Expired quotes stay readable for a day so the stale-price fallback
	// still has something to serve across short outages.
	quoteRetention = 24 * time.Hour

	// Snapshots older than this are of no interest to the dashboard.
	snapshotRetention = 30 * 24 * time.Hour
)

// MaintenanceJob prunes aged cache and snapshot rows and checkpoints the
// WAL on every database so log files do not grow unbounded.
type MaintenanceJob struct {
	cache     *pricecache.Repository
	snapshots *snapshots.Repository
	databases []*database.DB
	log       zerolog.Logger
}

// NewMaintenanceJob creates the maintenance job.
func NewMaintenanceJob(cache *pricecache.Repository, snaps *snapshots.Repository, databases []*database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		cache:     cache,
		snapshots: snaps,
		databases: databases,
		log:       log.With().Str("component", "maintenance_job").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "storage_maintenance"
}

// Run performs one maintenance pass. Each step is independent; a failure
// in one is logged and the rest still run.
func (j *MaintenanceJob) Run() error {
	if j.cache != nil {
		deleted, err := j.cache.DeleteExpired(quoteRetention)
		if err != nil {
			j.log.Error().Err(err).Msg("Failed to prune expired quotes")
		} else if deleted > 0 {
			j.log.Info().Int64("deleted", deleted).Msg("Pruned expired quotes")
		}
	}

	if j.snapshots != nil {
		deleted, err := j.snapshots.Prune(snapshotRetention)
		if err != nil {
			j.log.Error().Err(err).Msg("Failed to prune old snapshots")
		} else if deleted > 0 {
			j.log.Info().Int64("deleted", deleted).Msg("Pruned old snapshots")
		}
	}

	for _, db := range j.databases {
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
		}
	}

	return nil
}
