package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amader/portsync/internal/modules/portfolio"
)

// SummaryBuilder runs one refresh cycle. Implemented by portfolio.Service.
type SummaryBuilder interface {
	BuildSummary(ctx context.Context) portfolio.Summary
}

// SnapshotStore persists one summary per cycle. Implemented by
// snapshots.Repository.
type SnapshotStore interface {
	Save(id string, summary portfolio.Summary) error
}

// SummaryPublisher broadcasts a fresh summary to connected clients.
// Implemented by the server's stream hub.
type SummaryPublisher interface {
	Publish(summary portfolio.Summary)
}

// RefreshJob rebuilds the portfolio summary, stores a snapshot of it, and
// pushes it to stream subscribers. It also holds the latest summary so the
// HTTP layer can serve reads without re-running the pipeline.
type RefreshJob struct {
	service   SummaryBuilder
	snapshots SnapshotStore    // optional; nil disables history
	publisher SummaryPublisher // optional; nil disables streaming
	timeout   time.Duration
	log       zerolog.Logger

	running     atomic.Bool
	mu          sync.RWMutex
	latest      *portfolio.Summary
	lastCycleID string
}

// NewRefreshJob creates the refresh job. snapshots and publisher may be nil.
func NewRefreshJob(service SummaryBuilder, snapshots SnapshotStore, publisher SummaryPublisher, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RefreshJob{
		service:   service,
		snapshots: snapshots,
		publisher: publisher,
		timeout:   timeout,
		log:       log.With().Str("component", "refresh_job").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "portfolio_refresh"
}

// Run executes one refresh cycle. Snapshot persistence failures are logged
// but do not fail the cycle - the in-memory summary is already updated and
// serving reads.
func (j *RefreshJob) Run() error {
	cycleID := uuid.New().String()
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	summary := j.service.BuildSummary(ctx)

	j.mu.Lock()
	j.latest = &summary
	j.lastCycleID = cycleID
	j.mu.Unlock()

	if j.snapshots != nil {
		if err := j.snapshots.Save(cycleID, summary); err != nil {
			j.log.Error().Err(err).Str("cycle_id", cycleID).Msg("Failed to store summary snapshot")
		}
	}

	if j.publisher != nil {
		j.publisher.Publish(summary)
	}

	j.log.Info().
		Str("cycle_id", cycleID).
		Str("data_source", summary.DataSource).
		Int("positions", len(summary.Positions)).
		Dur("elapsed", time.Since(start)).
		Msg("Refresh cycle complete")

	return nil
}

// RunAsync starts a refresh cycle in the background unless one is already
// in flight. Reports whether a new cycle was started. Callers observe the
// result through Latest once the cycle completes.
func (j *RefreshJob) RunAsync() bool {
	if !j.running.CompareAndSwap(false, true) {
		j.log.Debug().Msg("Refresh already in progress, not starting another")
		return false
	}

	go func() {
		defer j.running.Store(false)
		_ = j.Run() // Run degrades internally and never returns an error
	}()
	return true
}

// Latest returns the most recent summary with its cycle id.
// ok is false before the first cycle has completed.
func (j *RefreshJob) Latest() (portfolio.Summary, string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.latest == nil {
		return portfolio.Summary{}, "", false
	}
	return *j.latest, j.lastCycleID, true
}
