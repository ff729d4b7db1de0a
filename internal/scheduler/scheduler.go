// Package scheduler runs Portsync's background jobs - the portfolio refresh
// and storage maintenance - on cron schedules.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one schedulable unit of background work.
type Job interface {
	// Run executes one pass. Jobs degrade internally (a failed refresh
	// serves demo data, a failed prune is retried next pass); a returned
	// error means the pass could not run at all.
	Run() error
	Name() string
}

// EveryMinutes returns a fixed-interval schedule for the given minute count.
// Interval descriptors are used instead of "*/n" minute fields, which only
// fire correctly when n divides 60 and reject n >= 60 outright.
func EveryMinutes(n int) string {
	if n <= 0 {
		n = 5
	}
	return fmt.Sprintf("@every %dm", n)
}

// Scheduler drives registered jobs on their cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a scheduler. Schedules use the six-field form with seconds,
// plus the @hourly/@every descriptors.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins dispatching registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop halts dispatch and blocks until running jobs finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job under the given schedule.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	if _, err := s.cron.AddJob(schedule, loggedJob{job: job, log: s.log}); err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return job.Run()
}

// loggedJob adapts a Job for cron dispatch, logging each pass's outcome.
type loggedJob struct {
	job Job
	log zerolog.Logger
}

func (l loggedJob) Run() {
	l.log.Debug().Str("job", l.job.Name()).Msg("Running job")

	if err := l.job.Run(); err != nil {
		l.log.Error().Err(err).Str("job", l.job.Name()).Msg("Job failed")
		return
	}
	l.log.Debug().Str("job", l.job.Name()).Msg("Job completed")
}
