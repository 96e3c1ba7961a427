package cron

import (
	"Buildrs/internal/api/config"
	"Buildrs/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const (
	defaultVoteReconcileSpec    = "0 * * * * *"
	defaultProfileAggregateSpec = "0 */5 * * * *"
)

type Manager struct {
	engine              *cron.Cron
	cfg                 config.CronConfig
	voteReconcileJob    *job.VoteReconcileJob
	profileAggregateJob *job.ProfileAggregateJob
}

func NewCronManager(
	cfg config.CronConfig,
	voteReconcileJob *job.VoteReconcileJob,
	profileAggregateJob *job.ProfileAggregateJob,
) *Manager {
	return &Manager{
		engine:              cron.New(cron.WithSeconds()),
		cfg:                 cfg,
		voteReconcileJob:    voteReconcileJob,
		profileAggregateJob: profileAggregateJob,
	}
}

// RegisterJobs schedules every job; an empty spec falls back to its default.
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(specOr(s.cfg.VoteReconcile, defaultVoteReconcileSpec), cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(s.voteReconcileJob)); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(specOr(s.cfg.ProfileAggregate, defaultProfileAggregateSpec), cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(s.profileAggregateJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron engine started", "jobs", len(s.engine.Entries()))
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron engine stopping")
	<-s.engine.Stop().Done()
}

func specOr(spec, def string) string {
	if spec == "" {
		return def
	}
	return spec
}
