package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"CalendarEffects/internal/pipeline"
)

// Scheduler re-runs the analysis pipeline on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Logger   *zap.Logger
	Ctx      context.Context

	// job is shared by cron entries and RunNow so at most one run is active.
	job cron.Job
}

// NewScheduler creates a new Scheduler. Specs carry a leading seconds field.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Logger:   logger,
		Ctx:      ctx,
	}
	s.job = cron.NewChain(
		cron.SkipIfStillRunning(cronLogger{logger.Sugar()}),
	).Then(cron.FuncJob(s.analysisTask))
	return s
}

// Register adds the analysis task under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddJob(spec, s.job); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow executes the analysis task immediately. It is skipped when a
// scheduled run is still in progress.
func (s *Scheduler) RunNow() {
	s.job.Run()
}

func (s *Scheduler) analysisTask() {
	if s.Ctx.Err() != nil {
		return
	}
	s.Logger.Info("running scheduled analysis")
	if _, err := s.Pipeline.Run(s.Ctx); err != nil {
		s.Logger.Error("scheduled analysis failed", zap.Error(err))
	}
}

// cronLogger routes cron job-wrapper messages to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
