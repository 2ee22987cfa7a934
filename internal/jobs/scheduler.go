package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

// Maintenance is the subset of the reservation service the scheduler drives.
type Maintenance interface {
	CompleteExpired(ctx context.Context) (int, error)
	CancelStale(ctx context.Context) (int, error)
	ReconcileAvailability(ctx context.Context) (int64, error)
}

// Specs holds the cron expressions for each job.
type Specs struct {
	AutoComplete string
	StalePending string
	Reconcile    string
}

// Scheduler runs the time-driven booking maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	svc    Maintenance
	logger *zap.Logger
}

// NewScheduler registers the jobs and returns the scheduler.
func NewScheduler(svc Maintenance, specs Specs, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		svc:    svc,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(specs.AutoComplete, s.runAutoComplete); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(specs.StalePending, s.runStaleSweep); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(specs.Reconcile, s.runReconcile); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins job execution.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("maintenance scheduler started")
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("maintenance scheduler stopped")
}

func (s *Scheduler) runAutoComplete() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	completed, err := s.svc.CompleteExpired(ctx)
	if err != nil {
		s.logger.Error("auto-complete sweep failed", zap.Error(err))
		return
	}
	if completed > 0 {
		s.logger.Info("expired bookings completed", zap.Int("count", completed))
	}
}

func (s *Scheduler) runStaleSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cancelled, err := s.svc.CancelStale(ctx)
	if err != nil {
		s.logger.Error("stale booking sweep failed", zap.Error(err))
		return
	}
	if cancelled > 0 {
		s.logger.Info("stale bookings cancelled", zap.Int("count", cancelled))
	}
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.svc.ReconcileAvailability(ctx); err != nil {
		s.logger.Error("availability reconciliation failed", zap.Error(err))
	}
}
