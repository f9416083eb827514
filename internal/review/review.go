// Package review flags products whose mandatory revision date has been reached
package review

import (
	"context"
	"fmt"
	"time"

	"financialproducts/internal/metrics"
	"financialproducts/internal/models"
	"financialproducts/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Config represents the configuration of the review job
type Config struct {
	// Schedule in cron format (e.g. "0 6 * * *" for every day at 06:00, or "@daily")
	Schedule string
	// Enabled determines if the job should run on schedule
	Enabled bool
}

// Scheduler runs the revision review on a cron schedule
type Scheduler struct {
	repo   repository.ProductRepository
	config Config
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a new review scheduler
func NewScheduler(repo repository.ProductRepository, config Config, logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Same grammar as cron.ParseStandard: five fields or a descriptor such as @daily
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))

	s := &Scheduler{
		repo:   repo,
		config: config,
		cron:   c,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce lists the products due for revision today, logs them and updates the gauge
func (s *Scheduler) RunOnce(ctx context.Context) ([]models.FinancialProduct, error) {
	today := s.now()

	due, err := s.repo.ListDueForRevision(ctx, today)
	if err != nil {
		metrics.ReviewRuns.WithLabelValues("error").Inc()
		s.logger.Error("review.list_failed", zap.Error(err))
		return nil, fmt.Errorf("list products due for revision: %w", err)
	}

	for _, p := range due {
		s.logger.Info("review.product_due",
			zap.String("id", p.ID),
			zap.String("name", p.Name),
			zap.String("date_revision", p.DateRevision),
		)
	}

	metrics.ProductsDueForRevision.Set(float64(len(due)))
	metrics.ReviewRuns.WithLabelValues("success").Inc()
	s.logger.Info("review.completed",
		zap.Int("due", len(due)),
		zap.String("day", today.Format("2006-01-02")),
	)
	return due, nil
}

// Start schedules the job and blocks until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("review.disabled")
		return nil
	}

	if s.config.Schedule == "" {
		return fmt.Errorf("review job has no schedule configured")
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.logger.Debug("review.scheduled_run")
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Warn("review.scheduled_run_failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule review job: %w", err)
	}

	// Start the cron scheduler
	s.cron.Start()
	s.logger.Info("review.scheduler_started", zap.String("schedule", s.config.Schedule))

	// Wait for context cancellation
	<-ctx.Done()
	s.logger.Info("review.scheduler_stopping")
	<-s.cron.Stop().Done()

	return nil
}
