package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/config"
	"github.com/abhishekjatav/dukaan/internal/repository/mongodb"
	"github.com/abhishekjatav/dukaan/internal/service/reporting"
)

// Scheduler runs the close-of-day job that aggregates the sale ledger and
// archives the resulting summary.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	archive      mongodb.Repository
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, archive mongodb.Repository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		archive:      archive,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the daily close job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailyClose); err != nil {
		s.logger.Error("failed to schedule daily close", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyClose() {
	s.logger.Info("running daily close")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.reportingSvc.DailyClose(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to compute daily close", zap.Error(err))
		return
	}

	if err := s.archive.SaveDailySummary(ctx, summary); err != nil {
		s.logger.Error("failed to archive daily summary", zap.Error(err))
		return
	}

	s.logger.Info("daily close archived",
		zap.Int("sales_count", summary.SalesCount),
		zap.String("gross", summary.Gross.StringFixed(2)))
}
