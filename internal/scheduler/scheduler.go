package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/config"
	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/service/report"
)

// Scheduler runs the recurring movement report for every configured
// warehouse and pushes the results to the report sinks.
type Scheduler struct {
	cron      *cron.Cron
	reportSvc *report.Service
	cfg       config.ReportingConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, reportSvc *report.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reportSvc: reportSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailyReports); err != nil {
		s.logger.Error("failed to schedule movement report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runDailyReports covers the previous calendar day for every configured
// warehouse: replay, project, deliver.
func (s *Scheduler) runDailyReports() {
	if len(s.cfg.Warehouses) == 0 {
		s.logger.Debug("no warehouses configured for scheduled reports")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	dayEnd := now.Truncate(24 * time.Hour)
	dayStart := dayEnd.Add(-24 * time.Hour)

	reqs := make([]models.MovementReportRequest, 0, len(s.cfg.Warehouses))
	for _, warehouseID := range s.cfg.Warehouses {
		reqs = append(reqs, models.MovementReportRequest{
			WarehouseID:    warehouseID,
			SinceExclusive: &dayStart,
			UntilInclusive: &dayEnd,
		})
	}

	reports, err := s.reportSvc.GenerateBatch(ctx, reqs)
	if err != nil {
		s.logger.Error("scheduled report generation failed", zap.Error(err))
		return
	}

	for _, rep := range reports {
		if err := s.reportSvc.DeliverReport(ctx, *rep); err != nil {
			s.logger.Error("scheduled report delivery failed",
				zap.String("warehouse_id", rep.WarehouseID), zap.Error(err))
		}
	}
}
