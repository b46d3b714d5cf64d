package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/service/ledger"
	"github.com/binpoint/wms/internal/store"
)

// Sink delivers a finished report to an external renderer.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, report models.MovementReport) error
}

// Service generates stock-movement reports from operation history and
// pushes them to the configured sinks.
type Service struct {
	store   store.Store
	sinks   []Sink
	workers int
	logger  *zap.Logger
}

// NewService wires a reporting service. workers bounds concurrent replays
// in batch generation; values below 1 fall back to 1.
func NewService(st store.Store, sinks []Sink, workers int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Service{store: st, sinks: sinks, workers: workers, logger: logger}
}

// GenerateMovementReport loads a warehouse's operation history, replays it
// under the requested scope and projects the outcome into a report.
// Continuity warnings ride along in the report; they never fail it.
func (s *Service) GenerateMovementReport(ctx context.Context, req models.MovementReportRequest) (*models.MovementReport, error) {
	var events []models.OperationHistoryEntry
	err := s.store.List(ctx, store.OperationHistoryPath(req.WarehouseID), nil,
		&store.OrderBy{Field: "timestamp"}, &events)
	if err != nil {
		return nil, fmt.Errorf("load operation history of %s: %w", req.WarehouseID, err)
	}

	result := ledger.Replay(events, ledger.Scope{
		SinceExclusive: req.SinceExclusive,
		UntilInclusive: req.UntilInclusive,
		SKUs:           req.SKUs,
	})

	direction := MostRecentFirst
	if req.OldestFirst {
		direction = OldestFirst
	}
	rows, summary := Project(result.Movements, direction)

	if len(result.Warnings) > 0 {
		s.logger.Warn("replay continuity issues",
			zap.String("warehouse_id", req.WarehouseID),
			zap.Int("count", len(result.Warnings)))
	}

	return &models.MovementReport{
		WarehouseID: req.WarehouseID,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
		Summary:     summary,
		Warnings:    result.Warnings,
	}, nil
}

// DeliverReport pushes a report to every sink. Sinks fail independently;
// the joined error reports every failed delivery.
func (s *Service) DeliverReport(ctx context.Context, report models.MovementReport) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, report); err != nil {
			s.logger.Error("report delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("warehouse_id", report.WarehouseID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
			continue
		}
		s.logger.Info("report delivered",
			zap.String("sink", sink.Name()),
			zap.String("warehouse_id", report.WarehouseID),
			zap.Int("rows", len(report.Rows)))
	}
	return errors.Join(errs...)
}

// GenerateBatch replays several report requests on a bounded worker pool.
// Results line up with the requests; a cancelled context abandons pending
// work and nothing partial is persisted anywhere.
func (s *Service) GenerateBatch(ctx context.Context, reqs []models.MovementReportRequest) ([]*models.MovementReport, error) {
	reports := make([]*models.MovementReport, len(reqs))
	errs := make([]error, len(reqs))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, req models.MovementReportRequest) {
			defer wg.Done()
			defer func() { <-sem }()
			reports[i], errs[i] = s.GenerateMovementReport(ctx, req)
		}(i, req)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reports, nil
}
