package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/service/rackstructure"
	"github.com/binpoint/wms/internal/service/report"
	"github.com/binpoint/wms/internal/store"
	"github.com/binpoint/wms/internal/store/memory"
)

type captureSink struct {
	reports []models.MovementReport
	fail    bool
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) Deliver(ctx context.Context, rep models.MovementReport) error {
	if c.fail {
		return errors.New("renderer offline")
	}
	c.reports = append(c.reports, rep)
	return nil
}

func seedWarehouse(t *testing.T, st store.Store, id, code string) {
	t.Helper()
	w := models.Warehouse{ID: id, Code: code, Name: code, CreatedAt: time.Now().UTC()}
	if err := st.Create(context.Background(), store.WarehousesPath(), id, w); err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
}

func recordPutaway(t *testing.T, st store.Store, warehouseID, id string, ts time.Time, sku, binID, binCode string, qty int) {
	t.Helper()
	entry := models.OperationHistoryEntry{
		ID:            id,
		WarehouseID:   warehouseID,
		OperationType: models.OperationPutaway,
		Timestamp:     ts,
		ExecutionDetails: models.ExecutionDetails{Items: []models.OperationItem{{
			SKU: sku,
			AllocationPlan: []models.BinAllocation{
				{BinID: binID, BinCode: binCode, AllocatedQuantity: qty, Reason: "manual"},
			},
		}}},
	}
	if err := st.Create(context.Background(), store.OperationHistoryPath(warehouseID), id, entry); err != nil {
		t.Fatalf("record putaway: %v", err)
	}
}

// Full path: rack creation assigns codes, a recorded putaway references a
// bin, the report reconstructs the movement.
func TestMovementReportEndToEnd(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	seedWarehouse(t, st, "wh-1", "WH")

	mgr := rackstructure.NewManager(st, nil)
	created, err := mgr.CreateRackWithStructure(ctx, "wh-1", models.RackConfig{
		Floor:             models.FloorGround,
		RackNumber:        1,
		GridCount:         1,
		LevelsPerGrid:     []string{"A"},
		BinsPerLevel:      2,
		MaxProductsPerBin: 100,
	})
	if err != nil {
		t.Fatalf("create rack: %v", err)
	}

	var bins []models.Bin
	if err := st.List(ctx, store.BinsPath("wh-1"), store.Filter{"rack_id": created.Rack.ID}, &store.OrderBy{Field: "code"}, &bins); err != nil {
		t.Fatalf("list bins: %v", err)
	}
	if len(bins) != 2 || bins[0].Code != "WH-GF-R01-G01-A1" || bins[1].Code != "WH-GF-R01-G01-A2" {
		t.Fatalf("unexpected bins: %+v", bins)
	}

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	recordPutaway(t, st, "wh-1", "op-1", ts, "SKU1", bins[0].ID, bins[0].Code, 40)

	sink := &captureSink{}
	svc := report.NewService(st, []report.Sink{sink}, 2, nil)

	rep, err := svc.GenerateMovementReport(ctx, models.MovementReportRequest{WarehouseID: "wh-1"})
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}

	if len(rep.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rep.Rows))
	}
	row := rep.Rows[0]
	if row.SKU != "SKU1" || row.BinCode != "WH-GF-R01-G01-A1" ||
		row.OperationType != models.OperationPutaway ||
		row.Quantity != 40 || row.Opening != 0 || row.Closing != 40 {
		t.Errorf("row = %+v", row)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", rep.Warnings)
	}

	if err := svc.DeliverReport(ctx, *rep); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if len(sink.reports) != 1 {
		t.Fatalf("sink received %d reports, want 1", len(sink.reports))
	}
}

func TestGenerateMovementReportScoped(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	seedWarehouse(t, st, "wh-1", "WH")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	recordPutaway(t, st, "wh-1", "op-1", base, "SKU1", "b1", "WH-GF-R01-G01-A1", 30)
	recordPutaway(t, st, "wh-1", "op-2", base.Add(time.Hour), "SKU1", "b1", "WH-GF-R01-G01-A1", 5)

	svc := report.NewService(st, nil, 1, nil)

	since := base.Add(30 * time.Minute)
	rep, err := svc.GenerateMovementReport(ctx, models.MovementReportRequest{
		WarehouseID:    "wh-1",
		SinceExclusive: &since,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(rep.Rows) != 1 {
		t.Fatalf("got %d rows, want 1 in-range", len(rep.Rows))
	}
	if rep.Rows[0].Opening != 30 || rep.Rows[0].Closing != 35 {
		t.Errorf("row balances = %d→%d, want 30→35", rep.Rows[0].Opening, rep.Rows[0].Closing)
	}
}

func TestDeliverReportJoinsSinkFailures(t *testing.T) {
	good := &captureSink{}
	bad := &captureSink{fail: true}
	svc := report.NewService(memory.New(), []report.Sink{bad, good}, 1, nil)

	err := svc.DeliverReport(context.Background(), models.MovementReport{WarehouseID: "wh-1"})
	if err == nil {
		t.Fatal("want error from failing sink")
	}
	if len(good.reports) != 1 {
		t.Errorf("healthy sink skipped after sibling failure")
	}
}

func TestGenerateBatch(t *testing.T) {
	st := memory.New()
	seedWarehouse(t, st, "wh-1", "WH")
	seedWarehouse(t, st, "wh-2", "W2")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	recordPutaway(t, st, "wh-1", "op-1", base, "SKU1", "b1", "WH-GF-R01-G01-A1", 10)
	recordPutaway(t, st, "wh-2", "op-2", base, "SKU2", "b2", "W2-GF-R01-G01-A1", 20)

	svc := report.NewService(st, nil, 2, nil)

	reports, err := svc.GenerateBatch(context.Background(), []models.MovementReportRequest{
		{WarehouseID: "wh-1"},
		{WarehouseID: "wh-2"},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].WarehouseID != "wh-1" || reports[1].WarehouseID != "wh-2" {
		t.Errorf("results out of order: %s, %s", reports[0].WarehouseID, reports[1].WarehouseID)
	}
	if reports[1].Summary.TotalQuantityMoved != 20 {
		t.Errorf("wh-2 summary = %+v", reports[1].Summary)
	}
}

func TestGenerateBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := report.NewService(memory.New(), nil, 1, nil)
	reqs := make([]models.MovementReportRequest, 8)
	for i := range reqs {
		reqs[i] = models.MovementReportRequest{WarehouseID: "wh-1"}
	}

	if _, err := svc.GenerateBatch(ctx, reqs); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
