package ledger_test

import (
	"testing"
	"time"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/service/ledger"
)

var base = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func putaway(ts time.Time, sku, binID, binCode string, qty int) models.OperationHistoryEntry {
	return models.OperationHistoryEntry{
		ID:            "op-" + ts.Format("150405"),
		OperationType: models.OperationPutaway,
		Timestamp:     ts,
		ExecutionDetails: models.ExecutionDetails{Items: []models.OperationItem{{
			SKU: sku,
			AllocationPlan: []models.BinAllocation{
				{BinID: binID, BinCode: binCode, AllocatedQuantity: qty},
			},
		}}},
	}
}

func pick(ts time.Time, sku, binID, binCode string, qty int) models.OperationHistoryEntry {
	return models.OperationHistoryEntry{
		ID:            "op-" + ts.Format("150405"),
		OperationType: models.OperationPick,
		Timestamp:     ts,
		ExecutionDetails: models.ExecutionDetails{Items: []models.OperationItem{{
			SKU: sku,
			PickedBins: []models.PickedBin{
				{BinID: binID, BinCode: binCode, Quantity: qty},
			},
		}}},
	}
}

func TestReplayContinuity(t *testing.T) {
	events := []models.OperationHistoryEntry{
		putaway(base, "SKU1", "bin-1", "WH-GF-R01-G01-A1", 30),
		pick(base.Add(time.Hour), "SKU1", "bin-1", "WH-GF-R01-G01-A1", 10),
		putaway(base.Add(2*time.Hour), "SKU1", "bin-1", "WH-GF-R01-G01-A1", 5),
	}

	result := ledger.Replay(events, ledger.Scope{})

	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Movements) != 3 {
		t.Fatalf("got %d movements, want 3", len(result.Movements))
	}

	wantBalances := [][2]int{{0, 30}, {30, 20}, {20, 25}}
	for i, mv := range result.Movements {
		if mv.Opening != wantBalances[i][0] || mv.Closing != wantBalances[i][1] {
			t.Errorf("movement %d: %d→%d, want %d→%d",
				i, mv.Opening, mv.Closing, wantBalances[i][0], wantBalances[i][1])
		}
	}

	key := ledger.PositionKey{SKU: "SKU1", BinID: "bin-1"}
	if result.Balances[key] != 25 {
		t.Errorf("final balance = %d, want 25", result.Balances[key])
	}
}

func TestReplaySortsOutOfOrderEvents(t *testing.T) {
	events := []models.OperationHistoryEntry{
		pick(base.Add(time.Hour), "SKU1", "bin-1", "A1", 10),
		putaway(base, "SKU1", "bin-1", "A1", 30),
	}

	result := ledger.Replay(events, ledger.Scope{})

	if len(result.Movements) != 2 {
		t.Fatalf("got %d movements, want 2", len(result.Movements))
	}
	if result.Movements[0].OperationType != models.OperationPutaway {
		t.Errorf("first movement is %s, want putaway", result.Movements[0].OperationType)
	}
	if got := result.Movements[1].Closing; got != 20 {
		t.Errorf("closing after pick = %d, want 20", got)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestReplayScopedOpeningBalance(t *testing.T) {
	events := []models.OperationHistoryEntry{
		putaway(base, "SKU1", "bin-1", "A1", 30),
		pick(base.Add(time.Hour), "SKU1", "bin-1", "A1", 10),
		putaway(base.Add(2*time.Hour), "SKU1", "bin-1", "A1", 5),
	}

	since := base.Add(30 * time.Minute)
	result := ledger.Replay(events, ledger.Scope{SinceExclusive: &since})

	if len(result.Movements) != 2 {
		t.Fatalf("got %d movements, want 2 in-range", len(result.Movements))
	}
	if got := result.Movements[0].Opening; got != 30 {
		t.Errorf("first in-range opening = %d, want 30 from pre-window replay", got)
	}
	if got := result.Movements[1].Closing; got != 25 {
		t.Errorf("final closing = %d, want 25", got)
	}
}

func TestReplayUntilInclusive(t *testing.T) {
	events := []models.OperationHistoryEntry{
		putaway(base, "SKU1", "bin-1", "A1", 30),
		pick(base.Add(time.Hour), "SKU1", "bin-1", "A1", 10),
		putaway(base.Add(2*time.Hour), "SKU1", "bin-1", "A1", 5),
	}

	until := base.Add(time.Hour)
	result := ledger.Replay(events, ledger.Scope{UntilInclusive: &until})

	if len(result.Movements) != 2 {
		t.Fatalf("got %d movements, want 2 (event at the bound included)", len(result.Movements))
	}
	key := ledger.PositionKey{SKU: "SKU1", BinID: "bin-1"}
	if result.Balances[key] != 20 {
		t.Errorf("balance = %d, want 20", result.Balances[key])
	}
}

func TestReplaySKUFilter(t *testing.T) {
	events := []models.OperationHistoryEntry{
		putaway(base, "SKU1", "bin-1", "A1", 30),
		putaway(base.Add(time.Minute), "SKU2", "bin-2", "A2", 7),
	}

	result := ledger.Replay(events, ledger.Scope{SKUs: []string{"SKU2"}})

	if len(result.Movements) != 1 {
		t.Fatalf("got %d movements, want 1", len(result.Movements))
	}
	if result.Movements[0].SKU != "SKU2" {
		t.Errorf("movement sku = %s, want SKU2", result.Movements[0].SKU)
	}
}

func TestReplayClampsOverPick(t *testing.T) {
	events := []models.OperationHistoryEntry{
		putaway(base, "SKU1", "bin-1", "A1", 5),
		pick(base.Add(time.Hour), "SKU1", "bin-1", "A1", 8),
	}

	result := ledger.Replay(events, ledger.Scope{})

	if len(result.Movements) != 2 {
		t.Fatalf("got %d movements, want 2", len(result.Movements))
	}
	over := result.Movements[1]
	if over.Quantity != 8 {
		t.Errorf("recorded quantity = %d, want the original 8", over.Quantity)
	}
	if over.Closing != 0 {
		t.Errorf("closing = %d, want clamped 0", over.Closing)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("over-pick produced no warning")
	}
	if result.Warnings[0].BinID != "bin-1" {
		t.Errorf("warning bin = %s, want bin-1", result.Warnings[0].BinID)
	}
}

func TestReplayLegacyFlatRecords(t *testing.T) {
	legacyPutaway := models.OperationHistoryEntry{
		ID:            "legacy-1",
		OperationType: models.OperationPutaway,
		Timestamp:     base,
		ExecutionDetails: models.ExecutionDetails{Items: []models.OperationItem{{
			SKU: "SKU1", BinID: "bin-1", BinCode: "A1", Quantity: 12,
		}}},
	}
	legacyPick := models.OperationHistoryEntry{
		ID:            "legacy-2",
		OperationType: models.OperationPick,
		Timestamp:     base.Add(time.Hour),
		ExecutionDetails: models.ExecutionDetails{Items: []models.OperationItem{{
			SKU: "SKU1", BinID: "bin-1", BinCode: "A1", Quantity: 12, PickedQty: 4,
		}}},
	}

	result := ledger.Replay([]models.OperationHistoryEntry{legacyPutaway, legacyPick}, ledger.Scope{})

	if len(result.Movements) != 2 {
		t.Fatalf("got %d movements, want 2", len(result.Movements))
	}
	if got := result.Movements[1].Quantity; got != 4 {
		t.Errorf("legacy pick used quantity %d, want picked_qty 4", got)
	}
	key := ledger.PositionKey{SKU: "SKU1", BinID: "bin-1"}
	if result.Balances[key] != 8 {
		t.Errorf("balance = %d, want 8", result.Balances[key])
	}
}

func TestReplayMultiBinAllocation(t *testing.T) {
	event := models.OperationHistoryEntry{
		ID:            "op-multi",
		OperationType: models.OperationPutaway,
		Timestamp:     base,
		ExecutionDetails: models.ExecutionDetails{Items: []models.OperationItem{{
			SKU: "SKU1",
			AllocationPlan: []models.BinAllocation{
				{BinID: "bin-1", BinCode: "A1", AllocatedQuantity: 10, Reason: "primary"},
				{BinID: "bin-2", BinCode: "A2", AllocatedQuantity: 6, Reason: "overflow"},
			},
		}}},
	}

	result := ledger.Replay([]models.OperationHistoryEntry{event}, ledger.Scope{})

	if len(result.Movements) != 2 {
		t.Fatalf("got %d movements, want one per allocation", len(result.Movements))
	}
	if result.Balances[ledger.PositionKey{SKU: "SKU1", BinID: "bin-2"}] != 6 {
		t.Errorf("bin-2 balance wrong: %v", result.Balances)
	}
}
