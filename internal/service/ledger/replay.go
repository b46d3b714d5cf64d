// Package ledger reconstructs per-bin, per-SKU quantity history from the
// append-only operation log. Replay is pure: it never touches the store
// and the same event slice always yields the same result.
package ledger

import (
	"sort"
	"time"

	"github.com/binpoint/wms/internal/domain/models"
)

// PositionKey identifies one (sku, bin) quantity timeline.
type PositionKey struct {
	SKU   string
	BinID string
}

// Scope limits a replay. Events before SinceExclusive are still replayed,
// but only to establish opening balances; they emit no movement rows.
// A nil bound is open-ended; an empty SKUs slice means every SKU.
type Scope struct {
	SinceExclusive *time.Time
	UntilInclusive *time.Time
	SKUs           []string
}

// Result carries the chronological movement rows, the final balance per
// position, and any continuity findings. Warnings never fail a replay:
// they point at upstream data problems (out-of-order writes, over-picks),
// not at the reconstruction itself.
type Result struct {
	Movements []models.MovementRecord
	Balances  map[PositionKey]int
	Warnings  []models.ContinuityIssue
}

// binDelta is one bin-level quantity change extracted from an operation
// item, regardless of which of the three recorded shapes carried it.
type binDelta struct {
	binID   string
	binCode string
	delta   int
}

// Replay sorts events chronologically (ties keep insertion order) and
// folds them into quantity timelines. Closing balances never go below
// zero: a pick larger than the reconstructed balance keeps its recorded
// quantity but clamps the closing to 0 and flags the position.
func Replay(events []models.OperationHistoryEntry, scope Scope) Result {
	ordered := make([]models.OperationHistoryEntry, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	skuFilter := make(map[string]struct{}, len(scope.SKUs))
	for _, sku := range scope.SKUs {
		skuFilter[sku] = struct{}{}
	}

	result := Result{Balances: map[PositionKey]int{}}

	for _, event := range ordered {
		if scope.UntilInclusive != nil && event.Timestamp.After(*scope.UntilInclusive) {
			continue
		}
		opening := scope.SinceExclusive != nil && event.Timestamp.Before(*scope.SinceExclusive)

		for _, item := range event.ExecutionDetails.Items {
			if len(skuFilter) > 0 {
				if _, ok := skuFilter[item.SKU]; !ok {
					continue
				}
			}

			for _, d := range extractDeltas(event.OperationType, item) {
				key := PositionKey{SKU: item.SKU, BinID: d.binID}
				open := result.Balances[key]
				closing := open + d.delta
				if closing < 0 {
					closing = 0
					if !opening {
						result.Warnings = append(result.Warnings, models.ContinuityIssue{
							SKU:       item.SKU,
							BinID:     d.binID,
							BinCode:   d.binCode,
							Timestamp: event.Timestamp,
							Reason:    "closing clamped to zero: pick exceeds reconstructed balance",
						})
					}
				}
				result.Balances[key] = closing

				if opening {
					continue
				}
				qty := d.delta
				if qty < 0 {
					qty = -qty
				}
				result.Movements = append(result.Movements, models.MovementRecord{
					Timestamp:     event.Timestamp,
					SKU:           item.SKU,
					BinID:         d.binID,
					BinCode:       d.binCode,
					OperationType: event.OperationType,
					Quantity:      qty,
					Opening:       open,
					Closing:       closing,
				})
			}
		}
	}

	result.Warnings = append(result.Warnings, checkContinuity(result.Movements)...)
	return result
}

// extractDeltas maps an operation item to bin-level deltas. Putaways carry
// an allocation plan, picks a picked-bin list; records written before
// per-bin plans existed fall back to the flat fields.
func extractDeltas(op models.OperationType, item models.OperationItem) []binDelta {
	switch {
	case op == models.OperationPutaway && len(item.AllocationPlan) > 0:
		deltas := make([]binDelta, 0, len(item.AllocationPlan))
		for _, alloc := range item.AllocationPlan {
			deltas = append(deltas, binDelta{binID: alloc.BinID, binCode: alloc.BinCode, delta: alloc.AllocatedQuantity})
		}
		return deltas

	case op == models.OperationPick && len(item.PickedBins) > 0:
		deltas := make([]binDelta, 0, len(item.PickedBins))
		for _, picked := range item.PickedBins {
			deltas = append(deltas, binDelta{binID: picked.BinID, binCode: picked.BinCode, delta: -picked.Quantity})
		}
		return deltas
	}

	// Legacy flat record.
	if item.BinID == "" {
		return nil
	}
	qty := item.Quantity
	if op == models.OperationPick {
		if item.PickedQty > 0 {
			qty = item.PickedQty
		}
		qty = -qty
	}
	if qty == 0 {
		return nil
	}
	return []binDelta{{binID: item.BinID, binCode: item.BinCode, delta: qty}}
}

// checkContinuity verifies that, per position, each movement opens exactly
// where the previous one closed. A gap means the input was out of order or
// corrupted upstream; it is reported, never repaired.
func checkContinuity(movements []models.MovementRecord) []models.ContinuityIssue {
	lastClosing := map[PositionKey]int{}
	seen := map[PositionKey]bool{}

	var issues []models.ContinuityIssue
	for _, mv := range movements {
		key := PositionKey{SKU: mv.SKU, BinID: mv.BinID}
		if seen[key] && mv.Opening != lastClosing[key] {
			issues = append(issues, models.ContinuityIssue{
				SKU:       mv.SKU,
				BinID:     mv.BinID,
				BinCode:   mv.BinCode,
				Timestamp: mv.Timestamp,
				Reason:    "opening/closing gap between consecutive movements",
			})
		}
		seen[key] = true
		lastClosing[key] = mv.Closing
	}
	return issues
}
