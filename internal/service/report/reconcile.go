package report

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/service/ledger"
	"github.com/binpoint/wms/internal/store"
)

// StockMismatch is one disagreement between the replayed ledger and the
// quantity a bin currently claims to hold.
type StockMismatch struct {
	SKU       string `json:"sku"`
	BinID     string `json:"bin_id"`
	BinCode   string `json:"bin_code,omitempty"`
	LedgerQty int    `json:"ledger_qty"`
	BinQty    int    `json:"bin_qty"`
}

// ReconcileCurrentStock replays the full operation history of a warehouse
// and compares the resulting balances against the stored bin quantities.
// An empty result means ledger and bins agree as of now. Nothing is
// written; fixing a divergence is the operator's call.
func (s *Service) ReconcileCurrentStock(ctx context.Context, warehouseID string) ([]StockMismatch, error) {
	var events []models.OperationHistoryEntry
	err := s.store.List(ctx, store.OperationHistoryPath(warehouseID), nil,
		&store.OrderBy{Field: "timestamp"}, &events)
	if err != nil {
		return nil, fmt.Errorf("load operation history of %s: %w", warehouseID, err)
	}

	var bins []models.Bin
	if err := s.store.List(ctx, store.BinsPath(warehouseID), nil, &store.OrderBy{Field: "code"}, &bins); err != nil {
		return nil, fmt.Errorf("load bins of %s: %w", warehouseID, err)
	}

	result := ledger.Replay(events, ledger.Scope{})

	binQty := map[ledger.PositionKey]int{}
	binCodes := map[string]string{}
	for _, bin := range bins {
		binCodes[bin.ID] = bin.Code
		if len(bin.MixedContents) > 0 {
			for _, mc := range bin.MixedContents {
				binQty[ledger.PositionKey{SKU: mc.SKU, BinID: bin.ID}] = mc.Quantity
			}
			continue
		}
		if bin.SKU != "" || bin.CurrentQty > 0 {
			binQty[ledger.PositionKey{SKU: bin.SKU, BinID: bin.ID}] = bin.CurrentQty
		}
	}

	var mismatches []StockMismatch
	for key, qty := range result.Balances {
		if qty == binQty[key] {
			continue
		}
		mismatches = append(mismatches, StockMismatch{
			SKU:       key.SKU,
			BinID:     key.BinID,
			BinCode:   binCodes[key.BinID],
			LedgerQty: qty,
			BinQty:    binQty[key],
		})
	}
	// Stock present in a bin but absent from history entirely.
	for key, qty := range binQty {
		if qty == 0 {
			continue
		}
		if _, replayed := result.Balances[key]; !replayed {
			mismatches = append(mismatches, StockMismatch{
				SKU:     key.SKU,
				BinID:   key.BinID,
				BinCode: binCodes[key.BinID],
				BinQty:  qty,
			})
		}
	}

	sort.Slice(mismatches, func(i, j int) bool {
		if mismatches[i].BinID != mismatches[j].BinID {
			return mismatches[i].BinID < mismatches[j].BinID
		}
		return mismatches[i].SKU < mismatches[j].SKU
	})

	if len(mismatches) > 0 {
		s.logger.Warn("stock reconciliation found divergence",
			zap.String("warehouse_id", warehouseID),
			zap.Int("mismatches", len(mismatches)))
	}
	return mismatches, nil
}
