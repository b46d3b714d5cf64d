// Package report shapes ledger replays into movement reports and hands
// them to delivery sinks. Projection is a pure presentation step: all
// scoping and filtering happens in the ledger replay.
package report

import (
	"github.com/binpoint/wms/internal/domain/models"
)

// Direction controls row ordering for display.
type Direction int

const (
	MostRecentFirst Direction = iota
	OldestFirst
)

// Project orders movement rows for display and aggregates the summary.
// It never filters and keeps no state.
func Project(movements []models.MovementRecord, direction Direction) ([]models.MovementRecord, models.ReportSummary) {
	rows := make([]models.MovementRecord, len(movements))
	copy(rows, movements)
	if direction == MostRecentFirst {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	summary := models.ReportSummary{TotalMovements: len(rows)}
	skus := map[string]struct{}{}
	locations := map[string]struct{}{}
	for _, row := range rows {
		switch row.OperationType {
		case models.OperationPutaway:
			summary.PutawayCount++
		case models.OperationPick:
			summary.PickCount++
		}
		summary.TotalQuantityMoved += row.Quantity
		skus[row.SKU] = struct{}{}
		locations[row.BinCode] = struct{}{}
	}
	summary.UniqueSKUs = len(skus)
	summary.UniqueLocations = len(locations)

	return rows, summary
}
