package models

import "time"

// MovementRecord is one row of a stock-movement report: a single bin-level
// quantity change with the balance immediately before and after it.
type MovementRecord struct {
	Timestamp     time.Time     `bson:"timestamp" json:"timestamp"`
	SKU           string        `bson:"sku" json:"sku"`
	BinID         string        `bson:"bin_id" json:"bin_id"`
	BinCode       string        `bson:"bin_code" json:"bin_code"`
	OperationType OperationType `bson:"operation_type" json:"operation_type"`
	Quantity      int           `bson:"quantity" json:"quantity"`
	Opening       int           `bson:"opening" json:"opening"`
	Closing       int           `bson:"closing" json:"closing"`
}

// ReportSummary aggregates a set of movement rows.
type ReportSummary struct {
	TotalMovements     int `json:"total_movements"`
	PutawayCount       int `json:"putaway_count"`
	PickCount          int `json:"pick_count"`
	TotalQuantityMoved int `json:"total_quantity_moved"`
	UniqueSKUs         int `json:"unique_skus"`
	UniqueLocations    int `json:"unique_locations"`
}

// MovementReport is the finished report handed to sinks and API callers.
// Warnings carry replay continuity findings; they never block the report.
type MovementReport struct {
	WarehouseID string            `json:"warehouse_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Rows        []MovementRecord  `json:"rows"`
	Summary     ReportSummary     `json:"summary"`
	Warnings    []ContinuityIssue `json:"warnings,omitempty"`
}

// MovementReportRequest scopes a movement report. Events before
// SinceExclusive are replayed only to establish opening balances; events
// up to and including UntilInclusive appear as rows. An empty SKUs slice
// means all SKUs.
type MovementReportRequest struct {
	WarehouseID    string     `json:"warehouse_id"`
	SinceExclusive *time.Time `json:"since_exclusive,omitempty"`
	UntilInclusive *time.Time `json:"until_inclusive,omitempty"`
	SKUs           []string   `json:"skus,omitempty"`
	OldestFirst    bool       `json:"oldest_first,omitempty"`
}
