package models

import "time"

// OperationType distinguishes the two recorded stock operations.
type OperationType string

const (
	OperationPutaway OperationType = "putaway"
	OperationPick    OperationType = "pick"
)

// BinAllocation is one putaway target inside an item's allocation plan.
type BinAllocation struct {
	BinID             string `bson:"bin_id" json:"bin_id"`
	BinCode           string `bson:"bin_code" json:"bin_code"`
	AllocatedQuantity int    `bson:"allocated_quantity" json:"allocated_quantity"`
	Reason            string `bson:"reason,omitempty" json:"reason,omitempty"`
}

// PickedBin is one bin an item was picked from.
type PickedBin struct {
	BinID    string `bson:"bin_id" json:"bin_id"`
	BinCode  string `bson:"bin_code" json:"bin_code"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// OperationItem is one SKU line inside an operation. Exactly one of the
// three shapes is populated: AllocationPlan for putaways, PickedBins for
// picks, or the flat legacy fields written before per-bin plans existed.
type OperationItem struct {
	SKU            string          `bson:"sku" json:"sku"`
	Barcode        string          `bson:"barcode,omitempty" json:"barcode,omitempty"`
	AllocationPlan []BinAllocation `bson:"allocation_plan,omitempty" json:"allocation_plan,omitempty"`
	PickedBins     []PickedBin     `bson:"picked_bins,omitempty" json:"picked_bins,omitempty"`

	// Legacy flat shape.
	BinID     string `bson:"bin_id,omitempty" json:"bin_id,omitempty"`
	BinCode   string `bson:"bin_code,omitempty" json:"bin_code,omitempty"`
	Quantity  int    `bson:"quantity,omitempty" json:"quantity,omitempty"`
	PickedQty int    `bson:"picked_qty,omitempty" json:"picked_qty,omitempty"`
}

// ExecutionDetails wraps the item lines of an executed operation.
type ExecutionDetails struct {
	Items []OperationItem `bson:"items" json:"items"`
}

// OperationHistoryEntry is one append-only record of an executed putaway
// or pick. Timestamps are not guaranteed strictly increasing; replay sorts.
type OperationHistoryEntry struct {
	ID               string           `bson:"_id" json:"id"`
	WarehouseID      string           `bson:"warehouse_id" json:"warehouse_id"`
	OperationType    OperationType    `bson:"operation_type" json:"operation_type"`
	Timestamp        time.Time        `bson:"timestamp" json:"timestamp"`
	ExecutionDetails ExecutionDetails `bson:"execution_details" json:"execution_details"`
}
