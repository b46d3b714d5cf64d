package models

import "time"

// Rack describes one storage rack and the grid/level/position layout that
// determines the bins it owns. LevelsPerGrid holds the level letters in
// order, contiguous from 'A'.
type Rack struct {
	ID                string    `bson:"_id" json:"id"`
	WarehouseID       string    `bson:"warehouse_id" json:"warehouse_id"`
	Floor             Floor     `bson:"floor" json:"floor"`
	RackNumber        int       `bson:"rack_number" json:"rack_number"`
	GridCount         int       `bson:"grid_count" json:"grid_count"`
	LevelsPerGrid     []string  `bson:"levels_per_grid" json:"levels_per_grid"`
	BinsPerLevel      int       `bson:"bins_per_level" json:"bins_per_level"`
	MaxProductsPerBin int       `bson:"max_products_per_bin" json:"max_products_per_bin"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// TotalBins is the number of bins the rack layout yields.
func (r Rack) TotalBins() int {
	return r.GridCount * len(r.LevelsPerGrid) * r.BinsPerLevel
}

// RackConfig is the caller-supplied layout for creating or resizing a rack.
type RackConfig struct {
	Floor             Floor    `json:"floor" binding:"required"`
	RackNumber        int      `json:"rack_number" binding:"required"`
	GridCount         int      `json:"grid_count" binding:"required"`
	LevelsPerGrid     []string `json:"levels_per_grid" binding:"required"`
	BinsPerLevel      int      `json:"bins_per_level" binding:"required"`
	MaxProductsPerBin int      `json:"max_products_per_bin" binding:"required"`
}

// CreateRackResult is returned by a successful rack creation.
type CreateRackResult struct {
	Rack          Rack `json:"rack"`
	TotalBins     int  `json:"total_bins"`
	TotalCapacity int  `json:"total_capacity"`
}

// UpdateRackResult summarizes the effect of a rack resize.
type UpdateRackResult struct {
	Rack                 Rack `json:"rack"`
	BinsAdded            int  `json:"bins_added"`
	BinsRemoved          int  `json:"bins_removed"`
	CapacityUpdated      bool `json:"capacity_updated"`
	LocationCodesUpdated int  `json:"location_codes_updated"`
}
