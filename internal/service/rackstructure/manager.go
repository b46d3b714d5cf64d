// Package rackstructure manages the lifecycle of racks and the bins they
// own: creation with a full bin structure, resizing without destroying
// stock, and deletion of empty racks. Every mutation of one rack runs
// inside a single store transaction, so concurrent callers cannot race the
// read-validate-write sequence.
package rackstructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/location"
	"github.com/binpoint/wms/internal/store"
	"github.com/binpoint/wms/internal/topology"
)

// ErrInvalidConfig wraps every rejected rack configuration.
var ErrInvalidConfig = errors.New("invalid rack configuration")

const (
	minRackNumber  = 1
	maxRackNumber  = 99
	maxSuggestions = 5
)

// Manager exposes rack structure lifecycle operations.
type Manager interface {
	CreateRackWithStructure(ctx context.Context, warehouseID string, cfg models.RackConfig) (*models.CreateRackResult, error)
	UpdateRackStructure(ctx context.Context, warehouseID, rackID string, cfg models.RackConfig) (*models.UpdateRackResult, error)
	DeleteRackStructure(ctx context.Context, warehouseID, rackID string) error
}

type manager struct {
	store  store.Store
	logger *zap.Logger
}

// NewManager wires a rack structure manager against the given store.
func NewManager(st store.Store, logger *zap.Logger) Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &manager{store: st, logger: logger}
}

// CreateRackWithStructure persists a rack and one bin per slot of its
// layout. It fails with *models.RackNumberConflict when the rack number is
// already taken on that floor, carrying gap-filling suggestions.
func (m *manager) CreateRackWithStructure(ctx context.Context, warehouseID string, cfg models.RackConfig) (*models.CreateRackResult, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	var result *models.CreateRackResult
	err := m.store.Transaction(ctx, func(ctx context.Context, tx store.Store) error {
		var warehouse models.Warehouse
		if err := tx.Get(ctx, store.WarehousesPath(), warehouseID, &warehouse); err != nil {
			return fmt.Errorf("load warehouse %s: %w", warehouseID, err)
		}

		if err := m.checkRackNumberFree(ctx, tx, warehouseID, cfg.Floor, cfg.RackNumber, ""); err != nil {
			return err
		}

		now := time.Now().UTC()
		rack := models.Rack{
			ID:                uuid.NewString(),
			WarehouseID:       warehouseID,
			Floor:             cfg.Floor,
			RackNumber:        cfg.RackNumber,
			GridCount:         cfg.GridCount,
			LevelsPerGrid:     cfg.LevelsPerGrid,
			BinsPerLevel:      cfg.BinsPerLevel,
			MaxProductsPerBin: cfg.MaxProductsPerBin,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.Create(ctx, store.RacksPath(warehouseID), rack.ID, rack); err != nil {
			return fmt.Errorf("persist rack: %w", err)
		}

		slots := topology.Enumerate(cfg.GridCount, cfg.LevelsPerGrid, cfg.BinsPerLevel)
		for _, slot := range slots {
			bin := newBin(rack, warehouse.Code, slot)
			if err := tx.Create(ctx, store.BinsPath(warehouseID), bin.ID, bin); err != nil {
				return fmt.Errorf("persist bin %s: %w", bin.Code, err)
			}
		}

		result = &models.CreateRackResult{
			Rack:          rack,
			TotalBins:     len(slots),
			TotalCapacity: len(slots) * cfg.MaxProductsPerBin,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("rack created",
		zap.String("warehouse_id", warehouseID),
		zap.String("rack_id", result.Rack.ID),
		zap.String("floor", string(cfg.Floor)),
		zap.Int("rack_number", cfg.RackNumber),
		zap.Int("total_bins", result.TotalBins))
	return result, nil
}

// UpdateRackStructure resizes or renumbers a rack. The update is all or
// nothing: when any bin slated for removal still holds stock, the call
// fails with *models.NonEmptyBinShrink listing every offending bin and no
// change is applied.
func (m *manager) UpdateRackStructure(ctx context.Context, warehouseID, rackID string, cfg models.RackConfig) (*models.UpdateRackResult, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	var result *models.UpdateRackResult
	err := m.store.Transaction(ctx, func(ctx context.Context, tx store.Store) error {
		var warehouse models.Warehouse
		if err := tx.Get(ctx, store.WarehousesPath(), warehouseID, &warehouse); err != nil {
			return fmt.Errorf("load warehouse %s: %w", warehouseID, err)
		}
		var rack models.Rack
		if err := tx.Get(ctx, store.RacksPath(warehouseID), rackID, &rack); err != nil {
			return fmt.Errorf("load rack %s: %w", rackID, err)
		}

		addressChanged := rack.Floor != cfg.Floor || rack.RackNumber != cfg.RackNumber
		if addressChanged {
			if err := m.checkRackNumberFree(ctx, tx, warehouseID, cfg.Floor, cfg.RackNumber, rackID); err != nil {
				return err
			}
		}

		var bins []models.Bin
		if err := tx.List(ctx, store.BinsPath(warehouseID), store.Filter{"rack_id": rackID}, &store.OrderBy{Field: "code"}, &bins); err != nil {
			return fmt.Errorf("load bins of rack %s: %w", rackID, err)
		}

		diff := topology.ComputeDiff(bins, cfg.GridCount, cfg.LevelsPerGrid, cfg.BinsPerLevel)

		var offending []models.BinContent
		for _, bin := range diff.ToRemove {
			offending = append(offending, bin.Contents()...)
		}
		if len(offending) > 0 {
			return &models.NonEmptyBinShrink{RackID: rackID, Bins: offending}
		}

		capacityChanged := rack.MaxProductsPerBin != cfg.MaxProductsPerBin

		updated := rack
		updated.Floor = cfg.Floor
		updated.RackNumber = cfg.RackNumber
		updated.GridCount = cfg.GridCount
		updated.LevelsPerGrid = cfg.LevelsPerGrid
		updated.BinsPerLevel = cfg.BinsPerLevel
		updated.MaxProductsPerBin = cfg.MaxProductsPerBin
		updated.UpdatedAt = time.Now().UTC()

		if err := tx.Update(ctx, store.RacksPath(warehouseID), rackID, map[string]any{
			"floor":                updated.Floor,
			"rack_number":          updated.RackNumber,
			"grid_count":           updated.GridCount,
			"levels_per_grid":      updated.LevelsPerGrid,
			"bins_per_level":       updated.BinsPerLevel,
			"max_products_per_bin": updated.MaxProductsPerBin,
			"updated_at":           updated.UpdatedAt,
		}); err != nil {
			return fmt.Errorf("persist rack update: %w", err)
		}

		for _, slot := range diff.ToCreate {
			bin := newBin(updated, warehouse.Code, slot)
			if err := tx.Create(ctx, store.BinsPath(warehouseID), bin.ID, bin); err != nil {
				return fmt.Errorf("persist bin %s: %w", bin.Code, err)
			}
		}
		for _, bin := range diff.ToRemove {
			if err := tx.Delete(ctx, store.BinsPath(warehouseID), bin.ID); err != nil {
				return fmt.Errorf("delete bin %s: %w", bin.Code, err)
			}
		}

		removedIDs := make(map[string]struct{}, len(diff.ToRemove))
		for _, bin := range diff.ToRemove {
			removedIDs[bin.ID] = struct{}{}
		}

		codesUpdated := 0
		for _, bin := range bins {
			if _, gone := removedIDs[bin.ID]; gone {
				continue
			}
			patch := map[string]any{}
			if capacityChanged {
				patch["capacity"] = cfg.MaxProductsPerBin
			}
			if addressChanged {
				code := location.Encode(location.Coordinates{
					WarehouseCode: warehouse.Code,
					Floor:         cfg.Floor,
					RackNumber:    cfg.RackNumber,
					GridNumber:    bin.GridNumber,
					Level:         bin.Level,
					Position:      bin.Position,
				})
				patch["code"] = code
				codesUpdated++
			}
			if len(patch) == 0 {
				continue
			}
			if err := tx.Update(ctx, store.BinsPath(warehouseID), bin.ID, patch); err != nil {
				return fmt.Errorf("update bin %s: %w", bin.Code, err)
			}
		}

		result = &models.UpdateRackResult{
			Rack:                 updated,
			BinsAdded:            len(diff.ToCreate),
			BinsRemoved:          len(diff.ToRemove),
			CapacityUpdated:      capacityChanged,
			LocationCodesUpdated: codesUpdated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("rack updated",
		zap.String("warehouse_id", warehouseID),
		zap.String("rack_id", rackID),
		zap.Int("bins_added", result.BinsAdded),
		zap.Int("bins_removed", result.BinsRemoved),
		zap.Int("codes_updated", result.LocationCodesUpdated))
	return result, nil
}

// DeleteRackStructure removes a rack and its bins. Racks with any occupied
// bin are refused with *models.RackNotEmpty.
func (m *manager) DeleteRackStructure(ctx context.Context, warehouseID, rackID string) error {
	err := m.store.Transaction(ctx, func(ctx context.Context, tx store.Store) error {
		var rack models.Rack
		if err := tx.Get(ctx, store.RacksPath(warehouseID), rackID, &rack); err != nil {
			return fmt.Errorf("load rack %s: %w", rackID, err)
		}

		var bins []models.Bin
		if err := tx.List(ctx, store.BinsPath(warehouseID), store.Filter{"rack_id": rackID}, &store.OrderBy{Field: "code"}, &bins); err != nil {
			return fmt.Errorf("load bins of rack %s: %w", rackID, err)
		}

		var occupied []models.BinContent
		for _, bin := range bins {
			occupied = append(occupied, bin.Contents()...)
		}
		if len(occupied) > 0 {
			return &models.RackNotEmpty{RackID: rackID, Bins: occupied}
		}

		for _, bin := range bins {
			if err := tx.Delete(ctx, store.BinsPath(warehouseID), bin.ID); err != nil {
				return fmt.Errorf("delete bin %s: %w", bin.Code, err)
			}
		}
		if err := tx.Delete(ctx, store.RacksPath(warehouseID), rackID); err != nil {
			return fmt.Errorf("delete rack %s: %w", rackID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("rack deleted",
		zap.String("warehouse_id", warehouseID),
		zap.String("rack_id", rackID))
	return nil
}

// checkRackNumberFree rejects a (floor, rackNumber) pair already used in
// the warehouse. excludeRackID skips the rack being updated.
func (m *manager) checkRackNumberFree(ctx context.Context, tx store.Store, warehouseID string, floor models.Floor, rackNumber int, excludeRackID string) error {
	var racks []models.Rack
	if err := tx.List(ctx, store.RacksPath(warehouseID), store.Filter{"floor": floor}, &store.OrderBy{Field: "rack_number"}, &racks); err != nil {
		return fmt.Errorf("list racks on floor %s: %w", floor, err)
	}

	used := make(map[int]struct{}, len(racks))
	var conflict *models.Rack
	for i, rack := range racks {
		if rack.ID == excludeRackID {
			continue
		}
		used[rack.RackNumber] = struct{}{}
		if rack.RackNumber == rackNumber {
			conflict = &racks[i]
		}
	}
	if conflict == nil {
		return nil
	}

	return &models.RackNumberConflict{
		Floor:           floor,
		RackNumber:      rackNumber,
		ConflictingRack: *conflict,
		Suggestions:     suggestRackNumbers(used),
	}
}

// suggestRackNumbers gap-fills: ascending from 1, up to five unused
// numbers within the 1-99 domain.
func suggestRackNumbers(used map[int]struct{}) []int {
	suggestions := make([]int, 0, maxSuggestions)
	for n := minRackNumber; n <= maxRackNumber && len(suggestions) < maxSuggestions; n++ {
		if _, taken := used[n]; !taken {
			suggestions = append(suggestions, n)
		}
	}
	return suggestions
}

func newBin(rack models.Rack, warehouseCode string, slot topology.Slot) models.Bin {
	return models.Bin{
		ID:         uuid.NewString(),
		RackID:     rack.ID,
		GridNumber: slot.GridNumber,
		Level:      slot.Level,
		Position:   slot.Position,
		Code: location.Encode(location.Coordinates{
			WarehouseCode: warehouseCode,
			Floor:         rack.Floor,
			RackNumber:    rack.RackNumber,
			GridNumber:    slot.GridNumber,
			Level:         slot.Level,
			Position:      slot.Position,
		}),
		Capacity:   rack.MaxProductsPerBin,
		CurrentQty: 0,
		Status:     models.BinAvailable,
	}
}

func validateConfig(cfg models.RackConfig) error {
	if !cfg.Floor.Valid() {
		return fmt.Errorf("%w: unknown floor %q", ErrInvalidConfig, cfg.Floor)
	}
	if cfg.RackNumber < minRackNumber || cfg.RackNumber > maxRackNumber {
		return fmt.Errorf("%w: rack number %d outside %d-%d", ErrInvalidConfig, cfg.RackNumber, minRackNumber, maxRackNumber)
	}
	if cfg.GridCount < 1 {
		return fmt.Errorf("%w: grid count must be at least 1", ErrInvalidConfig)
	}
	if len(cfg.LevelsPerGrid) == 0 {
		return fmt.Errorf("%w: at least one level per grid required", ErrInvalidConfig)
	}
	if len(cfg.LevelsPerGrid) > 26 {
		return fmt.Errorf("%w: at most 26 levels per grid supported", ErrInvalidConfig)
	}
	for i, level := range cfg.LevelsPerGrid {
		if level != string(rune('A'+i)) {
			return fmt.Errorf("%w: levels must be contiguous letters from A, got %q at index %d", ErrInvalidConfig, level, i)
		}
	}
	if cfg.BinsPerLevel < 1 {
		return fmt.Errorf("%w: bins per level must be at least 1", ErrInvalidConfig)
	}
	if cfg.MaxProductsPerBin < 1 {
		return fmt.Errorf("%w: max products per bin must be at least 1", ErrInvalidConfig)
	}
	return nil
}
