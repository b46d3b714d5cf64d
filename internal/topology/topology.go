// Package topology derives the bin coordinate set a rack layout implies
// and diffs it against the bins a rack currently owns. It is pure
// computation; persistence decisions stay with the caller.
package topology

import (
	"github.com/binpoint/wms/internal/domain/models"
)

// Slot is one (grid, level, position) coordinate inside a rack.
type Slot struct {
	GridNumber int
	Level      string
	Position   int
}

// Enumerate lists every slot the layout yields, grid ascending, then level
// ascending, then position ascending. The order is stable so generated bin
// IDs and codes line up deterministically between runs.
func Enumerate(gridCount int, levelsPerGrid []string, binsPerLevel int) []Slot {
	slots := make([]Slot, 0, gridCount*len(levelsPerGrid)*binsPerLevel)
	for grid := 1; grid <= gridCount; grid++ {
		for _, level := range levelsPerGrid {
			for pos := 1; pos <= binsPerLevel; pos++ {
				slots = append(slots, Slot{GridNumber: grid, Level: level, Position: pos})
			}
		}
	}
	return slots
}

// Diff compares a rack's current bins against a target layout.
type Diff struct {
	ToCreate []Slot
	ToRemove []models.Bin
}

// ComputeDiff returns the slots a resize must create and the bins it must
// remove, keyed by (grid, level, position). Bins whose slot survives are in
// neither list.
func ComputeDiff(currentBins []models.Bin, gridCount int, levelsPerGrid []string, binsPerLevel int) Diff {
	target := Enumerate(gridCount, levelsPerGrid, binsPerLevel)

	existing := make(map[Slot]models.Bin, len(currentBins))
	for _, bin := range currentBins {
		existing[Slot{GridNumber: bin.GridNumber, Level: bin.Level, Position: bin.Position}] = bin
	}

	var diff Diff
	wanted := make(map[Slot]struct{}, len(target))
	for _, slot := range target {
		wanted[slot] = struct{}{}
		if _, ok := existing[slot]; !ok {
			diff.ToCreate = append(diff.ToCreate, slot)
		}
	}
	for _, bin := range currentBins {
		slot := Slot{GridNumber: bin.GridNumber, Level: bin.Level, Position: bin.Position}
		if _, ok := wanted[slot]; !ok {
			diff.ToRemove = append(diff.ToRemove, bin)
		}
	}
	return diff
}

// Levels returns the contiguous level letters A.. for a level count, the
// shape rack layouts are usually requested in.
func Levels(count int) []string {
	levels := make([]string, 0, count)
	for i := 0; i < count && i < 26; i++ {
		levels = append(levels, string(rune('A'+i)))
	}
	return levels
}
