package topology_test

import (
	"reflect"
	"testing"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/topology"
)

func TestEnumerateOrderAndSize(t *testing.T) {
	slots := topology.Enumerate(2, []string{"A", "B"}, 2)

	want := []topology.Slot{
		{GridNumber: 1, Level: "A", Position: 1},
		{GridNumber: 1, Level: "A", Position: 2},
		{GridNumber: 1, Level: "B", Position: 1},
		{GridNumber: 1, Level: "B", Position: 2},
		{GridNumber: 2, Level: "A", Position: 1},
		{GridNumber: 2, Level: "A", Position: 2},
		{GridNumber: 2, Level: "B", Position: 1},
		{GridNumber: 2, Level: "B", Position: 2},
	}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("Enumerate() = %v, want %v", slots, want)
	}
}

func TestComputeDiff(t *testing.T) {
	current := []models.Bin{
		{ID: "b1", GridNumber: 1, Level: "A", Position: 1},
		{ID: "b2", GridNumber: 1, Level: "A", Position: 2},
		{ID: "b3", GridNumber: 2, Level: "A", Position: 1},
		{ID: "b4", GridNumber: 2, Level: "A", Position: 2},
	}

	t.Run("grow adds a level", func(t *testing.T) {
		diff := topology.ComputeDiff(current, 2, []string{"A", "B"}, 2)
		if len(diff.ToRemove) != 0 {
			t.Errorf("ToRemove = %v, want none", diff.ToRemove)
		}
		if len(diff.ToCreate) != 4 {
			t.Fatalf("ToCreate has %d slots, want 4", len(diff.ToCreate))
		}
		for _, slot := range diff.ToCreate {
			if slot.Level != "B" {
				t.Errorf("unexpected created slot %v", slot)
			}
		}
	})

	t.Run("shrink drops a grid", func(t *testing.T) {
		diff := topology.ComputeDiff(current, 1, []string{"A"}, 2)
		if len(diff.ToCreate) != 0 {
			t.Errorf("ToCreate = %v, want none", diff.ToCreate)
		}
		if len(diff.ToRemove) != 2 {
			t.Fatalf("ToRemove has %d bins, want 2", len(diff.ToRemove))
		}
		for _, bin := range diff.ToRemove {
			if bin.GridNumber != 2 {
				t.Errorf("unexpected removed bin %s in grid %d", bin.ID, bin.GridNumber)
			}
		}
	})

	t.Run("identical layout is a no-op", func(t *testing.T) {
		diff := topology.ComputeDiff(current, 2, []string{"A"}, 2)
		if len(diff.ToCreate) != 0 || len(diff.ToRemove) != 0 {
			t.Errorf("diff = %+v, want empty", diff)
		}
	})
}

func TestLevels(t *testing.T) {
	if got := topology.Levels(3); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Levels(3) = %v", got)
	}
	if got := topology.Levels(30); len(got) != 26 || got[25] != "Z" {
		t.Errorf("Levels(30) = %v, want capped at Z", got)
	}
}
