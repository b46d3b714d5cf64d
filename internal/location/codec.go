// Package location implements the canonical bin-address codec. A location
// code fully identifies one bin:
//
//	WH-GF-R01-G01-A1
//	│  │  │   │   └─ level letter + position within the level
//	│  │  │   └───── grid number, zero padded
//	│  │  └───────── rack number, zero padded
//	│  └──────────── floor code
//	└─────────────── warehouse code
//
// Codes are the one externally visible wire format: QR labels and exported
// reports carry them, so Encode and Decode must stay exact inverses.
package location

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/binpoint/wms/internal/domain/models"
)

// Coordinates are the structured parts of a location code.
type Coordinates struct {
	WarehouseCode string
	Floor         models.Floor
	RackNumber    int
	GridNumber    int
	Level         string
	Position      int
}

// Encode renders coordinates as a canonical location code. It performs no
// validation; malformed coordinates produce a code Decode will reject.
func Encode(c Coordinates) string {
	return fmt.Sprintf("%s-%s-R%02d-G%02d-%s%d",
		c.WarehouseCode, c.Floor, c.RackNumber, c.GridNumber, c.Level, c.Position)
}

// Decode parses a canonical location code back into coordinates. It returns
// a *models.MalformedLocationCodeError when the code does not match the
// grammar.
func Decode(code string) (Coordinates, error) {
	parts := strings.Split(code, "-")
	if len(parts) != 5 {
		return Coordinates{}, &models.MalformedLocationCodeError{
			Code:   code,
			Reason: fmt.Sprintf("expected 5 segments, got %d", len(parts)),
		}
	}

	warehouseCode, floor, rackSeg, gridSeg, binSeg := parts[0], parts[1], parts[2], parts[3], parts[4]

	if warehouseCode == "" {
		return Coordinates{}, &models.MalformedLocationCodeError{Code: code, Reason: "empty warehouse code"}
	}
	if floor == "" {
		return Coordinates{}, &models.MalformedLocationCodeError{Code: code, Reason: "empty floor code"}
	}

	rackNumber, err := parsePaddedSegment(rackSeg, 'R')
	if err != nil {
		return Coordinates{}, &models.MalformedLocationCodeError{Code: code, Reason: err.Error()}
	}
	gridNumber, err := parsePaddedSegment(gridSeg, 'G')
	if err != nil {
		return Coordinates{}, &models.MalformedLocationCodeError{Code: code, Reason: err.Error()}
	}

	level, position, err := parseBinSegment(binSeg)
	if err != nil {
		return Coordinates{}, &models.MalformedLocationCodeError{Code: code, Reason: err.Error()}
	}

	return Coordinates{
		WarehouseCode: warehouseCode,
		Floor:         models.Floor(floor),
		RackNumber:    rackNumber,
		GridNumber:    gridNumber,
		Level:         level,
		Position:      position,
	}, nil
}

// parsePaddedSegment parses "R01"/"G07" style segments: a tag letter
// followed by exactly two digits.
func parsePaddedSegment(seg string, tag byte) (int, error) {
	if len(seg) != 3 || seg[0] != tag || !allDigits(seg[1:]) {
		return 0, fmt.Errorf("segment %q must be %c followed by two digits", seg, tag)
	}
	n, _ := strconv.Atoi(seg[1:])
	return n, nil
}

// parseBinSegment parses the trailing "A1" segment: one uppercase level
// letter followed by an unpadded positive position.
func parseBinSegment(seg string) (string, int, error) {
	if len(seg) < 2 || seg[0] < 'A' || seg[0] > 'Z' || !allDigits(seg[1:]) {
		return "", 0, fmt.Errorf("bin segment %q must be an uppercase letter followed by digits", seg)
	}
	pos, _ := strconv.Atoi(seg[1:])
	if pos < 1 {
		return "", 0, fmt.Errorf("bin segment %q must end with a positive position", seg)
	}
	return string(seg[0]), pos, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
