package location

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/binpoint/wms/internal/domain/models"
)

// Two earlier encodings survive in old labels and exported documents:
//
//	WH-GF-R01-A-3     grid written as a letter (A = grid 1), position flat
//	WH-GF-R01-C2      bin letter counted across the whole rack, grid as
//	                  a numeric suffix
//
// ConvertLegacyCode rewrites either into the canonical scheme. It exists
// for one-time label migration jobs only; nothing on the live write path
// may call it.

// ConvertLegacyCode converts a historical location code into the canonical
// format, given the rack layout the code was issued under. Canonical input
// passes through unchanged.
func ConvertLegacyCode(code string, levelsPerGrid []string, binsPerLevel int) (string, error) {
	if c, err := Decode(code); err == nil {
		return Encode(c), nil
	}

	parts := strings.Split(code, "-")
	if len(parts) == 5 {
		return convertGridLetter(code, parts)
	}
	if len(parts) == 4 {
		return convertRackWideBinLetter(code, parts, levelsPerGrid, binsPerLevel)
	}

	return "", &models.MalformedLocationCodeError{Code: code, Reason: "not a known legacy encoding"}
}

// convertGridLetter handles WH-GF-R01-A-3: segment 4 is the grid as a
// letter, segment 5 the flat position. Levels did not exist yet, so every
// converted bin lands on level A.
func convertGridLetter(code string, parts []string) (string, error) {
	gridSeg, posSeg := parts[3], parts[4]
	if len(gridSeg) != 1 || gridSeg[0] < 'A' || gridSeg[0] > 'Z' || !allDigits(posSeg) {
		return "", &models.MalformedLocationCodeError{Code: code, Reason: "not a known legacy encoding"}
	}

	rackNumber, err := parsePaddedSegment(parts[2], 'R')
	if err != nil {
		return "", &models.MalformedLocationCodeError{Code: code, Reason: err.Error()}
	}

	pos, _ := strconv.Atoi(posSeg)
	return Encode(Coordinates{
		WarehouseCode: parts[0],
		Floor:         models.Floor(parts[1]),
		RackNumber:    rackNumber,
		GridNumber:    int(gridSeg[0]-'A') + 1,
		Level:         "A",
		Position:      pos,
	}), nil
}

// convertRackWideBinLetter handles WH-GF-R01-C2: the letter counts levels
// across the whole rack and the digit is the grid. The letter is folded
// back into a (grid-local level, position) pair using the layout the rack
// had at issue time.
func convertRackWideBinLetter(code string, parts []string, levelsPerGrid []string, binsPerLevel int) (string, error) {
	if len(levelsPerGrid) == 0 || binsPerLevel < 1 {
		return "", fmt.Errorf("legacy conversion of %q requires the original rack layout", code)
	}

	binSeg := parts[3]
	if len(binSeg) < 2 || binSeg[0] < 'A' || binSeg[0] > 'Z' || !allDigits(binSeg[1:]) {
		return "", &models.MalformedLocationCodeError{Code: code, Reason: "not a known legacy encoding"}
	}

	rackNumber, err := parsePaddedSegment(parts[2], 'R')
	if err != nil {
		return "", &models.MalformedLocationCodeError{Code: code, Reason: err.Error()}
	}

	grid, _ := strconv.Atoi(binSeg[1:])
	if grid < 1 {
		return "", &models.MalformedLocationCodeError{Code: code, Reason: "grid suffix must be positive"}
	}

	// The rack-wide letter enumerates (level, position) pairs level-major.
	ordinal := int(binSeg[0] - 'A')
	levelIdx := ordinal / binsPerLevel
	if levelIdx >= len(levelsPerGrid) {
		return "", &models.MalformedLocationCodeError{
			Code:   code,
			Reason: fmt.Sprintf("bin letter %c exceeds layout of %d level(s)", binSeg[0], len(levelsPerGrid)),
		}
	}

	return Encode(Coordinates{
		WarehouseCode: parts[0],
		Floor:         models.Floor(parts[1]),
		RackNumber:    rackNumber,
		GridNumber:    grid,
		Level:         levelsPerGrid[levelIdx],
		Position:      ordinal%binsPerLevel + 1,
	}), nil
}
