// Package move implements the board coordinate notation used by GCG
// move logs and by the rest of this module.
package move

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedCoordinate is returned when a token is neither a horizontal
// nor a vertical coordinate. Callers should treat this as "not a tile
// placement" (a pass marker, an event marker, etc), not as a hard failure.
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// Columns run A-O on the standard 15x15 board. Some malformed logs emit
// more than one column letter; we only ever use the first one.
var (
	reVertical   = regexp.MustCompile(`^([A-O]{1,2})([0-9]{1,2})$`)
	reHorizontal = regexp.MustCompile(`^([0-9]{1,2})([A-O]{1,2})$`)
)

// FromBoardGameCoords converts a coordinate like 5F or G4 to a numeric
// row, col and orientation, all 0-indexed. Number-then-letter (5F) is a
// horizontal play; letter-then-number (G4) is vertical. Case-insensitive.
func FromBoardGameCoords(c string) (int, int, bool, error) {
	c = strings.ToUpper(c)
	if hMatches := reHorizontal.FindStringSubmatch(c); len(hMatches) == 3 {
		row, _ := strconv.Atoi(hMatches[1])
		if row < 1 || row > 15 {
			return 0, 0, false, ErrMalformedCoordinate
		}
		col := int(hMatches[2][0] - 'A')
		return row - 1, col, false, nil
	}
	if vMatches := reVertical.FindStringSubmatch(c); len(vMatches) == 3 {
		row, _ := strconv.Atoi(vMatches[2])
		if row < 1 || row > 15 {
			return 0, 0, false, ErrMalformedCoordinate
		}
		col := int(vMatches[1][0] - 'A')
		return row - 1, col, true, nil
	}
	return 0, 0, false, ErrMalformedCoordinate
}

// ToBoardGameCoords does the inverse operation of FromBoardGameCoords
// above.
func ToBoardGameCoords(row int, col int, vertical bool) string {
	colCoords := string(rune('A' + col))
	rowCoords := strconv.Itoa(row + 1)
	if vertical {
		return colCoords + rowCoords
	}
	return rowCoords + colCoords
}
