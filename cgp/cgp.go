// Package cgp encodes and decodes the compact single-line board record
// used as the interchange format between the replay engine and the
// matcher: 15 run-length-encoded row segments joined by "/", followed by
// the rack of the player on turn, both scores, and a lex trailer.
//
// Example: 15/15/7ARGUE3/15/... ABCDEFG/ 72 65 lex NWL23;
package cgp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/domino14/cgplocate/board"
)

// DefaultLexicon is written when a record is encoded without a lexicon.
const DefaultLexicon = "NWL23"

// ErrMalformedNumeric is returned when a score field does not parse.
var ErrMalformedNumeric = errors.New("malformed numeric field")

// Pos is a 0-indexed board position.
type Pos struct {
	Row int
	Col int
}

var scoresRegexp = regexp.MustCompile(`/\s*(\d+)\s+(\d+)`)

// Encode serializes a board plus rack/score/lexicon fields into a board
// record. Digits denote runs of consecutive empty squares; letters denote
// occupied squares, lowercase if the tile was a blank. The rack is the
// on-turn player's; the opponent's rack is unknown at replay time, hence
// the bare trailing slash.
func Encode(b *board.GameBoard, rack string, score0, score1 int, lexicon string) string {
	var sb strings.Builder
	for r := 0; r < b.Dim(); r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < b.Dim(); c++ {
			sq := b.GetSquare(r, c)
			if sq.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(sq.UserVisible())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	if lexicon == "" {
		lexicon = DefaultLexicon
	}
	return fmt.Sprintf("%s %s/ %d %d lex %s;", sb.String(), rack, score0, score1, lexicon)
}

// boardSegment returns the leading board portion of a record.
func boardSegment(record string) string {
	if idx := strings.IndexByte(record, ' '); idx >= 0 {
		return record[:idx]
	}
	return record
}

// walkSegment decompresses the row-major board segment, calling visit for
// every occupied square. Digit runs advance the column counter by their
// full numeric value.
func walkSegment(record string, visit func(pos Pos, letter byte)) {
	rows := strings.Split(boardSegment(record), "/")
	for r, row := range rows {
		c := 0
		lastN := ""
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '0' && ch <= '9' {
				lastN += string(ch)
				continue
			}
			if lastN != "" {
				n, _ := strconv.Atoi(lastN)
				c += n
				lastN = ""
			}
			visit(Pos{Row: r, Col: c}, ch)
			c++
		}
	}
}

// DecodeOccupancy returns the set of occupied positions in a record.
func DecodeOccupancy(record string) map[Pos]bool {
	occ := map[Pos]bool{}
	walkSegment(record, func(pos Pos, letter byte) {
		occ[pos] = true
	})
	return occ
}

// DecodeLetters returns the letter at every occupied position, uppercased
// so blank-derived tiles compare equal to regular ones.
func DecodeLetters(record string) map[Pos]byte {
	letters := map[Pos]byte{}
	walkSegment(record, func(pos Pos, letter byte) {
		if letter >= 'a' && letter <= 'z' {
			letter = letter - 'a' + 'A'
		}
		letters[pos] = letter
	})
	return letters
}

// DecodeScores extracts the two scores that follow the rack field.
func DecodeScores(record string) (int, int, error) {
	m := scoresRegexp.FindStringSubmatch(record)
	if m == nil {
		return 0, 0, ErrMalformedNumeric
	}
	s0, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, ErrMalformedNumeric
	}
	s1, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, ErrMalformedNumeric
	}
	return s0, s1, nil
}
