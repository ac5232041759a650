package gcgio

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/rs/zerolog/log"

	"github.com/domino14/cgplocate/game"
	"github.com/domino14/cgplocate/move"
)

// pendingPlacement remembers the last tile placement so it can be undone
// if the next line reports a successful challenge.
type pendingPlacement struct {
	row      int
	col      int
	vertical bool
	word     string
}

// replayer carries the working state of one replay. The working GameState
// is private to the replayer; a deep copy is appended to the history for
// every processed move line, so appended snapshots are never aliased.
type replayer struct {
	state     *game.GameState
	nicknames map[string]int
	pending   *pendingPlacement
	history   game.History
}

func newReplayer() *replayer {
	r := &replayer{
		state:     game.NewGameState(),
		nicknames: map[string]int{},
	}
	r.history = append(r.history, r.state.Copy())
	return r
}

func (r *replayer) snapshot() {
	r.history = append(r.history, r.state.Copy())
}

func (r *replayer) playerIndex(nick string) int {
	if idx, ok := r.nicknames[nick]; ok {
		return idx
	}
	// Unknown name; assume strict alternation.
	return r.state.OnTurn
}

func (r *replayer) applyHeader(l Line) {
	switch l.Tag {
	case TagLexicon:
		r.state.Lexicon = l.Value
	case TagID:
		r.state.GameID = l.Value
	case TagPlayer1, TagPlayer2:
		idx := 0
		if l.Tag == TagPlayer2 {
			idx = 1
		}
		r.state.Players[idx] = l.RealName
		// Move lines may refer to a player by either form.
		r.nicknames[l.Nick] = idx
		r.nicknames[l.RealName] = idx
	}
}

// setCumulative updates the acting player's running total, keeping the
// prior value when the total field did not parse. One corrupt line should
// degrade that turn's score, not abort the whole replay.
func (r *replayer) setCumulative(pidx int, l Line) {
	if !l.CumulOK {
		log.Debug().Str("nick", l.Nick).Str("kind", l.Kind.String()).
			Msg("unparseable running total; keeping prior value")
		return
	}
	r.state.Scores[pidx] = l.Cumul
}

func (r *replayer) applyMove(l Line) {
	pidx := r.playerIndex(l.Nick)
	if l.Rack != "" {
		r.state.Racks[pidx] = l.Rack
	}

	switch l.Kind {
	case KindWithdrawal:
		// The previous play was successfully challenged. Revert the score
		// to the carried total and take the tiles back off the board. The
		// same player moves again.
		r.setCumulative(pidx, l)
		if r.pending != nil {
			r.state.Board.RemoveWord(r.pending.word, r.pending.row, r.pending.col, r.pending.vertical)
			r.pending = nil
		}
		r.snapshot()

	case KindExchange:
		// An exchange cannot be challenged away.
		r.pending = nil
		r.setCumulative(pidx, l)
		r.state.OnTurn = 1 - pidx
		r.snapshot()

	case KindEvent:
		// Challenge bonus, time penalty, bare pass marker: score only.
		r.setCumulative(pidx, l)
		r.snapshot()

	case KindEndAdjustment:
		r.pending = nil
		r.setCumulative(pidx, l)
		r.snapshot()

	case KindPlacement:
		row, col, vertical, err := move.FromBoardGameCoords(l.Pos)
		if err != nil {
			// Not a placement anchor after all; treat the line as a pass.
			r.pending = nil
			r.setCumulative(pidx, l)
			r.state.OnTurn = 1 - pidx
			r.snapshot()
			return
		}
		r.state.Board.PlaceWord(l.Play, row, col, vertical)
		r.setCumulative(pidx, l)
		r.pending = &pendingPlacement{row: row, col: col, vertical: vertical, word: l.Play}
		r.state.OnTurn = 1 - pidx
		r.state.Turn++
		r.snapshot()
	}
}

func (r *replayer) processLine(line string) {
	l := ClassifyLine(line)
	switch l.Kind {
	case KindUnrecognized:
		// Skipped, never fatal.
	case KindHeader:
		r.applyHeader(l)
	default:
		r.applyMove(l)
	}
}

// Replay replays a move log and returns the state history: index 0 is
// the initial empty board and every processed move line appends one
// immutable snapshot. Header lines mutate only static fields.
func Replay(gcg string) game.History {
	r := newReplayer()
	for _, line := range strings.Split(gcg, "\n") {
		r.processLine(line)
	}
	return r.history
}

// ParseGCGFromReader replays a GCG log from a reader, honoring the GCG
// character-encoding pragma. Files without one default to ISO 8859-1,
// the GCG format's historical encoding.
func ParseGCGFromReader(reader io.Reader) (game.History, error) {
	enc, firstLine, err := encodingOrFirstLine(reader)
	if err != nil {
		return nil, err
	}
	var scanner *bufio.Scanner
	if enc != "utf8" {
		scanner = bufio.NewScanner(transform.NewReader(reader, charmap.ISO8859_1.NewDecoder()))
	} else {
		scanner = bufio.NewScanner(reader)
	}
	r := newReplayer()
	if firstLine != "" {
		r.processLine(firstLine)
	}
	for scanner.Scan() {
		r.processLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return r.history, nil
}

// ParseGCG replays a GCG file.
func ParseGCG(filename string) (game.History, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseGCGFromReader(f)
}

func encodingOrFirstLine(reader io.Reader) (string, string, error) {
	// Read either the encoding pragma of the file, or the first line,
	// whichever is available.
	const BufSize = 128
	buf := make([]byte, BufSize)
	n := 0
	for {
		// non buffered byte-by-byte
		if _, err := reader.Read(buf[n : n+1]); err != nil {
			if err == io.EOF {
				return "", strings.TrimRight(string(buf[:n]), "\r"), nil
			}
			return "", "", err
		}
		if buf[n] == 0xa || n == BufSize-1 {
			firstLine := strings.TrimRight(string(buf[:n]), "\r")
			match := encodingRegexp.FindStringSubmatch(firstLine)
			if match != nil {
				enc := strings.ToLower(match[1])
				if enc != "utf-8" && enc != "utf8" {
					return "", "", errors.New("unhandled character encoding " + enc)
				}
				// Go reads UTF-8 natively; no transform needed.
				return "utf8", "", nil
			}
			// Not an encoding pragma. Transcode the raw bytes from the
			// default GCG encoding, ISO 8859-1.
			decoder := charmap.ISO8859_1.NewDecoder()
			result, _, err := transform.Bytes(decoder, []byte(firstLine))
			if err != nil {
				return "", "", err
			}
			return "", string(result), nil
		}
		n++
	}
}
