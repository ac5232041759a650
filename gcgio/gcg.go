// Package gcgio implements a GCG move-log parser and replayer. Each line
// of a log is classified into exactly one line kind, and the replayer
// applies the kinds in a fixed priority order to derive the board, rack
// and score history of the game.
package gcgio

import (
	"regexp"
	"strconv"
	"strings"
)

// A LineKind is the classification of one log line.
type LineKind uint8

const (
	KindUnrecognized LineKind = iota
	KindHeader
	KindWithdrawal
	KindExchange
	KindEvent
	KindEndAdjustment
	KindPlacement
)

func (k LineKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindWithdrawal:
		return "withdrawal"
	case KindExchange:
		return "exchange"
	case KindEvent:
		return "event"
	case KindEndAdjustment:
		return "end-adjustment"
	case KindPlacement:
		return "placement"
	}
	return "unrecognized"
}

// Header tags we act on. Other pragmas (#title, #note, ...) classify as
// unrecognized and are skipped.
const (
	TagPlayer1 = "player1"
	TagPlayer2 = "player2"
	TagLexicon = "lexicon"
	TagID      = "id"
)

const (
	PlayerRegex  = `^#player(?P<p_number>[1-2])\s+(?P<nick>\S+)\s*(?P<real_name>.*)$`
	IDRegex      = `^#id\s+(?P<id_authority>\S+)\s+(?P<id>\S+)`
	LexiconRegex = `^#lexicon\s+(?P<lexicon>.+)$`
	MoveRegex    = `^>(?P<nick>[^:]+):\s+(?P<rest>.+)$`

	CharacterEncodingRegex = `#character-encoding (?P<encoding>[[:graph:]]+)`
)

var (
	playerRegexp  = regexp.MustCompile(PlayerRegex)
	idRegexp      = regexp.MustCompile(IDRegex)
	lexiconRegexp = regexp.MustCompile(LexiconRegex)
	moveRegexp    = regexp.MustCompile(MoveRegex)

	encodingRegexp = regexp.MustCompile(CharacterEncodingRegex)
)

// A Line is the tagged result of classifying one log line.
type Line struct {
	Kind LineKind

	// Header fields.
	Tag      string
	Nick     string
	RealName string
	Value    string // lexicon name or game id

	// Move fields. Pos and Play are raw tokens; the replayer decides
	// whether Pos is a coordinate. Score is the signed delta, Cumul the
	// running total; CumulOK is false when the total did not parse and
	// the prior total should be retained.
	Rack    string
	Pos     string
	Play    string
	Score   int
	Cumul   int
	CumulOK bool
}

func parenthesized(tok string) bool {
	return len(tok) >= 2 && tok[0] == '(' && tok[len(tok)-1] == ')'
}

func stripParens(tok string) string {
	if parenthesized(tok) {
		return tok[1 : len(tok)-1]
	}
	return tok
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// parseSigned parses score tokens such as +48, -29, 130.
func parseSigned(tok string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(tok, "+"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ClassifyLine classifies one log line. Move lines are distinguished in
// a fixed priority order: withdrawal, exchange, event marker, end-of-game
// adjustment, placement. The ordering matters: a withdrawal marker (--)
// would also pass the exchange test (a dash followed by more characters),
// and exchange markers (-QO) would also pass the event test (first anchor
// byte not alphanumeric).
func ClassifyLine(line string) Line {
	line = strings.TrimSpace(line)
	if line == "" {
		return Line{Kind: KindUnrecognized}
	}
	if line[0] == '#' {
		return classifyHeader(line)
	}
	m := moveRegexp.FindStringSubmatch(line)
	if m == nil {
		return Line{Kind: KindUnrecognized}
	}
	nick := strings.TrimSpace(m[1])
	f := strings.Fields(m[2])

	// The end-of-game rack bonus is the one shape with only three fields:
	// >nick: (RACK) +pts total
	if len(f) == 3 && parenthesized(f[0]) {
		l := Line{Kind: KindEndAdjustment, Nick: nick, Rack: stripParens(f[0])}
		l.Score, _ = parseSigned(f[1])
		l.Cumul, l.CumulOK = parseSigned(f[2])
		return l
	}
	if len(f) < 4 {
		return Line{Kind: KindUnrecognized}
	}

	l := Line{Nick: nick, Rack: f[0], Pos: f[1]}
	if len(f) >= 5 {
		l.Play = f[2]
	}
	// Delta and running total are the last two fields regardless of shape.
	l.Score, _ = parseSigned(f[len(f)-2])
	l.Cumul, l.CumulOK = parseSigned(f[len(f)-1])

	switch {
	case f[1] == "--":
		l.Kind = KindWithdrawal
	case f[1][0] == '-' && len(f[1]) > 1:
		l.Kind = KindExchange
	case !isAlnum(f[1][0]):
		// Challenge bonuses, time penalties, bare pass markers.
		l.Kind = KindEvent
	case len(f) >= 5 && parenthesized(f[2]):
		l.Kind = KindEndAdjustment
		l.Rack = f[0]
	default:
		l.Kind = KindPlacement
	}
	return l
}

func classifyHeader(line string) Line {
	if m := playerRegexp.FindStringSubmatch(line); m != nil {
		tag := TagPlayer1
		if m[1] == "2" {
			tag = TagPlayer2
		}
		real := strings.TrimSpace(m[3])
		if real == "" {
			real = m[2]
		}
		return Line{Kind: KindHeader, Tag: tag, Nick: m[2], RealName: real}
	}
	if m := lexiconRegexp.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindHeader, Tag: TagLexicon, Value: strings.TrimSpace(m[1])}
	}
	if m := idRegexp.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindHeader, Tag: TagID, Value: m[2]}
	}
	return Line{Kind: KindUnrecognized}
}
