// Package stores supplies candidate games to the matcher: a directory of
// GCG files, a sqlite cache of fetched games, and a client for the
// remote game-metadata service. The matcher itself never fetches or
// caches; it consumes plain candidate lists.
package stores

import (
	"strings"

	"github.com/domino14/cgplocate/gcgio"
)

// Metadata summarizes a cached move log.
type Metadata struct {
	Lexicon         string    `json:"lexicon"`
	Players         [2]string `json:"players"`
	MoveCount       int       `json:"move_count"`
	FinalScores     [2]int    `json:"final_scores"`
	HasPhony        bool      `json:"has_phony"`
	HasExchange     bool      `json:"has_exchange"`
	HasBlankOnBoard bool      `json:"has_blank_on_board"`
}

func containsLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			return true
		}
	}
	return false
}

// AnalyzeGCG extracts labeling metadata from a move log.
func AnalyzeGCG(gcg string) Metadata {
	history := gcgio.Replay(gcg)
	final := history.Final()
	meta := Metadata{
		Lexicon:     final.Lexicon,
		Players:     final.Players,
		MoveCount:   history.NumMoves(),
		FinalScores: final.Scores,
	}
	for _, line := range strings.Split(gcg, "\n") {
		switch l := gcgio.ClassifyLine(line); l.Kind {
		case gcgio.KindWithdrawal:
			meta.HasPhony = true
		case gcgio.KindExchange:
			meta.HasExchange = true
		case gcgio.KindPlacement:
			if containsLower(l.Play) {
				meta.HasBlankOnBoard = true
			}
		}
	}
	return meta
}
