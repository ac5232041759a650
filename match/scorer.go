// Package match ranks replayed game states against a noisy, externally
// observed board record and finds the game and turn it came from.
package match

import (
	"github.com/domino14/cgplocate/cgp"
)

// Combined score weights. Occupancy dominates because an OCR'd board
// rarely invents or drops whole tiles, while individual letters are
// misread routinely.
const (
	OccupancyWeight = 0.6
	LetterWeight    = 0.3
	MaxScoreBonus   = 0.1
)

// DefaultScoreTolerance is the maximum total score difference that still
// earns a bonus.
const DefaultScoreTolerance = 5

// OccupancySimilarity is the Jaccard ratio of the two records' occupied
// cell sets. Two empty boards are identical (1.0); an empty union with
// one non-empty side cannot occur, but the guard keeps the division
// defined.
func OccupancySimilarity(a, b string) float64 {
	occA := cgp.DecodeOccupancy(a)
	occB := cgp.DecodeOccupancy(b)
	if len(occA) == 0 && len(occB) == 0 {
		return 1.0
	}
	intersection := 0
	for pos := range occA {
		if occB[pos] {
			intersection++
		}
	}
	union := len(occA) + len(occB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// LetterAccuracy is the fraction of cells occupied in both records whose
// uppercased letters agree, 0.0 when no cells overlap. Blank-derived
// letters compare equal to regular ones.
func LetterAccuracy(observed, truth string) float64 {
	lettersObs := cgp.DecodeLetters(observed)
	lettersTruth := cgp.DecodeLetters(truth)
	common, matches := 0, 0
	for pos, l := range lettersObs {
		tl, ok := lettersTruth[pos]
		if !ok {
			continue
		}
		common++
		if l == tl {
			matches++
		}
	}
	if common == 0 {
		return 0.0
	}
	return float64(matches) / float64(common)
}

// ScoreBonus awards up to MaxScoreBonus when the observed scores are
// close to the truth. The observation may list the players in either
// order, so both pairings are tried and the smaller total difference
// wins.
func ScoreBonus(truth, observed [2]int, tolerance int) float64 {
	diffA := abs(truth[0]-observed[0]) + abs(truth[1]-observed[1])
	diffB := abs(truth[0]-observed[1]) + abs(truth[1]-observed[0])
	diff := min(diffA, diffB)
	if diff > tolerance {
		return 0.0
	}
	if tolerance <= 0 {
		// Zero tolerance: only an exact match reaches here.
		return MaxScoreBonus
	}
	return MaxScoreBonus * (1.0 - float64(diff)/float64(tolerance*10))
}

// Combined computes the weighted similarity of an observed record
// against a truth record. observedScores may be nil when the observation
// carried no scores.
func Combined(observed, truth string, observedScores *[2]int, tolerance int) float64 {
	score := OccupancyWeight*OccupancySimilarity(observed, truth) +
		LetterWeight*LetterAccuracy(observed, truth)
	if observedScores != nil {
		t0, t1, err := cgp.DecodeScores(truth)
		if err == nil {
			score += ScoreBonus([2]int{t0, t1}, *observedScores, tolerance)
		}
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
