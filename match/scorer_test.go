package match

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func emptyRecord() string {
	return strings.Repeat("15/", 14) + "15 / 0 0 lex NWL23;"
}

func TestOccupancySimilarityIdentity(t *testing.T) {
	is := is.New(t)
	record := "7HELLO3/" + strings.Repeat("15/", 13) + "15 ABC/ 24 0 lex NWL23;"
	is.Equal(OccupancySimilarity(record, record), 1.0)
	is.Equal(OccupancySimilarity(emptyRecord(), emptyRecord()), 1.0)
}

func TestOccupancySimilarityDisjoint(t *testing.T) {
	is := is.New(t)
	a := "5CAT7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	b := strings.Repeat("15/", 14) + "5DOG7 / 0 0 lex NWL23;"
	is.Equal(OccupancySimilarity(a, b), 0.0)
}

func TestOccupancySimilarityPartial(t *testing.T) {
	is := is.New(t)
	a := "5CAT7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	b := "5CATS6/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	// Intersection 3, union 4.
	is.Equal(OccupancySimilarity(a, b), 0.75)
}

func TestOccupancySimilarityEmptyVsNonEmpty(t *testing.T) {
	is := is.New(t)
	b := "5DOG7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	is.Equal(OccupancySimilarity(emptyRecord(), b), 0.0)
}

func TestLetterAccuracy(t *testing.T) {
	is := is.New(t)
	truth := "5CAT7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	misread := "5COT7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	is.Equal(LetterAccuracy(misread, truth), 2.0/3.0)
	is.Equal(LetterAccuracy(truth, truth), 1.0)
}

func TestLetterAccuracyBlanksCompareUppercase(t *testing.T) {
	is := is.New(t)
	truth := "5cAT7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	observed := "5CAT7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	is.Equal(LetterAccuracy(observed, truth), 1.0)
}

func TestLetterAccuracyNoOverlap(t *testing.T) {
	is := is.New(t)
	a := "5CAT7/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	b := strings.Repeat("15/", 14) + "5DOG7 / 0 0 lex NWL23;"
	is.Equal(LetterAccuracy(a, b), 0.0)
}

func TestScoreBonus(t *testing.T) {
	is := is.New(t)
	// Exact match earns the full bonus.
	is.Equal(ScoreBonus([2]int{306, 367}, [2]int{306, 367}, 5), 0.1)
	// The observation may have the players swapped.
	is.Equal(ScoreBonus([2]int{306, 367}, [2]int{367, 306}, 5), 0.1)
	// Off by 2 within tolerance 5: 0.1 * (1 - 2/50).
	is.Equal(ScoreBonus([2]int{306, 367}, [2]int{307, 368}, 5), 0.1*(1.0-2.0/50.0))
	// Outside tolerance: no bonus.
	is.Equal(ScoreBonus([2]int{306, 367}, [2]int{290, 367}, 5), 0.0)
}

func TestScoreBonusZeroTolerance(t *testing.T) {
	is := is.New(t)
	// An exact match under zero tolerance still earns the full bonus.
	is.Equal(ScoreBonus([2]int{306, 367}, [2]int{306, 367}, 0), 0.1)
	is.Equal(ScoreBonus([2]int{306, 367}, [2]int{306, 368}, 0), 0.0)
}

func TestCombinedWithoutScores(t *testing.T) {
	is := is.New(t)
	record := "5CAT7/" + strings.Repeat("15/", 13) + "15 / 12 0 lex NWL23;"
	is.Equal(Combined(record, record, nil, DefaultScoreTolerance), OccupancyWeight+LetterWeight)
}

func TestCombinedWithScores(t *testing.T) {
	is := is.New(t)
	record := "5CAT7/" + strings.Repeat("15/", 13) + "15 / 12 0 lex NWL23;"
	scores := [2]int{12, 0}
	is.Equal(Combined(record, record, &scores, DefaultScoreTolerance), OccupancyWeight+LetterWeight+MaxScoreBonus)
}
