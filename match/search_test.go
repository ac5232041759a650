package match

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"

	"github.com/domino14/cgplocate/config"
	"github.com/domino14/cgplocate/gcgio"
)

const testGCG = `#player1 a Alice
#player2 b Bob
#lexicon NWL23
#id io.woogles gameA
>a: AEINRST 8D SERIATE +74 74
>b: ABDEGOU E7 D.G +18 18
>a: EMNOAYD 9F YEOMAN +32 106
>b: EGHIRTW D8 .IGHT +24 42
>a: EKZQIJO H12 ZEK +45 151
>b: ENRTW 13G E.T +12 54
>a: QIJOABC A1 QI +22 173
>b: JOXYZEF 15K JO +30 84
`

func turnRecord(t *testing.T, gcg string, turn int) (string, [2]int) {
	t.Helper()
	history := gcgio.Replay(gcg)
	state := history[turn]
	return state.ToCGP(), state.Scores
}

func TestSearchFindsExactTurn(t *testing.T) {
	cfg := config.DefaultConfig()
	record, scores := turnRecord(t, testGCG, 7)
	obs := Observation{Record: record, Scores: &scores}

	result, err := NewSearcher(cfg).Search(context.Background(), obs, []Candidate{
		{GameID: "gameA", GCG: testGCG},
	})
	assert.Nil(t, err)
	assert.Equal(t, "gameA", result.GameID)
	assert.Equal(t, 7, result.Turn)
	assert.Equal(t, record, result.GoldenCGP)
	assert.GreaterOrEqual(t, result.Similarity, 0.98)
	assert.Equal(t, [2]string{"Alice", "Bob"}, result.Players)
}

func TestSearchStopsAtConfidentMatch(t *testing.T) {
	cfg := config.DefaultConfig()
	record, scores := turnRecord(t, testGCG, 7)
	// Observed scores are off by one from gameA's truth, so gameA scores
	// about 0.998. gameB's totals match the observation exactly and would
	// score a perfect 1.0, but the search must never reach it.
	scores[0]++
	gcgB := strings.Replace(testGCG, "+22 173", "+23 174", 1)
	obs := Observation{Record: record, Scores: &scores}

	result, err := NewSearcher(cfg).Search(context.Background(), obs, []Candidate{
		{GameID: "gameA", GCG: testGCG},
		{GameID: "gameB", GCG: gcgB},
	})
	assert.Nil(t, err)
	assert.Equal(t, "gameA", result.GameID)

	// Sanity check: scanned first, gameB does win.
	result, err = NewSearcher(cfg).Search(context.Background(), obs, []Candidate{
		{GameID: "gameB", GCG: gcgB},
		{GameID: "gameA", GCG: testGCG},
	})
	assert.Nil(t, err)
	assert.Equal(t, "gameB", result.GameID)
}

func TestSearchNoMatch(t *testing.T) {
	cfg := config.DefaultConfig()
	// A board that shares nothing with any state of the candidate.
	observed := "HELLO10/" + strings.Repeat("15/", 13) + "WORLD10 / 9 9 lex NWL23;"

	result, err := NewSearcher(cfg).Search(context.Background(), Observation{Record: observed},
		[]Candidate{{GameID: "gameA", GCG: testGCG}})
	assert.Nil(t, result)
	assert.Equal(t, ErrNoConfidentMatch, err)
}

func TestSearchBelowMinimumSimilarity(t *testing.T) {
	cfg := config.DefaultConfig()
	// Even with the occupancy gate disabled, a barely-overlapping board
	// scores far under the 0.85 minimum and is reported as no match.
	cfg.OccupancyGate = 0.0
	observed := "QQQQQ10/" + strings.Repeat("15/", 13) + "15 / 0 0 lex NWL23;"
	result, err := NewSearcher(cfg).Search(context.Background(), Observation{Record: observed},
		[]Candidate{{GameID: "gameA", GCG: testGCG}})
	assert.Nil(t, result)
	assert.Equal(t, ErrNoConfidentMatch, err)
}

func TestSearchWithNoisyLetters(t *testing.T) {
	cfg := config.DefaultConfig()
	record, scores := turnRecord(t, testGCG, 7)

	// Corrupt two random letters of the board segment, the way OCR does.
	boardEnd := strings.IndexByte(record, ' ')
	b := []byte(record)
	var letterIdx []int
	for i := 0; i < boardEnd; i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			letterIdx = append(letterIdx, i)
		}
	}
	for _, i := range frand.Perm(len(letterIdx))[:2] {
		b[letterIdx[i]] = 'V'
	}

	result, err := NewSearcher(cfg).Search(context.Background(),
		Observation{Record: string(b), Scores: &scores},
		[]Candidate{{GameID: "gameA", GCG: testGCG}})
	assert.Nil(t, err)
	assert.Equal(t, "gameA", result.GameID)
	assert.Equal(t, 7, result.Turn)
}

func TestSearchParallel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MatchWorkers = 4
	record, scores := turnRecord(t, testGCG, 7)
	obs := Observation{Record: record, Scores: &scores}

	// Pad the pool with decoys that occupy the same squares but spell a
	// different opening word, so they score below the real game.
	decoy := strings.Replace(testGCG, "8D SERIATE", "8D TASTIER", 1)
	candidates := []Candidate{}
	for i := 0; i < 20; i++ {
		candidates = append(candidates, Candidate{GameID: "decoy" + string(rune('a'+i)), GCG: decoy})
	}
	candidates = append(candidates, Candidate{GameID: "gameA", GCG: testGCG})

	result, err := NewSearcher(cfg).Search(context.Background(), obs, candidates)
	assert.Nil(t, err)
	assert.Equal(t, "gameA", result.GameID)
	assert.Equal(t, 7, result.Turn)
}
