package match

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/cgplocate/cache"
	"github.com/domino14/cgplocate/cgp"
	"github.com/domino14/cgplocate/config"
	"github.com/domino14/cgplocate/game"
	"github.com/domino14/cgplocate/gcgio"
)

// ErrNoConfidentMatch is returned when no candidate clears the minimum
// similarity threshold. It is a negative result, not a failure.
var ErrNoConfidentMatch = errors.New("no confident match found")

// A Candidate is one game to test the observation against.
type Candidate struct {
	GameID string
	GCG    string
}

// An Observation is an externally produced, approximately trusted board
// record, optionally with the player names and scores that were read
// alongside it.
type Observation struct {
	Record  string
	Players []string
	Scores  *[2]int
}

// A Result identifies the game and turn an observation came from.
type Result struct {
	GameID     string    `json:"game_id"`
	Turn       int       `json:"turn"`
	GoldenCGP  string    `json:"golden_cgp"`
	Similarity float64   `json:"similarity"`
	Players    [2]string `json:"players"`
}

// Searcher scans candidate games for the turn that best matches an
// observation.
type Searcher struct {
	cfg     *config.Config
	replays *cache.Cache
}

func NewSearcher(cfg *config.Config) *Searcher {
	return &Searcher{cfg: cfg, replays: cache.New()}
}

// bestTurn scans one replay sequence, skipping the initial empty board.
// Occupancy similarity is computed first as a cheap gate; only snapshots
// at or above the gate get the full combined score. The gate is 0.90,
// the value the original matcher enforced, though its comments claimed
// 0.92.
func (s *Searcher) bestTurn(obs Observation, history game.History) (int, float64, *game.GameState) {
	bestTurn, bestScore := 0, 0.0
	var bestState *game.GameState
	for i, state := range history[1:] {
		truth := state.ToCGP()
		occSim := OccupancySimilarity(obs.Record, truth)
		if occSim < s.cfg.OccupancyGate {
			continue
		}
		combined := OccupancyWeight*occSim + LetterWeight*LetterAccuracy(obs.Record, truth)
		if obs.Scores != nil {
			if t0, t1, err := cgp.DecodeScores(truth); err == nil {
				combined += ScoreBonus([2]int{t0, t1}, *obs.Scores, s.cfg.ScoreTolerance)
			}
		}
		if combined > bestScore {
			bestTurn, bestScore, bestState = i+1, combined, state
		}
	}
	return bestTurn, bestScore, bestState
}

func (s *Searcher) scanCandidate(obs Observation, c Candidate) *Result {
	history, err := s.replays.Get(c.GameID, func(string) (game.History, error) {
		return gcgio.Replay(c.GCG), nil
	})
	if err != nil {
		return nil
	}
	turn, score, state := s.bestTurn(obs, history)
	if state == nil {
		return nil
	}
	log.Debug().Str("gameID", c.GameID).Int("turn", turn).
		Float64("similarity", score).Msg("candidate-best-turn")
	return &Result{
		GameID:     c.GameID,
		Turn:       turn,
		GoldenCGP:  state.ToCGP(),
		Similarity: score,
		Players:    state.Players,
	}
}

// Search finds the candidate game and turn that best matches the
// observation. Scanning stops as soon as a candidate scores at or above
// the confident-match threshold. A result below the minimum similarity
// is reported as ErrNoConfidentMatch.
func (s *Searcher) Search(ctx context.Context, obs Observation, candidates []Candidate) (*Result, error) {
	candidates = lo.UniqBy(candidates, func(c Candidate) string { return c.GameID })
	log.Debug().Int("candidates", len(candidates)).Msg("searching")

	var best *Result
	if s.cfg.MatchWorkers > 1 {
		best = s.searchParallel(ctx, obs, candidates)
	} else {
		for _, c := range candidates {
			if ctx.Err() != nil {
				break
			}
			r := s.scanCandidate(obs, c)
			if r != nil && (best == nil || r.Similarity > best.Similarity) {
				best = r
			}
			if best != nil && best.Similarity >= s.cfg.ConfidentMatch {
				// Confident match; stop scanning the remaining games.
				break
			}
		}
	}

	if best == nil || best.Similarity < s.cfg.MinSimilarity {
		bestSim := 0.0
		if best != nil {
			bestSim = best.Similarity
		}
		log.Info().Float64("bestSimilarity", bestSim).Msg("no confident match")
		return nil, ErrNoConfidentMatch
	}
	if len(obs.Players) > 0 && !playersAgree(obs.Players, best.Players) {
		log.Warn().Strs("observed", obs.Players).
			Str("gameID", best.GameID).Msg("matched game has different player names")
	}
	log.Info().Str("gameID", best.GameID).Int("turn", best.Turn).
		Float64("similarity", best.Similarity).Msg("match found")
	return best, nil
}

// playersAgree reports whether any observed name appears in the matched
// game's player names. Observed names come from imperfect sources, so
// this is a loose containment check, not a score input.
func playersAgree(observed []string, players [2]string) bool {
	for _, o := range observed {
		o = strings.ToLower(strings.TrimSpace(o))
		if o == "" {
			continue
		}
		for _, p := range players {
			if strings.Contains(strings.ToLower(p), o) {
				return true
			}
		}
	}
	return false
}

// searchParallel scans candidates with a worker pool. Candidates are
// independent; the only shared state is the running best, guarded by a
// mutex. A confident match cancels the pool's context so in-flight
// workers stop picking up new candidates, preserving the sequential
// contract's early termination.
func (s *Searcher) searchParallel(ctx context.Context, obs Observation, candidates []Candidate) *Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var best *Result

	work := make(chan Candidate)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for _, c := range candidates {
			select {
			case work <- c:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	for t := 0; t < s.cfg.MatchWorkers; t++ {
		g.Go(func() error {
			for c := range work {
				r := s.scanCandidate(obs, c)
				if r == nil {
					continue
				}
				mu.Lock()
				if best == nil || r.Similarity > best.Similarity {
					best = r
				}
				confident := best.Similarity >= s.cfg.ConfidentMatch
				mu.Unlock()
				if confident {
					cancel()
					return nil
				}
			}
			return nil
		})
	}
	// Workers only return nil.
	_ = g.Wait()
	return best
}
