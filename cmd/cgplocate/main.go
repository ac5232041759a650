// Command cgplocate matches an observed board record against a corpus
// of game logs and prints the best game/turn as JSON on stdout. All
// diagnostics go to stderr so the output stays machine-readable.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cgplocate/config"
	"github.com/domino14/cgplocate/match"
	"github.com/domino14/cgplocate/stores"
)

var (
	configPath  = flag.String("config", "", "path to an optional config file")
	record      = flag.String("cgp", "", "the observed board record to locate (required)")
	players     = flag.String("players", "", "comma-separated player names read with the record")
	scores      = flag.String("scores", "", "comma-separated pair of observed scores, e.g. 173,54")
	gcgDir      = flag.String("gcg-dir", "", "directory of candidate .gcg files")
	fetchPlayer = flag.String("fetch-player", "", "fetch this player's recent games into the cache first")
	numFetch    = flag.Int("num-fetch", 50, "how many recent games to fetch per player")
	workers     = flag.Int("workers", 0, "number of concurrent matchers (0 uses the config value)")
	debug       = flag.Bool("debug", false, "log at debug level")
)

func parseScores(s string) (*[2]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("scores must be a pair, got %q", s)
	}
	var out [2]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad score %q", p)
		}
		out[i] = n
	}
	return &out, nil
}

// fetchIntoStore pulls a player's recent games from the remote service
// and saves any we don't already have.
func fetchIntoStore(ctx context.Context, cfg *config.Config, store *stores.Store, username string) error {
	client := stores.NewClient(cfg.APIBaseURL)
	games, err := client.GetRecentGames(ctx, username, *numFetch)
	if err != nil {
		return err
	}
	for _, info := range games {
		has, err := store.HasGame(info.GameID)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		gcg, err := client.GetGCG(ctx, info.GameID)
		if err != nil {
			log.Warn().Err(err).Str("gameID", info.GameID).Msg("skipping unfetchable game")
			continue
		}
		if err := store.SaveGame(info.GameID, gcg); err != nil {
			return err
		}
	}
	return nil
}

func gatherCandidates(ctx context.Context, cfg *config.Config) ([]match.Candidate, error) {
	candidates := []match.Candidate{}
	if cfg.GCGDirectory != "" {
		fromDir, err := stores.DirSource{Dir: cfg.GCGDirectory}.Candidates()
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.GCGDirectory).Msg("could not read gcg directory")
		} else {
			candidates = append(candidates, fromDir...)
		}
	}
	if *fetchPlayer != "" {
		store, err := stores.OpenStore(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		for _, username := range strings.Split(*fetchPlayer, ",") {
			if err := fetchIntoStore(ctx, cfg, store, strings.TrimSpace(username)); err != nil {
				log.Warn().Err(err).Str("player", username).Msg("fetch failed")
			}
		}
		fromStore, err := store.Candidates()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, fromStore...)
	}
	return candidates, nil
}

func realMain() int {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := &config.Config{}
	if err := cfg.Load(*configPath); err != nil {
		log.Error().Err(err).Msg("could not load config")
		return 2
	}
	if *debug || cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *gcgDir != "" {
		cfg.GCGDirectory = *gcgDir
	}
	if *workers > 0 {
		cfg.MatchWorkers = *workers
	}

	if *record == "" {
		fmt.Fprintln(os.Stderr, "the -cgp flag is required")
		flag.Usage()
		return 2
	}
	obsScores, err := parseScores(*scores)
	if err != nil {
		log.Error().Err(err).Msg("bad -scores flag")
		return 2
	}
	obs := match.Observation{Record: *record, Scores: obsScores}
	if *players != "" {
		obs.Players = strings.Split(*players, ",")
	}

	ctx := context.Background()
	candidates, err := gatherCandidates(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("could not gather candidates")
		return 2
	}
	if len(candidates) == 0 {
		log.Error().Msg("no candidate games; pass -gcg-dir or -fetch-player")
		return 2
	}

	result, err := match.NewSearcher(cfg).Search(ctx, obs, candidates)
	if errors.Is(err, match.ErrNoConfidentMatch) {
		fmt.Println("null")
		return 1
	} else if err != nil {
		log.Error().Err(err).Msg("search failed")
		return 2
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("could not encode result")
		return 2
	}
	fmt.Println(string(out))
	return 0
}

func main() {
	os.Exit(realMain())
}
