package stores

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/cgplocate/match"
)

// DirSource enumerates candidate games from a directory of .gcg files.
// The game ID is the filename without its extension.
type DirSource struct {
	Dir string
}

func (d DirSource) Candidates() ([]match.Candidate, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, err
	}
	candidates := []match.Candidate{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".gcg") {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(d.Dir, entry.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable gcg")
			continue
		}
		candidates = append(candidates, match.Candidate{
			GameID: strings.TrimSuffix(entry.Name(), ".gcg"),
			GCG:    string(contents),
		})
	}
	return candidates, nil
}
