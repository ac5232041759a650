package stores

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cgplocate/match"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id    TEXT PRIMARY KEY,
	gcg        TEXT NOT NULL,
	hash       TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL
);`

// Store is a local sqlite cache of fetched move logs and their metadata.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func contentHash(gcg string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(gcg))
}

// SaveGame upserts a move log; its metadata is derived on the way in.
func (s *Store) SaveGame(gameID, gcg string) error {
	meta, err := json.Marshal(AnalyzeGCG(gcg))
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO games (game_id, gcg, hash, metadata, fetched_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (game_id) DO UPDATE SET
		   gcg = excluded.gcg, hash = excluded.hash,
		   metadata = excluded.metadata, fetched_at = excluded.fetched_at`,
		gameID, gcg, contentHash(gcg), string(meta), time.Now().UTC())
	return err
}

// GetGame returns the cached log for a game, or sql.ErrNoRows.
func (s *Store) GetGame(gameID string) (string, error) {
	var gcg, hash string
	err := s.db.QueryRow(
		`SELECT gcg, hash FROM games WHERE game_id = ?`, gameID).Scan(&gcg, &hash)
	if err != nil {
		return "", err
	}
	if contentHash(gcg) != hash {
		log.Warn().Str("gameID", gameID).Msg("cached gcg failed its integrity check")
	}
	return gcg, nil
}

func (s *Store) HasGame(gameID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM games WHERE game_id = ?`, gameID).Scan(&n)
	return n > 0, err
}

// GetMetadata returns the stored metadata for a game.
func (s *Store) GetMetadata(gameID string) (Metadata, error) {
	var raw string
	if err := s.db.QueryRow(
		`SELECT metadata FROM games WHERE game_id = ?`, gameID).Scan(&raw); err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	err := json.Unmarshal([]byte(raw), &meta)
	return meta, err
}

// Candidates returns every cached game as a candidate list.
func (s *Store) Candidates() ([]match.Candidate, error) {
	rows, err := s.db.Query(`SELECT game_id, gcg FROM games ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	candidates := []match.Candidate{}
	for rows.Next() {
		var c match.Candidate
		if err := rows.Scan(&c.GameID, &c.GCG); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
