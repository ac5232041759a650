package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleGCG = `#player1 cesar Cesar Del Solar
#player2 leesa Leesa Berahovich
#lexicon NWL23
>cesar: AEINRST 8D SERIATE +74 74
>leesa: ABDEGOU E7 D.G +18 18
>cesar: ?EILMNO 9F yEOMAN +32 106
>leesa: ABEOUXZ -ABU +0 18
>cesar: EGHIRTW D8 .IGHT +24 130
>cesar: EGHIRTW -- -24 106
`

func TestAnalyzeGCG(t *testing.T) {
	meta := AnalyzeGCG(sampleGCG)
	assert.Equal(t, "NWL23", meta.Lexicon)
	assert.Equal(t, [2]string{"Cesar Del Solar", "Leesa Berahovich"}, meta.Players)
	assert.Equal(t, 6, meta.MoveCount)
	assert.True(t, meta.HasPhony)
	assert.True(t, meta.HasExchange)
	assert.True(t, meta.HasBlankOnBoard)
	assert.Equal(t, [2]int{106, 18}, meta.FinalScores)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "abc123.gcg"), []byte(sampleGCG), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644))

	candidates, err := DirSource{Dir: dir}.Candidates()
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, "abc123", candidates[0].GameID)
	assert.Equal(t, sampleGCG, candidates[0].GCG)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	assert.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.SaveGame("abc123", sampleGCG))

	has, err := store.HasGame("abc123")
	assert.NoError(t, err)
	assert.True(t, has)

	gcg, err := store.GetGame("abc123")
	assert.NoError(t, err)
	assert.Equal(t, sampleGCG, gcg)

	meta, err := store.GetMetadata("abc123")
	assert.NoError(t, err)
	assert.Equal(t, 6, meta.MoveCount)
	assert.True(t, meta.HasPhony)

	candidates, err := store.Candidates()
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)

	_, err = store.GetGame("missing")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestStoreUpsert(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	assert.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.SaveGame("abc123", "#lexicon NWL23\n"))
	assert.NoError(t, store.SaveGame("abc123", sampleGCG))
	gcg, err := store.GetGame("abc123")
	assert.NoError(t, err)
	assert.Equal(t, sampleGCG, gcg)
}

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/GetRecentGames":
			var req recentGamesRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "cesar", req.Username)
			json.NewEncoder(w).Encode(recentGamesResponse{
				GameInfo: []GameInfo{{GameID: "abc123"}, {GameID: "def456"}},
			})
		case "/GetGCG":
			json.NewEncoder(w).Encode(gcgResponse{GCG: sampleGCG})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	games, err := client.GetRecentGames(context.Background(), "cesar", 50)
	assert.NoError(t, err)
	assert.Len(t, games, 2)

	gcg, err := client.GetGCG(context.Background(), "abc123")
	assert.NoError(t, err)
	assert.Equal(t, sampleGCG, gcg)
}
