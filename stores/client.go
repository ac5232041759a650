package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// Client talks to the remote game-metadata service (a Woogles-style JSON
// POST API). The core never uses it directly; callers feed its output to
// a Store or straight into a candidate list.
type Client struct {
	base string
	hc   *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// GameInfo is the metadata record the service returns per game.
type GameInfo struct {
	GameID  string   `json:"game_id"`
	Players []string `json:"players,omitempty"`
}

type recentGamesRequest struct {
	Username string `json:"username"`
	NumGames int    `json:"numGames"`
	Offset   int    `json:"offset"`
}

type recentGamesResponse struct {
	GameInfo []GameInfo `json:"game_info"`
}

type gcgRequest struct {
	GameID string `json:"game_id"`
}

type gcgResponse struct {
	GCG string `json:"gcg"`
}

func (c *Client) post(ctx context.Context, method string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				c.base+"/"+method, bytes.NewReader(payload))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := c.hc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				io.Copy(io.Discard, resp.Body)
				return fmt.Errorf("%s returned status %d", method, resp.StatusCode)
			}
			return json.NewDecoder(resp.Body).Decode(respBody)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Warn().Err(err).Uint("n", n).Str("method", method).Msg("retrying request")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// GetRecentGames lists a player's most recent games.
func (c *Client) GetRecentGames(ctx context.Context, username string, num int) ([]GameInfo, error) {
	var resp recentGamesResponse
	err := c.post(ctx, "GetRecentGames", recentGamesRequest{Username: username, NumGames: num}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.GameInfo, nil
}

// GetGCG fetches the raw move log for a game.
func (c *Client) GetGCG(ctx context.Context, gameID string) (string, error) {
	var resp gcgResponse
	if err := c.post(ctx, "GetGCG", gcgRequest{GameID: gameID}, &resp); err != nil {
		return "", err
	}
	return resp.GCG, nil
}
