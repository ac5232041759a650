// Package game defines the replayed game position. A GameState is a
// complete snapshot of a game after some prefix of its move log; the
// replay engine derives one snapshot per processed move line and never
// mutates a snapshot once it has been appended to the history.
package game

import (
	"github.com/domino14/cgplocate/board"
	"github.com/domino14/cgplocate/cgp"
)

// GameState is the position after some prefix of the move log.
type GameState struct {
	Board   *board.GameBoard
	Racks   [2]string
	Scores  [2]int
	Turn    int // count of completed tile-placement plays
	OnTurn  int // index of the player to move next
	Players [2]string
	Lexicon string
	GameID  string
}

// NewGameState returns the initial empty-board state.
func NewGameState() *GameState {
	return &GameState{
		Board:   board.MakeBoard(),
		Players: [2]string{"Player1", "Player2"},
	}
}

// Copy returns a deep copy. The board is copied by value so the new
// snapshot can never alias a historical one.
func (g *GameState) Copy() *GameState {
	ng := *g
	ng.Board = g.Board.Copy()
	return &ng
}

// ToCGP serializes this state to a board record, using the on-turn
// player's rack.
func (g *GameState) ToCGP() string {
	return cgp.Encode(g.Board, g.Racks[g.OnTurn], g.Scores[0], g.Scores[1], g.Lexicon)
}

// History is the ordered replay sequence. Index 0 is the initial empty
// board; index i is the state after the i-th processed move line.
type History []*GameState

// Final returns the last state of the sequence.
func (h History) Final() *GameState {
	return h[len(h)-1]
}

// NumMoves returns the number of processed move lines.
func (h History) NumMoves() int {
	return len(h) - 1
}
