// Package board implements the fixed 15x15 crossword game board used
// for move-log replay.
package board

import (
	"fmt"
	"strings"
)

// Dim is the dimension of the standard board. The replay engine only
// supports this single layout.
const Dim = 15

// PlayedThroughMarker is the character used in played words to indicate
// a tile that was already on the board from a crossing word.
const PlayedThroughMarker = '.'

// A Square is either empty or holds a single tile. Letter is always
// stored uppercase; Blank records whether the tile was a wildcard
// playing that letter. An empty square has Letter 0 and Blank false.
type Square struct {
	Letter byte
	Blank  bool
}

func (s Square) Empty() bool {
	return s.Letter == 0
}

// UserVisible renders the square the way a board record does: lowercase
// for a blank-derived letter, uppercase otherwise, space if empty.
func (s Square) UserVisible() byte {
	if s.Empty() {
		return ' '
	}
	if s.Blank {
		return s.Letter - 'A' + 'a'
	}
	return s.Letter
}

// GameBoard stores a one-dimensional array of squares, row-major.
type GameBoard struct {
	squares     []Square
	dim         int
	tilesPlayed int
}

// MakeBoard creates an empty standard board.
func MakeBoard() *GameBoard {
	return &GameBoard{
		squares: make([]Square, Dim*Dim),
		dim:     Dim,
	}
}

// Dim is the dimension of the board. The board is square.
func (g *GameBoard) Dim() int {
	return g.dim
}

func (g *GameBoard) GetSquare(row int, col int) Square {
	return g.squares[row*g.dim+col]
}

func (g *GameBoard) HasLetter(row int, col int) bool {
	return !g.GetSquare(row, col).Empty()
}

func (g *GameBoard) PosExists(row int, col int) bool {
	d := g.dim
	return row >= 0 && row < d && col >= 0 && col < d
}

// TilesPlayed returns the number of tiles currently on the board.
func (g *GameBoard) TilesPlayed() int {
	return g.tilesPlayed
}

// IsEmpty returns if the board is empty.
func (g *GameBoard) IsEmpty() bool {
	return g.tilesPlayed == 0
}

// Clear clears the board.
func (g *GameBoard) Clear() {
	for i := range g.squares {
		g.squares[i] = Square{}
	}
	g.tilesPlayed = 0
}

func (g *GameBoard) setSquare(row, col int, sq Square) {
	pos := row*g.dim + col
	if g.squares[pos].Empty() && !sq.Empty() {
		g.tilesPlayed++
	} else if !g.squares[pos].Empty() && sq.Empty() {
		g.tilesPlayed--
	}
	g.squares[pos] = sq
}

// PlaceWord walks the board from the given anchor, one square per
// character, writing a tile for every character that is not the
// played-through marker. A lowercase character is a blank playing that
// letter. Placements that would run off the board are a caller contract
// violation; coordinates must come from a validated anchor.
func (g *GameBoard) PlaceWord(word string, row int, col int, vertical bool) {
	r, c := row, col
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch != PlayedThroughMarker {
			if ch >= 'a' && ch <= 'z' {
				g.setSquare(r, c, Square{Letter: ch - 'a' + 'A', Blank: true})
			} else {
				g.setSquare(r, c, Square{Letter: ch})
			}
		}
		if vertical {
			r++
		} else {
			c++
		}
	}
}

// RemoveWord mirrors PlaceWord, clearing the squares the word wrote and
// skipping played-through markers. It is used to undo a play that was
// withdrawn after a successful challenge.
func (g *GameBoard) RemoveWord(word string, row int, col int, vertical bool) {
	r, c := row, col
	for i := 0; i < len(word); i++ {
		if word[i] != PlayedThroughMarker {
			g.setSquare(r, c, Square{})
		}
		if vertical {
			r++
		} else {
			c++
		}
	}
}

// Copy returns a deep copy of this board.
func (g *GameBoard) Copy() *GameBoard {
	newg := &GameBoard{
		squares:     make([]Square, len(g.squares)),
		dim:         g.dim,
		tilesPlayed: g.tilesPlayed,
	}
	copy(newg.squares, g.squares)
	return newg
}

// Equals compares two boards square by square.
func (g *GameBoard) Equals(o *GameBoard) bool {
	if g.dim != o.dim || g.tilesPlayed != o.tilesPlayed {
		return false
	}
	for i := range g.squares {
		if g.squares[i] != o.squares[i] {
			return false
		}
	}
	return true
}

// ToDisplayText returns a drawing of the board for the shell.
func (g *GameBoard) ToDisplayText() string {
	var str strings.Builder
	n := g.Dim()
	str.WriteString("   ")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&str, "%c ", 'A'+i)
	}
	str.WriteString("\n   " + strings.Repeat("-", n*2) + "\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&str, "%2d|", i+1)
		for j := 0; j < n; j++ {
			str.WriteByte(g.GetSquare(i, j).UserVisible())
			str.WriteByte(' ')
		}
		str.WriteString("|\n")
	}
	str.WriteString("   " + strings.Repeat("-", n*2) + "\n")
	return "\n" + str.String()
}
