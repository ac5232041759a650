package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/cgplocate/game"
)

func TestGetLoadsOnce(t *testing.T) {
	is := is.New(t)
	c := New()
	loads := 0
	load := func(string) (game.History, error) {
		loads++
		return game.History{game.NewGameState()}, nil
	}

	h1, err := c.Get("abc", load)
	is.NoErr(err)
	h2, err := c.Get("abc", load)
	is.NoErr(err)
	is.Equal(loads, 1)
	is.Equal(h1[0], h2[0])
	is.Equal(c.Len(), 1)
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	is := is.New(t)
	c := New()
	boom := errors.New("boom")
	_, err := c.Get("abc", func(string) (game.History, error) {
		return nil, boom
	})
	is.Equal(err, boom)
	is.Equal(c.Len(), 0)

	h, err := c.Get("abc", func(string) (game.History, error) {
		return game.History{game.NewGameState()}, nil
	})
	is.NoErr(err)
	is.Equal(len(h), 1)
}
