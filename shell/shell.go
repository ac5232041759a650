// Package shell implements an interactive inspector for replayed games:
// load a GCG file, step through its turns, and print the board or its
// record at any point.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cgplocate/config"
	"github.com/domino14/cgplocate/game"
	"github.com/domino14/cgplocate/gcgio"
	"github.com/domino14/cgplocate/match"
	"github.com/domino14/cgplocate/stores"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	history    game.History
	curTurnNum int
	loadedFrom string
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mcgplocate>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg}
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "load <path/to/gcg> - load and replay a .gcg file\n")
	io.WriteString(w, "n - next turn\n")
	io.WriteString(w, "b - previous turn\n")
	io.WriteString(w, "turn <n> - go to turn <n> (0 is the empty board)\n")
	io.WriteString(w, "show - print the board at the current turn\n")
	io.WriteString(w, "cgp - print the board record at the current turn\n")
	io.WriteString(w, "meta - print the loaded game's metadata\n")
	io.WriteString(w, "match <record> - search the gcg directory for this board record\n")
	io.WriteString(w, "exit - leave\n")
}

func (sc *ShellController) loadGCG(path string) error {
	history, err := gcgio.ParseGCG(path)
	if err != nil {
		return err
	}
	sc.history = history
	sc.curTurnNum = history.NumMoves()
	sc.loadedFrom = path
	log.Debug().Str("path", path).Int("moves", history.NumMoves()).Msg("loaded gcg")
	return nil
}

func (sc *ShellController) setToTurn(turnnum int) error {
	if sc.history == nil {
		return errors.New("please load a game first with the `load` command")
	}
	if turnnum < 0 || turnnum >= len(sc.history) {
		return fmt.Errorf("turn %d out of range (0 to %d)", turnnum, sc.history.NumMoves())
	}
	sc.curTurnNum = turnnum
	return nil
}

func (sc *ShellController) curState() (*game.GameState, error) {
	if sc.history == nil {
		return nil, errors.New("please load a game first with the `load` command")
	}
	return sc.history[sc.curTurnNum], nil
}

func (sc *ShellController) showCurrent(w io.Writer) {
	state, err := sc.curState()
	if err != nil {
		showMessage(err.Error(), w)
		return
	}
	showMessage(state.Board.ToDisplayText(), w)
	showMessage(fmt.Sprintf("turn %d/%d   %s %d - %s %d   (%s to move)",
		sc.curTurnNum, sc.history.NumMoves(),
		state.Players[0], state.Scores[0],
		state.Players[1], state.Scores[1],
		state.Players[state.OnTurn]), w)
}

func (sc *ShellController) matchRecord(record string, w io.Writer) {
	candidates, err := stores.DirSource{Dir: sc.cfg.GCGDirectory}.Candidates()
	if err != nil {
		showMessage("could not list candidates: "+err.Error(), w)
		return
	}
	result, err := match.NewSearcher(sc.cfg).Search(context.Background(),
		match.Observation{Record: record}, candidates)
	if err != nil {
		showMessage(err.Error(), w)
		return
	}
	showMessage(fmt.Sprintf("%s turn %d (similarity %.3f)",
		result.GameID, result.Turn, result.Similarity), w)
	showMessage(result.GoldenCGP, w)
}

func (sc *ShellController) execLine(line string, w io.Writer) (quit bool) {
	fields, err := shellquote.Split(line)
	if err != nil || len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		usage(w)
	case "load":
		if len(args) != 1 {
			showMessage("need a single path to a .gcg file", w)
			break
		}
		if err := sc.loadGCG(args[0]); err != nil {
			showMessage("could not load: "+err.Error(), w)
			break
		}
		sc.showCurrent(w)
	case "n":
		if err := sc.setToTurn(sc.curTurnNum + 1); err != nil {
			showMessage(err.Error(), w)
			break
		}
		sc.showCurrent(w)
	case "b":
		if err := sc.setToTurn(sc.curTurnNum - 1); err != nil {
			showMessage(err.Error(), w)
			break
		}
		sc.showCurrent(w)
	case "turn":
		if len(args) != 1 {
			showMessage("need a turn number", w)
			break
		}
		turnnum, err := strconv.Atoi(args[0])
		if err != nil {
			showMessage("badly formatted turn number", w)
			break
		}
		if err := sc.setToTurn(turnnum); err != nil {
			showMessage(err.Error(), w)
			break
		}
		sc.showCurrent(w)
	case "show":
		sc.showCurrent(w)
	case "cgp":
		state, err := sc.curState()
		if err != nil {
			showMessage(err.Error(), w)
			break
		}
		showMessage(state.ToCGP(), w)
	case "meta":
		if sc.loadedFrom == "" {
			showMessage("please load a game first with the `load` command", w)
			break
		}
		final := sc.history.Final()
		showMessage(fmt.Sprintf("game %s, lexicon %s, %d moves, final %d-%d",
			final.GameID, final.Lexicon, sc.history.NumMoves(),
			final.Scores[0], final.Scores[1]), w)
	case "match":
		if len(args) != 1 {
			showMessage("need a board record (quote it)", w)
			break
		}
		sc.matchRecord(args[0], w)
	default:
		showMessage("unrecognized command; try `help`", w)
	}
	return false
}

// Loop runs the shell until exit or EOF.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		}
		if sc.execLine(strings.TrimSpace(line), sc.l.Stderr()) {
			break
		}
	}
}
