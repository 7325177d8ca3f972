package uci

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cricklet/chessworker/internal/engine"
	. "github.com/cricklet/chessworker/internal/game"
	"github.com/cricklet/chessworker/internal/generation"
	. "github.com/cricklet/chessworker/internal/helpers"
)

// UciRunner translates the line protocol into engine requests. Best moves
// arrive asynchronously on the engine's Results channel.
type UciRunner struct {
	Engine *engine.Engine

	pos    Position
	player Player
}

func NewUciRunner(e *engine.Engine) *UciRunner {
	return &UciRunner{
		Engine: e,
		pos:    InitialPosition(),
		player: White,
	}
}

func (u *UciRunner) Position() (Position, Player) {
	return u.pos, u.player
}

func parseFen(s string) (string, Error) {
	if strings.HasPrefix(s, "fen ") {
		s = strings.TrimPrefix(s, "fen ")
		return strings.TrimSpace(strings.Split(s, " moves")[0]), NilError
	} else if strings.HasPrefix(s, "startpos") {
		return InitialPositionFen, NilError
	}

	return "", Errorf("couldn't parse position '%v'", s)
}

func parseMoves(s string) []string {
	result := []string{}
	if _, moves, found := strings.Cut(s, " moves"); found {
		result = append(result, strings.Fields(moves)...)
	}
	return result
}

// legalMoveFromString matches s against the legal moves of player.
func legalMoveFromString(pos *Position, player Player, s string) (Move, Error) {
	move, err := pos.MoveFromString(s)
	if !IsNil(err) {
		return move, err
	}
	if !pos.Board[move.StartIndex].BelongsTo(player) {
		return move, Errorf("%v does not move for %v", s, player)
	}

	legalMoves := []Move{}
	generation.GenerateLegalMoves(pos, player, &legalMoves)
	legal := FindInSlice(legalMoves, move.SameSquares)
	if legal.IsEmpty() {
		return move, Errorf("illegal move %v", s)
	}
	return legal.Value(), NilError
}

func (u *UciRunner) setupPosition(input string) Error {
	s := strings.TrimSpace(strings.TrimPrefix(input, "position"))

	fen, err := parseFen(s)
	if !IsNil(err) {
		return err
	}

	pos, player, err := PositionFromFenString(fen)
	if !IsNil(err) {
		return err
	}

	for _, moveString := range parseMoves(s) {
		move, err := legalMoveFromString(&pos, player, moveString)
		if !IsNil(err) {
			return Errorf("position '%v': %w", input, err)
		}
		update := BoardUpdate{}
		pos.ApplyMove(move, &update)
		player = player.Other()
	}

	u.pos = pos
	u.player = player
	return NilError
}

func (u *UciRunner) startSearch(input string) Error {
	req := engine.StartRequest{
		Board:     u.pos.Board,
		Castling:  u.pos.CastlingRights,
		EnPassant: u.pos.EnPassantTarget,
		Player:    u.player,
	}

	fields := strings.Fields(input)[1:]
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "depth", "nodes":
			if i+1 >= len(fields) {
				return Errorf("'%v' needs a value", fields[i])
			}
			n, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return Errorf("invalid %v '%v': %w", fields[i], fields[i+1], err)
			}
			if fields[i] == "depth" {
				req.Depth = n
			} else {
				req.Nodes = n
			}
			i++
		}
	}

	return u.Engine.Start(req)
}

// BestMoveString formats a search result as the reply to go.
func BestMoveString(result engine.Result) string {
	if result.Move.IsEmpty() {
		return "bestmove 0000"
	}
	return fmt.Sprintf("bestmove %v", result.Move.Value())
}

func (u *UciRunner) HandleInput(input string) ([]string, Error) {
	input = strings.TrimSpace(input)
	result := []string{}

	if input == "uci" {
		result = append(result, "id name chessworker")
		result = append(result, "id author cricklet")
		result = append(result, "uciok")
	} else if input == "isready" {
		result = append(result, "readyok")
	} else if input == "ucinewgame" {
		u.Engine.Stop()
		u.pos = InitialPosition()
		u.player = White
	} else if strings.HasPrefix(input, "position") {
		err := u.setupPosition(input)
		if !IsNil(err) {
			return result, err
		}
	} else if input == "go" || strings.HasPrefix(input, "go ") {
		err := u.startSearch(input)
		if !IsNil(err) {
			return result, err
		}
	} else if input == "stop" {
		u.Engine.Stop()
	} else if input == "d" {
		result = append(result, strings.Split(u.pos.Board.Unicode(), "\n")...)
		result = append(result, "Fen: "+FenString(&u.pos, u.player))
		result = append(result, "Status: "+generation.Status(&u.pos, u.player).String())
	}

	return result, NilError
}
