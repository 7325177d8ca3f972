package generation

import (
	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
)

var GetMovesBuffer, ReleaseMovesBuffer, MovesBufferStats = CreatePool(
	func() []Move {
		return make([]Move, 0, 256)
	},
	func(t *[]Move) {
		*t = (*t)[:0]
	},
)

type GameStatus int

const (
	Ongoing GameStatus = iota
	Checkmate
	Stalemate
	KingMissing
)

func (s GameStatus) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case KingMissing:
		return "king missing"
	}
	return "invalid"
}

// Status classifies the position for the side to move.
func Status(pos *Position, player Player) GameStatus {
	if pos.KingIndex(player).IsEmpty() {
		return KingMissing
	}
	if HasLegalMove(pos, player) {
		return Ongoing
	}
	if KingIsInCheck(pos, player) {
		return Checkmate
	}
	return Stalemate
}

// Perft counts the leaf nodes of the legal move tree of the given depth.
func Perft(pos *Position, player Player, depth int) int {
	if depth <= 0 {
		return 1
	}

	moves := GetMovesBuffer()
	defer ReleaseMovesBuffer(moves)
	GenerateLegalMoves(pos, player, moves)

	if depth == 1 {
		return len(*moves)
	}

	count := 0
	update := BoardUpdate{}
	for _, move := range *moves {
		pos.ApplyMove(move, &update)
		count += Perft(pos, player.Other(), depth-1)
		pos.RevertMove(&update)
	}
	return count
}

// PerftByMove returns the perft count below each legal root move.
func PerftByMove(pos *Position, player Player, depth int) map[string]int {
	result := map[string]int{}

	moves := []Move{}
	GenerateLegalMoves(pos, player, &moves)

	update := BoardUpdate{}
	for _, move := range moves {
		pos.ApplyMove(move, &update)
		result[move.String()] = Perft(pos, player.Other(), depth-1)
		pos.RevertMove(&update)
	}
	return result
}
