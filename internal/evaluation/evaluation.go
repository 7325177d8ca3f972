package evaluation

import (
	. "github.com/cricklet/chessworker/internal/game"
	"github.com/cricklet/chessworker/internal/generation"
	. "github.com/cricklet/chessworker/internal/helpers"
)

type Richness int

const (
	MaterialOnly Richness = iota
	Strategic
)

func (r Richness) String() string {
	switch r {
	case MaterialOnly:
		return "material"
	case Strategic:
		return "strategic"
	}
	return "invalid"
}

func RichnessFromString(s string) (Richness, Error) {
	switch s {
	case "material":
		return MaterialOnly, NilError
	case "strategic":
		return Strategic, NilError
	}
	return Strategic, Errorf("unknown evaluation '%v'", s)
}

const (
	_centerBonus    = 10
	_mobilityBonus  = 3
	_kingThreatCost = 50
)

var _pieceValues = [7]int{
	Rook:   500,
	Knight: 320,
	Bishop: 330,
	King:   20000,
	Queen:  900,
	Pawn:   100,
}

var _centerSquares = [4]int{27, 28, 35, 36}

func PieceValue(t PieceType) int {
	return _pieceValues[t]
}

// CaptureValue orders captures most-valuable-victim first, cheapest attacker
// breaking ties. Quiet moves score 0.
func CaptureValue(pos *Position, move Move) int {
	if !move.MoveType.Captures() {
		return 0
	}
	attacker := pos.Board[move.StartIndex].PieceType()
	return PieceValue(move.Captured.PieceType()) - PieceValue(attacker)/10
}

func colorSign(piece Piece) int {
	if piece.IsWhite() {
		return 1
	}
	return -1
}

func evaluateMaterial(pos *Position) int {
	score := 0
	for _, piece := range pos.Board {
		if piece != XX {
			score += colorSign(piece) * PieceValue(piece.PieceType())
		}
	}
	return score
}

func evaluateCenter(pos *Position) int {
	score := 0
	for _, index := range _centerSquares {
		if piece := pos.Board[index]; piece != XX {
			score += colorSign(piece) * _centerBonus
		}
	}
	return score
}

// evaluateActivity counts mobility and king threats in a single pass over the
// pseudo moves of both sides.
func evaluateActivity(pos *Position) int {
	score := 0
	for _, player := range [2]Player{White, Black} {
		sign := 1
		if player == Black {
			sign = -1
		}

		enemyKing := pos.KingIndex(player.Other())
		mobility, threats := 0, 0
		generation.GeneratePseudoMoves(func(move Move) {
			mobility++
			if enemyKing.HasValue() && move.EndIndex == enemyKing.Value() {
				threats++
			}
		}, pos, player)

		score += sign * (mobility*_mobilityBonus + threats*_kingThreatCost)
	}
	return score
}

// Evaluate scores pos from player's point of view.
func Evaluate(pos *Position, player Player, richness Richness) int {
	score := evaluateMaterial(pos)
	if richness == Strategic {
		score += evaluateCenter(pos)
		score += evaluateActivity(pos)
	}

	if player == Black {
		return -score
	}
	return score
}
