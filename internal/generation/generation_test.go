package generation

import (
	"sort"
	"testing"

	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/davecgh/go-spew/spew"
	"github.com/notnil/chess"

	"github.com/stretchr/testify/assert"
)

func pp(t any) string {
	return spew.Sdump(t)
}

const _kiwipeteFen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
const _endgameFen = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"

var _oracleFens = []string{
	InitialPositionFen,
	_kiwipeteFen,
	_endgameFen,
	"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	"r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 3",
	"rnb2k1r/pp1Pbppp/2p5/q7/2B5/8/PPPQNnPP/RNB1K2R w KQ - 3 9",
	"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
	"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
	"4k3/8/8/8/8/8/4q3/4K3 w - - 0 1",
}

func positionFromFen(t *testing.T, fen string) (Position, Player) {
	pos, player, err := PositionFromFenString(fen)
	assert.True(t, IsNil(err), err)
	return pos, player
}

func legalMoveStrings(pos *Position, player Player) []string {
	moves := []Move{}
	GenerateLegalMoves(pos, player, &moves)
	result := MapSlice(moves, func(m Move) string { return m.String() })
	sort.Strings(result)
	return result
}

func oracleMoveStrings(t *testing.T, fen string) []string {
	opt, err := chess.FEN(fen)
	assert.NoError(t, err)

	g := chess.NewGame(opt)
	result := []string{}
	for _, m := range g.ValidMoves() {
		s := m.S1().String() + m.S2().String()
		if m.Promo() != chess.NoPieceType {
			if m.Promo() != chess.Queen {
				continue
			}
			s += "q"
		}
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

func TestLegalMovesMatchOracle(t *testing.T) {
	for _, fen := range _oracleFens {
		pos, player := positionFromFen(t, fen)
		assert.Equal(t, oracleMoveStrings(t, fen), legalMoveStrings(&pos, player), fen)
	}
}

func TestPerft(t *testing.T) {
	type perftCase struct {
		fen      string
		depth    int
		expected int
	}

	for _, c := range []perftCase{
		{InitialPositionFen, 1, 20},
		{InitialPositionFen, 2, 400},
		{InitialPositionFen, 3, 8902},
		{_kiwipeteFen, 1, 48},
		{_kiwipeteFen, 2, 2039},
		{_kiwipeteFen, 3, 97862},
		{_endgameFen, 1, 14},
		{_endgameFen, 3, 2812},
		{_endgameFen, 4, 43238},
	} {
		pos, player := positionFromFen(t, c.fen)
		assert.Equal(t, c.expected, Perft(&pos, player, c.depth), "%v at depth %v", c.fen, c.depth)
	}
}

func TestPerftByMoveSumsToPerft(t *testing.T) {
	pos, player := positionFromFen(t, _kiwipeteFen)

	total := 0
	for _, count := range PerftByMove(&pos, player, 2) {
		total += count
	}
	assert.Equal(t, 2039, total)
}

func TestApplyRevertIsIdentity(t *testing.T) {
	for _, fen := range _oracleFens {
		pos, player := positionFromFen(t, fen)
		before := pos

		moves := []Move{}
		GenerateLegalMoves(&pos, player, &moves)
		for _, move := range moves {
			update := BoardUpdate{}
			pos.ApplyMove(move, &update)

			replies := []Move{}
			GenerateLegalMoves(&pos, player.Other(), &replies)
			afterMove := pos
			for _, reply := range replies {
				replyUpdate := BoardUpdate{}
				pos.ApplyMove(reply, &replyUpdate)
				pos.RevertMove(&replyUpdate)
				if !assert.Equal(t, afterMove, pos, "%v %v %v", fen, move, reply) {
					t.Log(pp(replyUpdate))
				}
			}

			pos.RevertMove(&update)
			assert.Equal(t, before, pos, "%v %v", fen, move)
		}
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	for _, fen := range _oracleFens {
		pos, player := positionFromFen(t, fen)

		moves := []Move{}
		GenerateLegalMoves(&pos, player, &moves)
		for _, move := range moves {
			update := BoardUpdate{}
			pos.ApplyMove(move, &update)
			assert.False(t, KingIsInCheck(&pos, player), "%v %v", fen, move)
			pos.RevertMove(&update)
		}
	}
}

func TestLegalCapturesAreSubset(t *testing.T) {
	pos, player := positionFromFen(t, _kiwipeteFen)

	all := legalMoveStrings(&pos, player)
	captures := []Move{}
	GenerateLegalCaptures(&pos, player, &captures)

	assert.Equal(t, 8, len(captures))
	for _, capture := range captures {
		assert.True(t, capture.MoveType.Captures(), capture)
		assert.Contains(t, all, capture.String())
	}
}

func TestCastling(t *testing.T) {
	type castlingCase struct {
		fen      string
		move     string
		expected bool
	}

	for _, c := range []castlingCase{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", true},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", true},
		{"r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "e1g1", false},
		{"r3k2r/8/8/8/8/8/8/R3KN1R w KQkq - 0 1", "e1g1", false},
		{"r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", "e1c1", false},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", true},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", true},
		{"r4rk1/8/8/8/8/8/8/R3K2R w KQ - 0 1", "e1g1", false},
		{"r2r2k1/8/8/8/8/8/8/R3K2R w KQ - 0 1", "e1c1", false},
		{"r3r1k1/8/8/8/8/8/8/R3K2R w KQ - 0 1", "e1g1", false},
		{"1r4k1/8/8/8/8/8/8/R3K2R w KQ - 0 1", "e1c1", true},
		{"4k3/8/8/8/8/8/8/R3K1R1 w KQ - 0 1", "e1g1", false},
	} {
		pos, player := positionFromFen(t, c.fen)
		moves := legalMoveStrings(&pos, player)
		if c.expected {
			assert.Contains(t, moves, c.move, c.fen)
		} else {
			assert.NotContains(t, moves, c.move, c.fen)
		}
	}
}

func TestEnPassantRequiresPassedPawn(t *testing.T) {
	pos, player := positionFromFen(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	assert.Contains(t, legalMoveStrings(&pos, player), "e5d6")

	pos, player = positionFromFen(t, "4k3/8/8/4P3/8/8/8/4K3 w - d6 0 1")
	assert.NotContains(t, legalMoveStrings(&pos, player), "e5d6")
}

func TestPromotionsAreQueens(t *testing.T) {
	pos, player := positionFromFen(t, "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")

	moves := []Move{}
	GenerateLegalMoves(&pos, player, &moves)
	promotions := FilterSlice(moves, func(m Move) bool { return m.Promotion.HasValue() })

	assert.Equal(t, 2, len(promotions), pp(promotions))
	for _, m := range promotions {
		assert.Equal(t, Queen, m.Promotion.Value())
	}
}

func TestIsSquareAttacked(t *testing.T) {
	pos, _ := positionFromFen(t, "4k3/8/8/8/8/8/3P4/4K3 w - - 0 1")

	c3, _ := BoardIndexFromString("c3")
	e3, _ := BoardIndexFromString("e3")
	d3, _ := BoardIndexFromString("d3")

	assert.True(t, IsSquareAttacked(&pos, c3, White))
	assert.True(t, IsSquareAttacked(&pos, e3, White))
	// pushes do not attack
	assert.False(t, IsSquareAttacked(&pos, d3, White))
	assert.False(t, IsSquareAttacked(&pos, c3, Black))
}

func TestStatus(t *testing.T) {
	pos, player := positionFromFen(t, InitialPositionFen)
	assert.Equal(t, Ongoing, Status(&pos, player))

	pos, player = positionFromFen(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	assert.Equal(t, Checkmate, Status(&pos, player))

	pos, player = positionFromFen(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	assert.Equal(t, Stalemate, Status(&pos, player))

	pos, player = positionFromFen(t, "8/8/8/8/8/8/8/4K3 b - - 0 1")
	assert.Equal(t, KingMissing, Status(&pos, player))
}

func TestKingMissing(t *testing.T) {
	pos, _ := positionFromFen(t, "8/8/8/3q4/8/8/8/4K3 w - - 0 1")

	assert.False(t, KingIsInCheck(&pos, Black))
	assert.Empty(t, legalMoveStrings(&pos, Black))
	assert.False(t, HasLegalMove(&pos, Black))

	pseudo := 0
	GeneratePseudoMoves(func(Move) { pseudo++ }, &pos, Black)
	assert.Equal(t, 27, pseudo)
}
