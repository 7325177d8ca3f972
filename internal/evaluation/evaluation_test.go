package evaluation

import (
	"strings"
	"testing"

	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func positionFromFen(t *testing.T, fen string) Position {
	pos, _, err := PositionFromFenString(fen)
	assert.True(t, IsNil(err), err)
	return pos
}

func TestMaterial(t *testing.T) {
	pos := positionFromFen(t, "4k3/2R5/8/7r/8/r7/3R4/4K3 b - - 10 5")
	assert.Equal(t, strings.Join([]string{
		"    k   ",
		"  R     ",
		"        ",
		"       r",
		"        ",
		"r       ",
		"   R    ",
		"    K   ",
	}, "\n"), pos.Board.String())

	assert.Equal(t, 0, Evaluate(&pos, White, MaterialOnly))

	pos = positionFromFen(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	assert.Equal(t, 900, Evaluate(&pos, White, MaterialOnly))
	assert.Equal(t, -900, Evaluate(&pos, Black, MaterialOnly))

	pos = positionFromFen(t, "4k3/8/8/8/8/8/8/3Q4 w - - 0 1")
	assert.Equal(t, 900-20000, Evaluate(&pos, White, MaterialOnly))
}

func TestStartPositionIsBalanced(t *testing.T) {
	pos := InitialPosition()
	assert.Equal(t, 0, Evaluate(&pos, White, MaterialOnly))
	assert.Equal(t, 0, Evaluate(&pos, White, Strategic))
}

func TestCenterAndMobility(t *testing.T) {
	// lone kings on the back ranks: 5 moves each
	pos := positionFromFen(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.Equal(t, 0, Evaluate(&pos, White, Strategic))

	// the d4 knight has 8 destinations and sits in the center
	pos = positionFromFen(t, "4k3/8/8/8/3N4/8/8/4K3 w - - 0 1")
	assert.Equal(t, 320+_centerBonus+8*_mobilityBonus, Evaluate(&pos, White, Strategic))
}

func TestKingThreats(t *testing.T) {
	// the e2 rook attacks the e8 king
	pos := positionFromFen(t, "4k3/8/8/8/8/8/4R3/K7 w - - 0 1")

	rookMoves := 14
	whiteMoves := rookMoves + 3
	blackMoves := 5
	expected := 500 + (whiteMoves-blackMoves)*_mobilityBonus + _kingThreatCost
	assert.Equal(t, expected, Evaluate(&pos, White, Strategic))
	assert.Equal(t, -expected, Evaluate(&pos, Black, Strategic))
}

func TestMobilityCountsCastling(t *testing.T) {
	withRights := positionFromFen(t, "4k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	withoutRights := positionFromFen(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")

	assert.Equal(t,
		Evaluate(&withoutRights, White, Strategic)+_mobilityBonus,
		Evaluate(&withRights, White, Strategic))
	assert.Equal(t,
		Evaluate(&withoutRights, White, MaterialOnly),
		Evaluate(&withRights, White, MaterialOnly))
}

func TestAntisymmetry(t *testing.T) {
	for _, fen := range []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/8/8/3q4/8/8/8/4K3 w - - 0 1",
	} {
		pos := positionFromFen(t, fen)
		for _, richness := range []Richness{MaterialOnly, Strategic} {
			assert.Equal(t, Evaluate(&pos, White, richness), -Evaluate(&pos, Black, richness), fen)
		}
	}
}

func TestCaptureValue(t *testing.T) {
	pos := positionFromFen(t, "4k3/8/8/3q4/2P1n3/8/8/4K3 w - - 0 1")

	c4, _ := BoardIndexFromString("c4")
	d5, _ := BoardIndexFromString("d5")
	pawnTakesQueen := Move{MoveType: CaptureMove, StartIndex: c4, EndIndex: d5, Captured: BQ}
	assert.Equal(t, 900-10, CaptureValue(&pos, pawnTakesQueen))

	quiet := Move{MoveType: QuietMove, StartIndex: c4, EndIndex: c4 + 8}
	assert.Equal(t, 0, CaptureValue(&pos, quiet))
}
