package search

import (
	"testing"

	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestScoreString(t *testing.T) {
	assert.Equal(t, Mate-1, MateInPlies(1, true))
	assert.Equal(t, -Mate+2, MateInPlies(2, false))

	assert.True(t, IsMate(MateInPlies(1, true)))
	assert.True(t, IsMate(MateInPlies(3, false)))
	assert.False(t, IsMate(20900))

	assert.Equal(t, "mate+1", ScoreString(MateInPlies(1, true)))
	assert.Equal(t, "mate-2", ScoreString(MateInPlies(2, false)))
	assert.Equal(t, "-35", ScoreString(-35))
}

func TestClampDepth(t *testing.T) {
	assert.Equal(t, 1, ClampDepth(0))
	assert.Equal(t, 1, ClampDepth(-4))
	assert.Equal(t, 3, ClampDepth(3))
	assert.Equal(t, 6, ClampDepth(60))
}

func TestSortMovesCapturesFirst(t *testing.T) {
	pos := positionFromFen(t, "4k3/8/8/3q4/2P1n3/8/8/3QK3 w - - 0 1")

	moves := []Move{}
	for _, s := range []string{"e1f1", "d1d5", "c4c5", "c4d5", "e1e2", "d1e2"} {
		move, err := pos.MoveFromString(s)
		assert.True(t, IsNil(err), err)
		moves = append(moves, move)
	}

	sortMoves(&pos, moves)
	assert.Equal(t,
		[]string{"c4d5", "d1d5", "e1f1", "c4c5", "e1e2", "d1e2"},
		MapSlice(moves, func(m Move) string { return m.String() }))
}
