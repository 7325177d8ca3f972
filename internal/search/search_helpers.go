package search

import (
	"fmt"
	"sort"

	"github.com/cricklet/chessworker/internal/evaluation"
	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
)

// Inf bounds every reachable score. Mate scores sit just below it.
const Inf int = 1000000
const Mate int = 999999

const (
	MinDepth     = 1
	MaxDepth     = 6
	DefaultDepth = 4
)

func IsMate(score int) bool {
	return score > Mate-100 || score < -Mate+100
}

// MateInPlies is positive when the engine delivers mate after plies moves and
// negative when it is mated.
func MateInPlies(plies int, engineWins bool) int {
	if engineWins {
		return Mate - plies
	}
	return -(Mate - plies)
}

func ScoreString(score int) string {
	if score > Mate-100 {
		return fmt.Sprint("mate+", Mate-score)
	}
	if score < -Mate+100 {
		return fmt.Sprint("mate-", Mate+score)
	}
	return fmt.Sprint(score)
}

func ClampDepth(depth int) int {
	return Clamp(depth, MinDepth, MaxDepth)
}

// sortMoves puts captures first, most valuable victim first. The order is
// otherwise stable so the generator's order breaks ties.
func sortMoves(pos *Position, moves []Move) {
	for i := range moves {
		moves[i].Evaluation = Some(evaluation.CaptureValue(pos, moves[i]))
	}

	sort.SliceStable(moves, func(i, j int) bool {
		iCaptures, jCaptures := moves[i].MoveType.Captures(), moves[j].MoveType.Captures()
		if iCaptures != jCaptures {
			return iCaptures
		}
		return moves[i].Evaluation.Value() > moves[j].Evaluation.Value()
	})
}
