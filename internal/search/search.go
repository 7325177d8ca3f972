package search

import (
	"context"

	"github.com/cricklet/chessworker/internal/evaluation"
	. "github.com/cricklet/chessworker/internal/game"
	"github.com/cricklet/chessworker/internal/generation"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/dustin/go-humanize"
)

type Source int

const (
	FromSearch Source = iota
	FromBook
	FromKingCapture
	NoLegalMoves
	Cancelled
)

func (s Source) String() string {
	switch s {
	case FromSearch:
		return "search"
	case FromBook:
		return "book"
	case FromKingCapture:
		return "king capture"
	case NoLegalMoves:
		return "no legal moves"
	case Cancelled:
		return "cancelled"
	}
	return "invalid"
}

type SearchResult struct {
	Move Optional[Move]

	// Score is from the engine's point of view.
	Score int

	// Depth is the last fully searched depth.
	Depth int
	Nodes int

	Source Source
}

// Searcher finds a move for player in its own copy of the position. A
// Searcher runs one search at a time.
type Searcher struct {
	pos     Position
	player  Player
	options SearcherOptions

	ctx       context.Context
	nodes     int
	outOfTime bool
}

func NewSearcher(pos Position, player Player, options ...SearchOption) *Searcher {
	s := &Searcher{
		pos:     pos,
		player:  player,
		options: defaultSearcherOptions(),
	}
	for _, o := range options {
		o(&s.options)
	}
	return s
}

func (s *Searcher) MaxDepth() int {
	return s.options.maxDepth
}

func validateKings(pos *Position) Error {
	numKings := [2]int{}
	for _, piece := range pos.Board {
		if piece.PieceType() == King {
			numKings[piece.Player()]++
		}
	}
	for _, player := range [2]Player{White, Black} {
		if numKings[player] > 1 {
			return Errorf("%v has %v kings", player, numKings[player])
		}
	}
	return NilError
}

func (s *Searcher) isCancelled() bool {
	if s.outOfTime {
		return true
	}
	if s.options.nodeBudget > 0 && s.nodes >= s.options.nodeBudget {
		s.outOfTime = true
	} else if s.ctx.Err() != nil {
		s.outOfTime = true
	}
	return s.outOfTime
}

func (s *Searcher) evaluate() int {
	return evaluation.Evaluate(&s.pos, s.player, s.options.richness)
}

// bookMove returns the book reply only if it is legal here.
func (s *Searcher) bookMove() Optional[Move] {
	if s.options.book.IsEmpty() {
		return Empty[Move]()
	}

	reply := s.options.book.Value().Lookup(s.pos.Board)
	if reply.IsEmpty() {
		return Empty[Move]()
	}

	move, err := s.pos.MoveFromString(reply.Value())
	if !IsNil(err) {
		s.options.logger.Println("ignoring book move", reply.Value(), err)
		return Empty[Move]()
	}

	legalMoves := []Move{}
	generation.GenerateLegalMoves(&s.pos, s.player, &legalMoves)

	result := FindInSlice(legalMoves, move.SameSquares)
	if result.IsEmpty() {
		s.options.logger.Println("ignoring illegal book move", reply.Value())
	}
	return result
}

// kingCapture only finds something when the opponent left its king attacked.
// The capture must itself be legal.
func (s *Searcher) kingCapture() Optional[Move] {
	enemyKing := s.pos.KingIndex(s.player.Other())
	if enemyKing.IsEmpty() {
		return Empty[Move]()
	}

	candidates := []Move{}
	generation.GeneratePseudoCaptures(func(move Move) {
		if move.EndIndex == enemyKing.Value() {
			candidates = append(candidates, move)
		}
	}, &s.pos, s.player)

	return FindInSlice(candidates, func(move Move) bool {
		return generation.IsLegal(&s.pos, s.player, move)
	})
}

// terminalScore scores a node where player has no legal moves.
func (s *Searcher) terminalScore(player Player, ply int) int {
	if s.pos.KingIndex(player).IsEmpty() {
		return s.evaluate()
	}
	if generation.KingIsInCheck(&s.pos, player) {
		return MateInPlies(ply, player != s.player)
	}
	return 0
}

func (s *Searcher) quiescence(ply int, player Player, alpha int, beta int) int {
	s.nodes++

	maximizing := player == s.player
	standPat := s.evaluate()
	if maximizing {
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	} else {
		if standPat <= alpha {
			return alpha
		}
		if standPat < beta {
			beta = standPat
		}
	}

	captures := generation.GetMovesBuffer()
	defer generation.ReleaseMovesBuffer(captures)

	generation.GenerateLegalCaptures(&s.pos, player, captures)
	sortMoves(&s.pos, *captures)

	update := BoardUpdate{}
	for _, move := range *captures {
		s.pos.ApplyMove(move, &update)
		score := s.quiescence(ply+1, player.Other(), alpha, beta)
		s.pos.RevertMove(&update)

		if maximizing {
			if score >= beta {
				return beta
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if score <= alpha {
				return alpha
			}
			if score < beta {
				beta = score
			}
		}

		if s.isCancelled() {
			break
		}
	}

	if maximizing {
		return alpha
	}
	return beta
}

func (s *Searcher) minimax(depth int, ply int, player Player, alpha int, beta int) int {
	if depth <= 0 {
		return s.quiescence(ply, player, alpha, beta)
	}
	s.nodes++

	moves := generation.GetMovesBuffer()
	defer generation.ReleaseMovesBuffer(moves)

	generation.GenerateLegalMoves(&s.pos, player, moves)
	if len(*moves) == 0 {
		return s.terminalScore(player, ply)
	}
	sortMoves(&s.pos, *moves)

	maximizing := player == s.player

	update := BoardUpdate{}
	for _, move := range *moves {
		s.pos.ApplyMove(move, &update)
		score := s.minimax(depth-1, ply+1, player.Other(), alpha, beta)
		s.pos.RevertMove(&update)

		if maximizing {
			if score >= beta {
				// the opponent avoids this line
				return beta
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if score <= alpha {
				return alpha
			}
			if score < beta {
				beta = score
			}
		}

		if s.isCancelled() {
			break
		}
	}

	if maximizing {
		return alpha
	}
	return beta
}

// searchRoot returns false when cancelled before every root move was searched.
func (s *Searcher) searchRoot(moves []Move, depth int) (Move, bool) {
	s.nodes++

	bestIndex := -1
	bestScore := -Inf

	update := BoardUpdate{}
	for i, move := range moves {
		s.pos.ApplyMove(move, &update)
		score := s.minimax(depth-1, 1, s.player.Other(), bestScore, Inf)
		s.pos.RevertMove(&update)

		if s.isCancelled() {
			return Move{}, false
		}

		if bestIndex == -1 || score > bestScore {
			bestIndex = i
			bestScore = score
		}
	}

	best := moves[bestIndex]
	best.Evaluation = Some(bestScore)
	return best, true
}

// Search runs iterative deepening up to the max depth. A depth interrupted by
// ctx or the node budget is discarded in favour of the last complete depth.
func (s *Searcher) Search(ctx context.Context) (SearchResult, Error) {
	err := validateKings(&s.pos)
	if !IsNil(err) {
		return SearchResult{}, err
	}

	s.ctx = ctx
	s.nodes = 0
	s.outOfTime = false

	if move := s.bookMove(); move.HasValue() {
		s.options.logger.Println("book move", move.Value())
		return SearchResult{Move: move, Source: FromBook}, NilError
	}

	if move := s.kingCapture(); move.HasValue() {
		s.options.logger.Println("capturing king", move.Value())
		return SearchResult{Move: move, Score: Mate, Source: FromKingCapture}, NilError
	}

	moves := []Move{}
	generation.GenerateLegalMoves(&s.pos, s.player, &moves)
	if len(moves) == 0 {
		return SearchResult{Score: s.terminalScore(s.player, 0), Source: NoLegalMoves}, NilError
	}
	sortMoves(&s.pos, moves)

	result := SearchResult{Source: Cancelled}
	for depth := 1; depth <= s.options.maxDepth; depth++ {
		best, complete := s.searchRoot(moves, depth)
		if !complete {
			break
		}

		result = SearchResult{
			Move:   Some(best),
			Score:  best.Evaluation.Value(),
			Depth:  depth,
			Source: FromSearch,
		}
		s.options.logger.Printf("depth %v: best %v score %v nodes %v",
			depth, best, ScoreString(result.Score), humanize.Comma(int64(s.nodes)))

		if s.isCancelled() {
			break
		}
	}

	result.Nodes = s.nodes
	return result, NilError
}
