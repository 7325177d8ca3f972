package game

import (
	. "github.com/cricklet/chessworker/internal/helpers"
)

// CastlingRights is indexed [player][Kingside|Queenside].
type CastlingRights [2][2]bool

var AllCastlingRights = CastlingRights{{true, true}, {true, true}}

// Position is the mutable board/rights/en-passant triple that move generation and
// search operate on. It is a plain value: assigning it copies the whole board.
type Position struct {
	Board           BoardArray
	CastlingRights  CastlingRights
	EnPassantTarget Optional[FileRank]
}

type CastlingRequirement struct {
	KingStart int
	KingEnd   int
	RookStart int
	RookEnd   int

	// Between must be empty, Safe must not be attacked (includes both king ends).
	Between []int
	Safe    []int
}

var AllCastlingRequirements = [2][2]CastlingRequirement{
	{
		{KingStart: 4, KingEnd: 6, RookStart: 7, RookEnd: 5, Between: []int{5, 6}, Safe: []int{4, 5, 6}},
		{KingStart: 4, KingEnd: 2, RookStart: 0, RookEnd: 3, Between: []int{1, 2, 3}, Safe: []int{4, 3, 2}},
	},
	{
		{KingStart: 60, KingEnd: 62, RookStart: 63, RookEnd: 61, Between: []int{61, 62}, Safe: []int{60, 61, 62}},
		{KingStart: 60, KingEnd: 58, RookStart: 56, RookEnd: 59, Between: []int{57, 58, 59}, Safe: []int{60, 59, 58}},
	},
}

func RookMoveForCastle(kingStart int, kingEnd int) (int, int) {
	rankStart := kingStart - kingStart%8
	if kingEnd > kingStart {
		return rankStart + 7, rankStart + 5
	}
	return rankStart, rankStart + 3
}

func PromotionRank(player Player) Rank {
	if player == White {
		return 7
	}
	return 0
}

func PawnHomeRank(player Player) Rank {
	if player == White {
		return 1
	}
	return 6
}

func isPawnCapture(startPieceType PieceType, startIndex int, endIndex int) bool {
	if startPieceType != Pawn {
		return false
	}

	start := FileRankFromIndex(startIndex)
	end := FileRankFromIndex(endIndex)

	return AbsDiff(start.File, end.File) == 1 && AbsDiff(start.Rank, end.Rank) == 1
}

func isPawnSkip(startPiece Piece, startIndex int, endIndex int) bool {
	return startPiece.PieceType() == Pawn && AbsDiff(startIndex, endIndex) == 16
}

func (p *Position) KingIndex(player Player) Optional[int] {
	king := PieceForPlayer[player][King]
	for i, piece := range p.Board {
		if piece == king {
			return Some(i)
		}
	}
	return Empty[int]()
}

// MoveFromString parses coordinate notation against the current board. The
// move is not checked for legality.
func (p *Position) MoveFromString(s string) (Move, Error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, Errorf("invalid move '%v'", s)
	}
	start, err := BoardIndexFromString(s[0:2])
	if !IsNil(err) {
		return Move{}, Errorf("invalid move '%v': %w", s, err)
	}
	end, err := BoardIndexFromString(s[2:4])
	if !IsNil(err) {
		return Move{}, Errorf("invalid move '%v': %w", s, err)
	}

	startPiece := p.Board[start]
	if startPiece == XX {
		return Move{}, Errorf("no piece at %v for '%v'", StringFromBoardIndex(start), s)
	}
	startPieceType := startPiece.PieceType()

	move := Move{StartIndex: start, EndIndex: end, Captured: p.Board[end]}
	if p.Board[end] != XX {
		move.MoveType = CaptureMove
	} else if startPieceType == King && AbsDiff(start, end) == 2 {
		move.MoveType = CastlingMove
	} else if isPawnCapture(startPieceType, start, end) {
		move.MoveType = EnPassantMove
		move.Captured = p.Board[start-start%8+end%8]
	} else {
		move.MoveType = QuietMove
	}

	if startPieceType == Pawn && FileRankFromIndex(end).Rank == PromotionRank(startPiece.Player()) {
		move.Promotion = Some(Queen)
	}
	if len(s) == 5 && (move.Promotion.IsEmpty() || s[4] != 'q') {
		return Move{}, Errorf("unsupported promotion in '%v'", s)
	}

	return move, NilError
}

// ApplyMove performs the move and records everything RevertMove needs. En passant
// and castling are detected from the board geometry, and pawns always promote
// to queens.
func (p *Position) ApplyMove(move Move, update *BoardUpdate) {
	*update = BoardUpdate{}
	update.PrevCastlingRights = p.CastlingRights
	update.PrevEnPassantTarget = p.EnPassantTarget

	start, end := move.StartIndex, move.EndIndex
	startPiece := p.Board[start]
	player := startPiece.Player()
	startPieceType := startPiece.PieceType()

	update.Captured = p.Board[end]

	endPiece := startPiece
	if startPieceType == Pawn && FileRankFromIndex(end).Rank == PromotionRank(player) {
		endPiece = PieceForPlayer[player][Queen]
	}

	update.Add(startPiece, start, XX)
	update.Add(p.Board[end], end, endPiece)

	if startPieceType == Pawn && p.Board[end] == XX && start%8 != end%8 {
		// the passed pawn sits on the origin rank, destination file
		captureIndex := start - start%8 + end%8
		update.Captured = p.Board[captureIndex]
		update.Add(p.Board[captureIndex], captureIndex, XX)
	}

	if startPieceType == King && AbsDiff(start%8, end%8) == 2 {
		rookStart, rookEnd := RookMoveForCastle(start, end)
		rookPiece := p.Board[rookStart]
		update.Add(rookPiece, rookStart, XX)
		update.Add(p.Board[rookEnd], rookEnd, rookPiece)
	}

	for i := 0; i < update.Num; i++ {
		p.Board[update.Indices[i]] = update.Pieces[i]
	}

	for _, owner := range [2]Player{White, Black} {
		for _, side := range AllCastlingSides {
			requirement := AllCastlingRequirements[owner][side]
			if start == requirement.KingStart || start == requirement.RookStart ||
				end == requirement.KingStart || end == requirement.RookStart {
				p.CastlingRights[owner][side] = false
			}
		}
	}

	p.EnPassantTarget = Empty[FileRank]()
	if isPawnSkip(startPiece, start, end) {
		p.EnPassantTarget = Some(FileRankFromIndex((start + end) / 2))
	}
}

func (p *Position) RevertMove(update *BoardUpdate) {
	for i := update.Num - 1; i >= 0; i-- {
		p.Board[update.Indices[i]] = update.PrevPieces[i]
	}
	p.CastlingRights = update.PrevCastlingRights
	p.EnPassantTarget = update.PrevEnPassantTarget
}
