package generation

import (
	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
)

type offset struct {
	file int
	rank int
}

var _knightJumps = [8]offset{
	{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var _kingSteps = [8]offset{
	{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

var _rookDirections = []offset{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
var _bishopDirections = []offset{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
var _queenDirections = append(append([]offset{}, _rookDirections...), _bishopDirections...)

var _slidingDirections = [7][]offset{
	Rook:   _rookDirections,
	Bishop: _bishopDirections,
	Queen:  _queenDirections,
}

func pawnDirection(player Player) int {
	if player == White {
		return 1
	}
	return -1
}

// step returns the index reached from index by o, or false when it leaves the board.
func step(index int, o offset) (int, bool) {
	file := index%8 + o.file
	rank := index/8 + o.rank
	if file < 0 || file >= 8 || rank < 0 || rank >= 8 {
		return 0, false
	}
	return rank*8 + file, true
}

type generationOptions struct {
	onlyCaptures bool
}

func generateJumpMoves(f func(move Move), pos *Position, player Player, startIndex int, jumps [8]offset, options generationOptions) {
	for _, jump := range jumps {
		endIndex, ok := step(startIndex, jump)
		if !ok {
			continue
		}
		target := pos.Board[endIndex]
		if target == XX {
			if !options.onlyCaptures {
				f(Move{MoveType: QuietMove, StartIndex: startIndex, EndIndex: endIndex})
			}
		} else if !target.BelongsTo(player) {
			f(Move{MoveType: CaptureMove, StartIndex: startIndex, EndIndex: endIndex, Captured: target})
		}
	}
}

func generateWalkMoves(f func(move Move), pos *Position, player Player, startIndex int, directions []offset, options generationOptions) {
	for _, direction := range directions {
		endIndex, ok := step(startIndex, direction)
		for ok {
			target := pos.Board[endIndex]
			if target != XX {
				if !target.BelongsTo(player) {
					f(Move{MoveType: CaptureMove, StartIndex: startIndex, EndIndex: endIndex, Captured: target})
				}
				break
			}
			if !options.onlyCaptures {
				f(Move{MoveType: QuietMove, StartIndex: startIndex, EndIndex: endIndex})
			}
			endIndex, ok = step(endIndex, direction)
		}
	}
}

func appendPawnMove(f func(move Move), player Player, move Move) {
	if FileRankFromIndex(move.EndIndex).Rank == PromotionRank(player) {
		move.Promotion = Some(Queen)
	}
	f(move)
}

func generatePawnMoves(f func(move Move), pos *Position, player Player, startIndex int, options generationOptions) {
	direction := pawnDirection(player)

	if !options.onlyCaptures {
		oneStep, ok := step(startIndex, offset{0, direction})
		if ok && pos.Board[oneStep] == XX {
			appendPawnMove(f, player, Move{MoveType: QuietMove, StartIndex: startIndex, EndIndex: oneStep})

			if FileRankFromIndex(startIndex).Rank == PawnHomeRank(player) {
				twoStep, ok := step(oneStep, offset{0, direction})
				if ok && pos.Board[twoStep] == XX {
					f(Move{MoveType: QuietMove, StartIndex: startIndex, EndIndex: twoStep})
				}
			}
		}
	}

	for _, captureFile := range [2]int{-1, 1} {
		endIndex, ok := step(startIndex, offset{captureFile, direction})
		if !ok {
			continue
		}

		target := pos.Board[endIndex]
		if target != XX {
			if !target.BelongsTo(player) {
				appendPawnMove(f, player, Move{MoveType: CaptureMove, StartIndex: startIndex, EndIndex: endIndex, Captured: target})
			}
			continue
		}

		if pos.EnPassantTarget.HasValue() && IndexFromFileRank(pos.EnPassantTarget.Value()) == endIndex {
			passedIndex := startIndex - startIndex%8 + endIndex%8
			passed := pos.Board[passedIndex]
			if passed == PieceForPlayer[player.Other()][Pawn] {
				f(Move{MoveType: EnPassantMove, StartIndex: startIndex, EndIndex: endIndex, Captured: passed})
			}
		}
	}
}

func generateCastlingMoves(f func(move Move), pos *Position, player Player) {
	king := PieceForPlayer[player][King]
	rook := PieceForPlayer[player][Rook]
	enemy := player.Other()

	for _, side := range AllCastlingSides {
		if !pos.CastlingRights[player][side] {
			continue
		}
		requirement := AllCastlingRequirements[player][side]
		if pos.Board[requirement.KingStart] != king || pos.Board[requirement.RookStart] != rook {
			continue
		}

		canCastle := true
		for _, index := range requirement.Between {
			if pos.Board[index] != XX {
				canCastle = false
				break
			}
		}
		if !canCastle {
			continue
		}
		for _, index := range requirement.Safe {
			if IsSquareAttacked(pos, index, enemy) {
				canCastle = false
				break
			}
		}

		if canCastle {
			f(Move{MoveType: CastlingMove, StartIndex: requirement.KingStart, EndIndex: requirement.KingEnd})
		}
	}
}

func generatePseudoMovesInternal(f func(move Move), pos *Position, player Player, options generationOptions) {
	for startIndex, piece := range pos.Board {
		if !piece.BelongsTo(player) {
			continue
		}

		switch pieceType := piece.PieceType(); pieceType {
		case Pawn:
			generatePawnMoves(f, pos, player, startIndex, options)
		case Knight:
			generateJumpMoves(f, pos, player, startIndex, _knightJumps, options)
		case King:
			generateJumpMoves(f, pos, player, startIndex, _kingSteps, options)
		case Rook, Bishop, Queen:
			generateWalkMoves(f, pos, player, startIndex, _slidingDirections[pieceType], options)
		}
	}

	if !options.onlyCaptures {
		generateCastlingMoves(f, pos, player)
	}
}

// GeneratePseudoMoves calls f for every geometrically valid move of player,
// ignoring whether it leaves player's own king attacked.
func GeneratePseudoMoves(f func(move Move), pos *Position, player Player) {
	generatePseudoMovesInternal(f, pos, player, generationOptions{})
}

func GeneratePseudoCaptures(f func(move Move), pos *Position, player Player) {
	generatePseudoMovesInternal(f, pos, player, generationOptions{onlyCaptures: true})
}

// IsSquareAttacked reports whether a pseudo-legal capture by player could land
// on index. Pawns attack diagonally whether or not the square is occupied.
func IsSquareAttacked(pos *Position, index int, by Player) bool {
	for _, jump := range _knightJumps {
		if from, ok := step(index, jump); ok && pos.Board[from] == PieceForPlayer[by][Knight] {
			return true
		}
	}
	for _, kingStep := range _kingSteps {
		if from, ok := step(index, kingStep); ok && pos.Board[from] == PieceForPlayer[by][King] {
			return true
		}
	}

	// a pawn of by attacks index from one rank behind it (relative to by)
	for _, captureFile := range [2]int{-1, 1} {
		if from, ok := step(index, offset{captureFile, -pawnDirection(by)}); ok && pos.Board[from] == PieceForPlayer[by][Pawn] {
			return true
		}
	}

	for _, pieceType := range [2]PieceType{Rook, Bishop} {
		slider := PieceForPlayer[by][pieceType]
		queen := PieceForPlayer[by][Queen]
		for _, direction := range _slidingDirections[pieceType] {
			from, ok := step(index, direction)
			for ok {
				piece := pos.Board[from]
				if piece != XX {
					if piece == slider || piece == queen {
						return true
					}
					break
				}
				from, ok = step(from, direction)
			}
		}
	}

	return false
}

// KingIsInCheck is false when player has no king on the board.
func KingIsInCheck(pos *Position, player Player) bool {
	kingIndex := pos.KingIndex(player)
	if kingIndex.IsEmpty() {
		return false
	}
	return IsSquareAttacked(pos, kingIndex.Value(), player.Other())
}

// IsLegal applies and reverts move, leaving pos unchanged.
func IsLegal(pos *Position, player Player, move Move) bool {
	update := BoardUpdate{}
	pos.ApplyMove(move, &update)
	legal := !KingIsInCheck(pos, player)
	pos.RevertMove(&update)
	return legal
}

func generateLegalMovesInternal(pos *Position, player Player, legalMovesOutput *[]Move, options generationOptions) {
	if pos.KingIndex(player).IsEmpty() {
		return
	}

	pseudoMoves := GetMovesBuffer()
	defer ReleaseMovesBuffer(pseudoMoves)

	generatePseudoMovesInternal(func(move Move) {
		*pseudoMoves = append(*pseudoMoves, move)
	}, pos, player, options)

	for _, move := range *pseudoMoves {
		if IsLegal(pos, player, move) {
			*legalMovesOutput = append(*legalMovesOutput, move)
		}
	}
}

// GenerateLegalMoves appends the legal moves of player. A player without a king
// has no legal moves.
func GenerateLegalMoves(pos *Position, player Player, legalMovesOutput *[]Move) {
	generateLegalMovesInternal(pos, player, legalMovesOutput, generationOptions{})
}

func GenerateLegalCaptures(pos *Position, player Player, legalMovesOutput *[]Move) {
	generateLegalMovesInternal(pos, player, legalMovesOutput, generationOptions{onlyCaptures: true})
}

func HasLegalMove(pos *Position, player Player) bool {
	if pos.KingIndex(player).IsEmpty() {
		return false
	}

	found := false
	GeneratePseudoMoves(func(move Move) {
		if !found && IsLegal(pos, player, move) {
			found = true
		}
	}, pos, player)
	return found
}
