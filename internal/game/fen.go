package game

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/cricklet/chessworker/internal/helpers"
)

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func FenStringForPlayer(p Player) string {
	if p == White {
		return "w"
	}
	return "b"
}

var fenStringForCastling = [2][2]string{
	{"K", "Q"},
	{"k", "q"},
}

func fenStringForCastlingRights(rights CastlingRights) string {
	s := ""
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if rights[i][j] {
				s += fenStringForCastling[i][j]
			}
		}
	}
	if len(s) == 0 {
		s += "-"
	}
	return s
}

func fenStringForEnPassant(enPassant Optional[FileRank]) string {
	if enPassant.IsEmpty() {
		return "-"
	}
	return enPassant.Value().String()
}

// FenStringForBoard returns only the piece placement field.
func FenStringForBoard(b BoardArray) string {
	s := ""
	for rank := 7; rank >= 0; rank-- {
		numSpaces := 0
		for file := 0; file < 8; file++ {
			piece := b[IndexFromFileRank(FileRank{File: File(file), Rank: Rank(rank)})]
			if piece == XX {
				numSpaces++
				continue
			}
			if numSpaces > 0 {
				s += fmt.Sprint(numSpaces)
				numSpaces = 0
			}
			s += piece.String()
		}
		if numSpaces > 0 {
			s += fmt.Sprint(numSpaces)
		}
		if rank != 0 {
			s += "/"
		}
	}
	return s
}

func FenString(pos *Position, player Player) string {
	return fmt.Sprintf("%v %v %v %v 0 1",
		FenStringForBoard(pos.Board),
		FenStringForPlayer(player),
		fenStringForCastlingRights(pos.CastlingRights),
		fenStringForEnPassant(pos.EnPassantTarget))
}

func BoardFromFenString(boardStr string) (BoardArray, Error) {
	var board BoardArray

	ranks := strings.Split(boardStr, "/")
	if len(ranks) != 8 {
		return board, Errorf("expected 8 ranks in '%v'", boardStr)
	}

	for i, rankStr := range ranks {
		rank := Rank(7 - i)
		file := 0
		for _, c := range rankStr {
			if file >= 8 {
				return board, Errorf("too many squares in rank %v of '%v'", rank, boardStr)
			}
			if skip, err := strconv.ParseInt(string(c), 10, 0); err == nil {
				if skip < 1 || skip > 8 {
					return board, Errorf("invalid skip '%v' in '%v'", string(c), boardStr)
				}
				file += int(skip)
			} else if p, err := PieceFromRune(c); IsNil(err) {
				board[IndexFromFileRank(FileRank{File: File(file), Rank: rank})] = p
				file++
			} else {
				return board, Errorf("unknown character '%v' in '%v'", string(c), boardStr)
			}
		}
		if file != 8 {
			return board, Errorf("rank %v of '%v' has %v squares", rank, boardStr, file)
		}
	}

	return board, NilError
}

// PositionFromFenString accepts 2, 4 or 6 fields. Clocks are parsed for validity
// and otherwise ignored.
func PositionFromFenString(s string) (Position, Player, Error) {
	ss := strings.Fields(s)
	if len(ss) != 6 && len(ss) != 4 && len(ss) != 2 {
		return Position{}, White, Errorf("wrong num %v of fields in str '%v'", len(ss), s)
	}

	board, err := BoardFromFenString(ss[0])
	if !IsNil(err) {
		return Position{}, White, err
	}

	player, err := PlayerFromString(ss[1])
	if !IsNil(err) {
		return Position{}, White, Errorf("invalid player '%v' in '%v'", ss[1], s)
	}

	pos := Position{Board: board}

	castlingRightsString, enPassantTargetString := "-", "-"
	if len(ss) >= 4 {
		castlingRightsString, enPassantTargetString = ss[2], ss[3]
	}

	for _, c := range castlingRightsString {
		switch c {
		case '-':
			continue
		case 'K':
			pos.CastlingRights[White][Kingside] = true
		case 'Q':
			pos.CastlingRights[White][Queenside] = true
		case 'k':
			pos.CastlingRights[Black][Kingside] = true
		case 'q':
			pos.CastlingRights[Black][Queenside] = true
		default:
			return Position{}, White, Errorf("invalid castling rights '%v' in '%v'", castlingRightsString, s)
		}
	}

	if enPassantTargetString != "-" {
		target, err := FileRankFromString(enPassantTargetString)
		if !IsNil(err) {
			return Position{}, White, Errorf("invalid en-passant target '%v' in '%v'", enPassantTargetString, s)
		}
		pos.EnPassantTarget = Some(target)
	}

	if len(ss) == 6 {
		for _, clock := range ss[4:] {
			if _, err := strconv.Atoi(clock); err != nil {
				return Position{}, White, Errorf("invalid clock '%v' in '%v'", clock, s)
			}
		}
	}

	return pos, player, NilError
}

func InitialPosition() Position {
	pos, _, err := PositionFromFenString(InitialPositionFen)
	if !IsNil(err) {
		panic(err)
	}
	return pos
}
