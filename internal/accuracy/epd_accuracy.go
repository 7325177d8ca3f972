package accuracy

import (
	"bufio"
	"io"
	"strings"

	. "github.com/cricklet/chessworker/internal/game"
	"github.com/cricklet/chessworker/internal/generation"
	. "github.com/cricklet/chessworker/internal/helpers"
)

// EpdToFen keeps the four position fields of an EPD record.
func EpdToFen(epd string) string {
	parts := strings.Fields(epd)
	if len(parts) > 4 {
		parts = parts[0:4]
	}
	return strings.Join(parts, " ")
}

func pieceTypeFromSan(c byte) PieceType {
	switch c {
	case 'K':
		return King
	case 'Q':
		return Queen
	case 'R':
		return Rook
	case 'B':
		return Bishop
	case 'N':
		return Knight
	}
	return InvalidPiece
}

func isFile(c byte) bool {
	return c >= 'a' && c <= 'h'
}

func isRank(c byte) bool {
	return c >= '1' && c <= '8'
}

func popCapture(moveStr string) (bool, string) {
	if strings.Contains(moveStr, "x") {
		return true, strings.Replace(moveStr, "x", "", 1)
	}
	return false, moveStr
}

func popPromotion(moveStr string) (PieceType, string) {
	moveStr = strings.Replace(moveStr, "=", "", 1)
	i := len(moveStr) - 1
	if i < 0 {
		return InvalidPiece, moveStr
	}
	if pieceType := pieceTypeFromSan(moveStr[i]); pieceType != InvalidPiece {
		return pieceType, moveStr[0:i]
	}
	return InvalidPiece, moveStr
}

func popTargetSquare(moveStr string) (FileRank, string, Error) {
	i := len(moveStr) - 2
	if i < 0 {
		return FileRank{}, moveStr, Errorf("no target square in '%v'", moveStr)
	}
	fileRank, err := FileRankFromString(moveStr[i:])
	return fileRank, moveStr[0:i], err
}

func popAnnotations(moveStr string) string {
	return strings.TrimRight(moveStr, "+#!?")
}

// findMove picks the single legal move to target whose origin matches the
// piece letter and disambiguation prefix of a SAN move.
func findMove(prefix string, target FileRank, moves []Move, pos *Position) (Move, Error) {
	pieceType := Pawn
	if len(prefix) > 0 {
		if t := pieceTypeFromSan(prefix[0]); t != InvalidPiece {
			pieceType = t
			prefix = prefix[1:]
		}
	}

	file := Empty[File]()
	rank := Empty[Rank]()
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if isFile(c) {
			f, err := FileFromChar(c)
			if !IsNil(err) {
				return Move{}, err
			}
			file = Some(f)
		} else if isRank(c) {
			r, err := RankFromChar(c)
			if !IsNil(err) {
				return Move{}, err
			}
			rank = Some(r)
		} else {
			return Move{}, Errorf("unexpected '%c' in '%v'", c, prefix)
		}
	}

	matches := FilterSlice(moves, func(move Move) bool {
		start := FileRankFromIndex(move.StartIndex)
		if FileRankFromIndex(move.EndIndex) != target {
			return false
		}
		if pos.Board[move.StartIndex].PieceType() != pieceType {
			return false
		}
		if file.HasValue() && file.Value() != start.File {
			return false
		}
		if rank.HasValue() && rank.Value() != start.Rank {
			return false
		}
		return true
	})

	if len(matches) == 0 {
		return Move{}, Errorf("no %v moves to %v", pieceType, target)
	}
	if len(matches) > 1 {
		return Move{}, Errorf("multiple %v moves to %v in %v", pieceType, target, FenStringForBoard(pos.Board))
	}
	return matches[0], NilError
}

func findCastle(moves []Move, side CastlingSide) (Move, Error) {
	for _, move := range moves {
		if move.MoveType != CastlingMove {
			continue
		}
		kingside := move.EndIndex > move.StartIndex
		if kingside == (side == Kingside) {
			return move, NilError
		}
	}
	return Move{}, Errorf("castling %v is not legal", side)
}

// MoveFromShorthand resolves a SAN move to coordinate notation.
func MoveFromShorthand(moveStr string, pos *Position, player Player) (string, Error) {
	moves := []Move{}
	generation.GenerateLegalMoves(pos, player, &moves)

	moveStr = popAnnotations(moveStr)
	switch moveStr {
	case "O-O", "0-0":
		move, err := findCastle(moves, Kingside)
		return move.String(), err
	case "O-O-O", "0-0-0":
		move, err := findCastle(moves, Queenside)
		return move.String(), err
	}

	isCapture, rest := popCapture(moveStr)
	promotion, rest := popPromotion(rest)
	if promotion != InvalidPiece && promotion != Queen {
		return "", Errorf("'%v' promotes to %v, only queen promotions are generated", moveStr, promotion)
	}

	target, rest, err := popTargetSquare(rest)
	if !IsNil(err) {
		return "", err
	}

	move, err := findMove(rest, target, moves, pos)
	if !IsNil(err) {
		return "", Errorf("'%v': %w", moveStr, err)
	}
	if isCapture && !move.MoveType.Captures() {
		return "", Errorf("'%v' should be a capture", moveStr)
	}
	if promotion == Queen && move.Promotion.IsEmpty() {
		return "", Errorf("'%v' should be a promotion", moveStr)
	}

	return move.String(), NilError
}

// MovesFromEpd reads the comma separated SAN moves of an opcode like bm or am.
func MovesFromEpd(opcode string, epd string, pos *Position, player Player) ([]string, Error) {
	_, end, found := strings.Cut(epd, " "+opcode+" ")
	if !found {
		return []string{}, NilError
	}
	movesStr := strings.Split(end, ";")[0]

	moves := []string{}
	for _, moveStr := range strings.FieldsFunc(movesStr, func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		move, err := MoveFromShorthand(moveStr, pos, player)
		if !IsNil(err) {
			return []string{}, err
		}
		moves = append(moves, move)
	}

	return moves, NilError
}

func idFromEpd(epd string) string {
	_, end, found := strings.Cut(epd, " id ")
	if !found {
		return ""
	}
	return strings.Trim(strings.Split(end, ";")[0], "\" ")
}

type Epd struct {
	Line   string
	Id     string
	Fen    string
	Pos    Position
	Player Player

	BestMoves  []string
	AvoidMoves []string
}

func ParseEpd(line string) (Epd, Error) {
	fen := EpdToFen(line)
	pos, player, err := PositionFromFenString(fen)
	if !IsNil(err) {
		return Epd{}, err
	}

	bestMoves, err := MovesFromEpd("bm", line, &pos, player)
	if !IsNil(err) {
		return Epd{}, err
	}

	avoidMoves, err := MovesFromEpd("am", line, &pos, player)
	if !IsNil(err) {
		return Epd{}, err
	}

	if len(bestMoves) == 0 && len(avoidMoves) == 0 {
		return Epd{}, Errorf("no bm or am in epd: %v", line)
	}

	return Epd{
		Line:       line,
		Id:         idFromEpd(line),
		Fen:        fen,
		Pos:        pos,
		Player:     player,
		BestMoves:  bestMoves,
		AvoidMoves: avoidMoves,
	}, NilError
}

// LoadEpd reads one record per line. Blank lines and lines starting with #
// are skipped.
func LoadEpd(r io.Reader) ([]Epd, Error) {
	results := []Epd{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		epd, err := ParseEpd(line)
		if !IsNil(err) {
			return results, err
		}
		results = append(results, epd)
	}

	return results, Wrap(scanner.Err())
}

func (e Epd) Success(move string) bool {
	if len(e.BestMoves) > 0 && !Contains(e.BestMoves, move) {
		return false
	}
	if len(e.AvoidMoves) > 0 && Contains(e.AvoidMoves, move) {
		return false
	}
	return true
}
