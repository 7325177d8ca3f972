package engine

import (
	"encoding/json"
	"fmt"

	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
)

// The wire format addresses squares by grid row and column. Row 0 is black's
// back rank, so row r is rank 7-r.

type Command int

const (
	StartCommand Command = iota
	StopCommand
)

func (c Command) String() string {
	switch c {
	case StartCommand:
		return "start"
	case StopCommand:
		return "stop"
	}
	return "unknown"
}

type WireCastling struct {
	WK bool `json:"wK"`
	WQ bool `json:"wQ"`
	BK bool `json:"bK"`
	BQ bool `json:"bQ"`
}

type WireSquare struct {
	R int `json:"r"`
	C int `json:"c"`
}

type WireMove struct {
	R1 int `json:"r1"`
	C1 int `json:"c1"`
	R2 int `json:"r2"`
	C2 int `json:"c2"`
}

type MessageFromHost struct {
	Command   string        `json:"command"`
	Board     [][]string    `json:"board,omitempty"`
	Castling  *WireCastling `json:"castling,omitempty"`
	EnPassant *WireSquare   `json:"enPassant"`
	Depth     *int          `json:"depth,omitempty"`
	Color     *string       `json:"color,omitempty"`
}

func (m MessageFromHost) String() string {
	if m.Command == "start" {
		depth := "default"
		if m.Depth != nil {
			depth = fmt.Sprint(*m.Depth)
		}
		return fmt.Sprint("MessageFromHost start, depth: ", depth)
	}
	return fmt.Sprint("MessageFromHost ", m.Command)
}

func indexFromGrid(r int, c int) (int, Error) {
	if r < 0 || r >= 8 || c < 0 || c >= 8 {
		return 0, Errorf("square (%v, %v) is off the board", r, c)
	}
	return IndexFromFileRank(FileRank{File: File(c), Rank: Rank(7 - r)}), NilError
}

func gridFromIndex(index int) (int, int) {
	location := FileRankFromIndex(index)
	return 7 - int(location.Rank), int(location.File)
}

func boardFromGrid(grid [][]string) (BoardArray, Error) {
	board := BoardArray{}
	if len(grid) != 8 {
		return board, Errorf("board has %v rows, expected 8", len(grid))
	}

	for r, row := range grid {
		if len(row) != 8 {
			return board, Errorf("board row %v has %v squares, expected 8", r, len(row))
		}
		for c, letter := range row {
			if letter == "" {
				continue
			}
			runes := []rune(letter)
			if len(runes) != 1 {
				return board, Errorf("invalid piece '%v' at (%v, %v)", letter, r, c)
			}
			piece, err := PieceFromRune(runes[0])
			if !IsNil(err) {
				return board, Errorf("invalid piece '%v' at (%v, %v)", letter, r, c)
			}

			index, _ := indexFromGrid(r, c)
			board[index] = piece
		}
	}

	return board, NilError
}

func gridFromBoard(board BoardArray) [][]string {
	grid := make([][]string, 8)
	for r := range grid {
		grid[r] = make([]string, 8)
		for c := range grid[r] {
			index, _ := indexFromGrid(r, c)
			if piece := board[index]; piece != XX {
				grid[r][c] = piece.String()
			}
		}
	}
	return grid
}

// StartRequestFromMessage validates a start message. Missing depth and color
// default to 4 and black.
func StartRequestFromMessage(m MessageFromHost) (StartRequest, Error) {
	req := StartRequest{Depth: search.DefaultDepth, Player: Black}

	board, err := boardFromGrid(m.Board)
	if !IsNil(err) {
		return req, err
	}
	req.Board = board

	if m.Castling != nil {
		req.Castling[White][Kingside] = m.Castling.WK
		req.Castling[White][Queenside] = m.Castling.WQ
		req.Castling[Black][Kingside] = m.Castling.BK
		req.Castling[Black][Queenside] = m.Castling.BQ
	}

	if m.EnPassant != nil {
		index, err := indexFromGrid(m.EnPassant.R, m.EnPassant.C)
		if !IsNil(err) {
			return req, Errorf("invalid en passant target: %w", err)
		}
		req.EnPassant = Some(FileRankFromIndex(index))
	}

	if m.Depth != nil {
		req.Depth = search.ClampDepth(*m.Depth)
	}

	if m.Color != nil && *m.Color != "" {
		player, err := PlayerFromString(*m.Color)
		if !IsNil(err) {
			return req, Errorf("invalid color '%v'", *m.Color)
		}
		req.Player = player
	}

	return req, NilError
}

func MessageFromStartRequest(req StartRequest) MessageFromHost {
	m := MessageFromHost{
		Command: "start",
		Board:   gridFromBoard(req.Board),
		Castling: &WireCastling{
			WK: req.Castling[White][Kingside],
			WQ: req.Castling[White][Queenside],
			BK: req.Castling[Black][Kingside],
			BQ: req.Castling[Black][Queenside],
		},
	}

	if req.EnPassant.HasValue() {
		r, c := gridFromIndex(IndexFromFileRank(req.EnPassant.Value()))
		m.EnPassant = &WireSquare{R: r, C: c}
	}

	depth := req.Depth
	m.Depth = &depth

	color := "b"
	if req.Player == White {
		color = "w"
	}
	m.Color = &color

	return m
}

// DecodeMessage parses a host message. The request is only set for start.
func DecodeMessage(bytes []byte) (Command, Optional[StartRequest], Error) {
	var m MessageFromHost
	if err := json.Unmarshal(bytes, &m); err != nil {
		return StopCommand, Empty[StartRequest](), Errorf("decoding message: %w", err)
	}

	switch m.Command {
	case "start":
		req, err := StartRequestFromMessage(m)
		if !IsNil(err) {
			return StartCommand, Empty[StartRequest](), err
		}
		return StartCommand, Some(req), NilError
	case "stop":
		return StopCommand, Empty[StartRequest](), NilError
	}
	return StopCommand, Empty[StartRequest](), Errorf("unknown command '%v'", m.Command)
}

func WireMoveFromMove(move Move) WireMove {
	r1, c1 := gridFromIndex(move.StartIndex)
	r2, c2 := gridFromIndex(move.EndIndex)
	return WireMove{R1: r1, C1: c1, R2: r2, C2: c2}
}

// EncodeResult writes the chosen move, or null when there is none.
func EncodeResult(result Result) ([]byte, Error) {
	if result.Move.IsEmpty() {
		return []byte("null"), NilError
	}
	return WrapReturn(json.Marshal(WireMoveFromMove(result.Move.Value())))
}
