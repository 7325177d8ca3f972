package uci

import (
	"testing"
	"time"

	"github.com/cricklet/chessworker/internal/engine"
	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
	"github.com/stretchr/testify/assert"
)

func newRunner() *UciRunner {
	return NewUciRunner(engine.New(engine.WithSearchOptions(search.WithoutBook())))
}

func handle(t *testing.T, r *UciRunner, lines ...string) []string {
	output := []string{}
	for _, line := range lines {
		result, err := r.HandleInput(line)
		assert.True(t, IsNil(err), line, err)
		output = append(output, result...)
	}
	return output
}

func bestMove(t *testing.T, r *UciRunner) string {
	select {
	case result := <-r.Engine.Results():
		return BestMoveString(result)
	case <-time.After(30 * time.Second):
		t.Fatal("no bestmove")
	}
	return ""
}

func TestUci(t *testing.T) {
	r := newRunner()
	output := handle(t, r, "uci", "isready")
	assert.Equal(t, "uciok", output[2])
	assert.Equal(t, "readyok", output[3])
}

func TestPositionWithMoves(t *testing.T) {
	r := newRunner()
	handle(t, r, "position startpos moves e2e4 e7e5 g1f3")

	pos, player := r.Position()
	assert.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 0 1", FenString(&pos, player))

	handle(t, r, "position fen r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1 moves e8g8 e1c1")
	pos, player = r.Position()
	assert.Equal(t, "r4rk1/8/8/8/8/8/8/2KR3R b - - 0 1", FenString(&pos, player))

	handle(t, r, "ucinewgame")
	pos, player = r.Position()
	assert.Equal(t, InitialPositionFen, FenString(&pos, player))
}

func TestPositionRejectsIllegalMoves(t *testing.T) {
	r := newRunner()
	for _, line := range []string{
		"position startpos moves e2e5",
		"position startpos moves e7e5",
		"position fen 4k3/8/8/8/8/8/8/4K3 w - - 0 1 moves e1e3",
		"position fen 8/8/8 w - - 0 1",
		"position somewhere",
	} {
		_, err := r.HandleInput(line)
		assert.False(t, IsNil(err), line)
	}
}

func TestGoReturnsBestMove(t *testing.T) {
	r := newRunner()
	handle(t, r, "position fen r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", "go depth 2")
	assert.Equal(t, "bestmove a8a1", bestMove(t, r))

	handle(t, r, "position fen kQK5/8/8/8/8/8/8/8 b - - 0 1", "go")
	assert.Equal(t, "bestmove 0000", bestMove(t, r))
}

func TestGoWhileSearching(t *testing.T) {
	r := newRunner()
	handle(t, r, "position fen r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "go depth 6")

	_, err := r.HandleInput("go depth 1")
	assert.False(t, IsNil(err))

	handle(t, r, "stop")
	bestMove(t, r)
}

func TestGoNodes(t *testing.T) {
	r := newRunner()
	handle(t, r, "position startpos", "go depth 6 nodes 1")
	assert.Equal(t, "bestmove 0000", bestMove(t, r))

	_, err := r.HandleInput("go depth")
	assert.False(t, IsNil(err))
}

func TestDisplay(t *testing.T) {
	r := newRunner()
	output := handle(t, r, "d")
	assert.Equal(t, "Fen: "+InitialPositionFen, output[len(output)-2])
	assert.Equal(t, "Status: ongoing", output[len(output)-1])
}
