package arena

import (
	"bytes"
	"context"
	"testing"

	"github.com/cricklet/chessworker/internal/evaluation"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
)

var _shallow = Contestant{
	Name:    "material-d2",
	Options: []search.SearchOption{search.WithMaxDepth(2), search.WithEvaluation(evaluation.MaterialOnly), search.WithoutBook()},
}

var _deeper = Contestant{
	Name:    "strategic-d2",
	Options: []search.SearchOption{search.WithMaxDepth(2), search.WithoutBook()},
}

func TestPairings(t *testing.T) {
	third := Contestant{Name: "third"}
	pairings := Pairings([]Contestant{_shallow, _deeper, third}, []string{"a", "b"})

	// three pairs, two openings, two colors
	assert.Equal(t, 12, len(pairings))

	seen := map[string]int{}
	for _, p := range pairings {
		assert.NotEqual(t, p.White.Name, p.Black.Name)
		seen[p.White.Name+" "+p.Black.Name+" "+p.Fen]++
	}
	assert.Equal(t, 12, len(seen))
	assert.Equal(t, 1, seen["material-d2 strategic-d2 a"])
	assert.Equal(t, 1, seen["strategic-d2 material-d2 a"])
}

func TestPlayGameMateInOne(t *testing.T) {
	pairing := Pairing{White: _shallow, Black: _deeper, Fen: "r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1"}
	result, err := PlayGame(context.Background(), pairing, 10, &SilentLogger)
	assert.True(t, IsNil(err), err)

	assert.Equal(t, chess.BlackWon, result.Outcome)
	assert.Equal(t, chess.Checkmate, result.Method)
	assert.Equal(t, []string{"a8a1"}, result.Moves)
	assert.Equal(t, 1, result.Plies)
}

func TestPlayGameStopsAtMaxPlies(t *testing.T) {
	pairing := Pairing{White: _shallow, Black: _shallow, Fen: "4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1"}
	result, err := PlayGame(context.Background(), pairing, 4, &SilentLogger)
	assert.True(t, IsNil(err), err)

	assert.Equal(t, chess.Draw, result.Outcome)
	assert.Equal(t, chess.NoMethod, result.Method)
	assert.Equal(t, 4, result.Plies)
}

func TestPlayGameCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pairing := Pairing{White: _shallow, Black: _shallow, Fen: "4k3/8/8/8/8/8/8/4K2R w K - 0 1"}
	_, err := PlayGame(ctx, pairing, 4, &SilentLogger)
	assert.False(t, IsNil(err))
}

func TestPlayAllAndTally(t *testing.T) {
	pairings := Pairings([]Contestant{_shallow, _deeper}, []string{"r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1"})
	results, err := PlayAll(context.Background(), pairings, 2, 2, SilentProgressBar(), Empty[*LiveLogger]())
	assert.True(t, IsNil(err), err)
	assert.Equal(t, 2, len(results))

	records := Tally(results)
	total := 0
	for _, r := range records {
		total += r.Wins + r.Draws + r.Losses
	}
	assert.Equal(t, 4, total)

	// black mates in one whichever contestant plays it
	assert.Equal(t, 1, records[_shallow.Name].Wins)
	assert.Equal(t, 1, records[_deeper.Name].Wins)
	assert.Equal(t, 1, records[_shallow.Name].Losses)
}

func TestTable(t *testing.T) {
	table := Table(map[string]Record{
		"a": {Wins: 1, Draws: 1},
		"b": {Wins: 2},
	})
	assert.Equal(t, "engine                      W    D    L  score\n"+
		"b                           2    0    0    2.0\n"+
		"a                           1    1    0    1.5", table)
}

func TestClaimDraw(t *testing.T) {
	g := chess.NewGame()
	assert.True(t, IsNil(claimDraw(g)))
	assert.Equal(t, chess.NoOutcome, g.Outcome())

	for i := 0; i < 2; i++ {
		for _, move := range []string{"Nf3", "Nf6", "Ng1", "Ng8"} {
			assert.NoError(t, g.MoveStr(move))
		}
	}

	err := claimDraw(g)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, chess.Draw, g.Outcome())
	assert.Equal(t, chess.ThreefoldRepetition, g.Method())
}

func TestPlayAllReportsOnFooters(t *testing.T) {
	out := &bytes.Buffer{}
	footers := NewLiveLogger(out, 0)

	pairings := Pairings([]Contestant{_shallow, _deeper}, []string{"r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1"})
	_, err := PlayAll(context.Background(), pairings, 2, 1, SilentProgressBar(), Some(footers))
	assert.True(t, IsNil(err), err)

	// one slot, so the last finished game owns the only footer
	assert.Equal(t, "strategic-d2 vs material-d2: 0-1 by Checkmate after 1 plies", footers.FooterString())
	assert.Contains(t, out.String(), "material-d2 vs strategic-d2: ply 1 strategic-d2 a8a1")
}
