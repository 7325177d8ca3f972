package arena

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
	combinations "github.com/mxschmitt/golang-combinations"
	"github.com/notnil/chess"
	"golang.org/x/sync/errgroup"
)

// Contestant is one named engine configuration.
type Contestant struct {
	Name    string
	Options []search.SearchOption
}

type Pairing struct {
	White Contestant
	Black Contestant
	Fen   string
}

type GameResult struct {
	Pairing Pairing
	Outcome chess.Outcome
	Method  chess.Method
	Plies   int
	Moves   []string
}

func (r GameResult) String() string {
	return fmt.Sprintf("%v vs %v: %v by %v after %v plies",
		r.Pairing.White.Name, r.Pairing.Black.Name, r.Outcome, r.Method, r.Plies)
}

// Pairings plays every pair of contestants from every opening, once with
// each color.
func Pairings(contestants []Contestant, openings []string) []Pairing {
	result := []Pairing{}
	for _, pair := range combinations.All(contestants) {
		if len(pair) != 2 {
			continue
		}
		for _, fen := range openings {
			result = append(result,
				Pairing{White: pair[0], Black: pair[1], Fen: fen},
				Pairing{White: pair[1], Black: pair[0], Fen: fen})
		}
	}
	return result
}

// findOracleMove matches an engine move against the adjudicator's legal moves.
func findOracleMove(g *chess.Game, move Move) Optional[*chess.Move] {
	start := StringFromBoardIndex(move.StartIndex)
	end := StringFromBoardIndex(move.EndIndex)
	for _, m := range g.ValidMoves() {
		if m.S1().String() != start || m.S2().String() != end {
			continue
		}
		if m.Promo() != chess.NoPieceType && m.Promo() != chess.Queen {
			continue
		}
		return Some(m)
	}
	return Empty[*chess.Move]()
}

func claimDraw(g *chess.Game) Error {
	for _, method := range g.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			return Wrap(g.Draw(method))
		}
	}
	return NilError
}

// PlayGame plays one game. The adjudicator decides legality and outcome; a
// game still running after maxPlies is a draw. Each ply is reported to logger.
func PlayGame(ctx context.Context, pairing Pairing, maxPlies int, logger Logger) (GameResult, Error) {
	result := GameResult{Pairing: pairing, Outcome: chess.Draw, Method: chess.NoMethod}

	pos, player, err := game.PositionFromFenString(pairing.Fen)
	if !IsNil(err) {
		return result, err
	}

	fenOption, fenErr := chess.FEN(pairing.Fen)
	if fenErr != nil {
		return result, Wrap(fenErr)
	}
	g := chess.NewGame(fenOption)

	for g.Outcome() == chess.NoOutcome && result.Plies < maxPlies {
		if ctx.Err() != nil {
			return result, Wrap(ctx.Err())
		}

		contestant := pairing.White
		if player == Black {
			contestant = pairing.Black
		}

		searchResult, err := search.NewSearcher(pos, player, contestant.Options...).Search(ctx)
		if !IsNil(err) {
			return result, err
		}
		if searchResult.Move.IsEmpty() {
			return result, Errorf("%v found no move in %v but the game is not over",
				contestant.Name, game.FenString(&pos, player))
		}

		move := searchResult.Move.Value()
		oracleMove := findOracleMove(g, move)
		if oracleMove.IsEmpty() {
			return result, Errorf("%v played illegal move %v in %v",
				contestant.Name, move, game.FenString(&pos, player))
		}
		if moveErr := g.Move(oracleMove.Value()); moveErr != nil {
			return result, Wrap(moveErr)
		}

		update := BoardUpdate{}
		pos.ApplyMove(move, &update)
		player = player.Other()

		result.Moves = append(result.Moves, move.String())
		result.Plies++
		logger.Printf("%v vs %v: ply %v %v %v (%v)",
			pairing.White.Name, pairing.Black.Name, result.Plies, contestant.Name, move,
			search.ScoreString(searchResult.Score))

		err = claimDraw(g)
		if !IsNil(err) {
			return result, err
		}
	}

	if g.Outcome() != chess.NoOutcome {
		result.Outcome = g.Outcome()
		result.Method = g.Method()
	}
	logger.Println(result)
	return result, NilError
}

// PlayAll runs the games concurrently, at most parallelism at a time. With
// footers, each running game reports its progress on its own footer line.
func PlayAll(ctx context.Context, pairings []Pairing, maxPlies int, parallelism int, progress ProgressBar, footers Optional[*LiveLogger]) ([]GameResult, Error) {
	parallelism = Max(parallelism, 1)
	results := make([]GameResult, len(pairings))
	mutex := sync.Mutex{}

	// a running game holds one footer slot
	slots := make(chan int, parallelism)
	for slot := 0; slot < parallelism; slot++ {
		slots <- slot
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	for i, pairing := range pairings {
		i, pairing := i, pairing
		group.Go(func() error {
			slot := <-slots
			defer func() { slots <- slot }()

			var logger Logger = &SilentLogger
			if footers.HasValue() {
				logger = footers.Value().FooterLogger(slot)
			}

			result, err := PlayGame(ctx, pairing, maxPlies, logger)
			if !IsNil(err) {
				return err
			}
			results[i] = result

			mutex.Lock()
			defer mutex.Unlock()
			progress.Add(1)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, Wrap(err)
	}
	return results, NilError
}

type Record struct {
	Wins   int
	Draws  int
	Losses int
}

func (r Record) Score() float64 {
	return float64(r.Wins) + float64(r.Draws)/2
}

func Tally(results []GameResult) map[string]Record {
	records := map[string]Record{}
	for _, result := range results {
		white := records[result.Pairing.White.Name]
		black := records[result.Pairing.Black.Name]

		switch result.Outcome {
		case chess.WhiteWon:
			white.Wins++
			black.Losses++
		case chess.BlackWon:
			white.Losses++
			black.Wins++
		default:
			white.Draws++
			black.Draws++
		}

		records[result.Pairing.White.Name] = white
		records[result.Pairing.Black.Name] = black
	}
	return records
}

// Table formats records best score first.
func Table(records map[string]Record) string {
	names := []string{}
	for name := range records {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if records[names[i]].Score() != records[names[j]].Score() {
			return records[names[i]].Score() > records[names[j]].Score()
		}
		return names[i] < names[j]
	})

	lines := []string{fmt.Sprintf("%-24v %4v %4v %4v %6v", "engine", "W", "D", "L", "score")}
	for _, name := range names {
		r := records[name]
		lines = append(lines, fmt.Sprintf("%-24v %4v %4v %4v %6.1f", name, r.Wins, r.Draws, r.Losses, r.Score()))
	}
	return strings.Join(lines, "\n")
}
