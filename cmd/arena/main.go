package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cricklet/chessworker/internal/arena"
	"github.com/cricklet/chessworker/internal/evaluation"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"golang.org/x/term"
)

var _openings = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
	"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq - 0 1",
	"rnbqkbnr/pppppppp/8/8/2P5/8/PP1PPPPP/RNBQKBNR b KQkq - 0 1",
}

func contestant(richness evaluation.Richness, depth int, useBook bool) arena.Contestant {
	options := []search.SearchOption{
		search.WithEvaluation(richness),
		search.WithMaxDepth(depth),
	}
	name := fmt.Sprintf("%v-d%v", richness, depth)
	if !useBook {
		options = append(options, search.WithoutBook())
		name += "-nobook"
	}
	return arena.Contestant{Name: name, Options: options}
}

func main() {
	maxDepth := flag.Int("depth", 2, "deepest configuration to include")
	maxPlies := flag.Int("plies", 120, "plies before a game is adjudicated a draw")
	parallelism := flag.Int("parallel", 4, "games played at once")
	verbose := flag.Bool("v", false, "print every game")
	live := flag.Bool("live", false, "show each running game on its own line instead of a progress bar")
	flag.Parse()

	if Contains(flag.Args(), "profile") {
		p := profile.Start(profile.ProfilePath("."))
		defer p.Stop()
	}

	contestants := []arena.Contestant{}
	for depth := search.MinDepth; depth <= search.ClampDepth(*maxDepth); depth++ {
		contestants = append(contestants,
			contestant(evaluation.MaterialOnly, depth, true),
			contestant(evaluation.Strategic, depth, true))
	}
	contestants = append(contestants, contestant(evaluation.Strategic, search.ClampDepth(*maxDepth), false))

	pairings := arena.Pairings(contestants, _openings)

	progress := SilentProgressBar()
	footers := Empty[*LiveLogger]()
	if *live && term.IsTerminal(int(os.Stdout.Fd())) {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 0
		}
		footers = Some(NewLiveLogger(os.Stdout, width))
	} else {
		progress = CreateProgressBar(len(pairings), "games")
	}

	start := time.Now()
	results, err := arena.PlayAll(context.Background(), pairings, *maxPlies, *parallelism, progress, footers)
	progress.Close()
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if *verbose {
		for _, result := range results {
			fmt.Println(result)
		}
		fmt.Println()
	}

	fmt.Println(arena.Table(arena.Tally(results)))
	fmt.Println()
	fmt.Printf("%v games in %v\n", humanize.Comma(int64(len(results))), time.Since(start).Round(time.Millisecond))
	fmt.Println(MemUsageString())
}
