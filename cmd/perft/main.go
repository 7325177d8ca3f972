package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cricklet/chessworker/internal/game"
	"github.com/cricklet/chessworker/internal/generation"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"
)

// perftByMove counts each root move on its own goroutine, each with its own
// copy of the position.
func perftByMove(pos game.Position, player Player, depth int, progress ProgressBar) (map[string]int, Error) {
	moves := []Move{}
	generation.GenerateLegalMoves(&pos, player, &moves)

	result := map[string]int{}
	mutex := sync.Mutex{}

	group := errgroup.Group{}
	for _, move := range moves {
		move := move
		group.Go(func() error {
			child := pos
			update := BoardUpdate{}
			child.ApplyMove(move, &update)
			count := generation.Perft(&child, player.Other(), depth-1)

			mutex.Lock()
			defer mutex.Unlock()
			result[move.String()] = count
			progress.Add(1)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, Wrap(err)
	}
	return result, NilError
}

func main() {
	depth := flag.Int("depth", 4, "perft depth")
	quiet := flag.Bool("quiet", false, "hide the progress bar")
	flag.Parse()

	args := flag.Args()
	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath("."))
		defer p.Stop()
	}
	args = FilterSlice(args, func(arg string) bool {
		return arg != "profile"
	})

	fen := game.InitialPositionFen
	if len(args) > 0 {
		fen = strings.Join(args, " ")
	}

	pos, player, err := game.PositionFromFenString(fen)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if *depth < 1 {
		fmt.Println("nodes 1")
		return
	}

	fmt.Println(pos.Board.Unicode())
	fmt.Println(fen)

	rootMoves := []Move{}
	generation.GenerateLegalMoves(&pos, player, &rootMoves)

	progress := SilentProgressBar()
	if !*quiet {
		progress = CreateProgressBar(len(rootMoves), fmt.Sprintf("perft %v", *depth))
	}

	start := time.Now()
	counts, err := perftByMove(pos, player, *depth, progress)
	progress.Close()
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	keys := []string{}
	total := 0
	for move, count := range counts {
		keys = append(keys, move)
		total += count
	}
	sort.Strings(keys)

	for _, move := range keys {
		fmt.Printf("%v: %v\n", move, counts[move])
	}
	fmt.Println()
	fmt.Println("nodes", humanize.Comma(int64(total)))
	fmt.Println("time", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Println("nodes/s", humanize.Comma(int64(float64(total)/elapsed.Seconds())))
	}
	fmt.Println(MemUsageString())
}
