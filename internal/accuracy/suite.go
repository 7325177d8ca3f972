package accuracy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

type EpdResult struct {
	Epd     Epd
	Move    string
	Success bool
	Depth   int
	Nodes   int
	Source  search.Source
}

func (r EpdResult) String() string {
	status := "failure"
	if r.Success {
		status = "success"
	}
	name := r.Epd.Id
	if name == "" {
		name = r.Epd.Fen
	}
	return fmt.Sprintf("%v %v: played %v at depth %v (%v nodes), wanted bm %v am %v",
		status, name, r.Move, r.Depth, humanize.Comma(int64(r.Nodes)), r.Epd.BestMoves, r.Epd.AvoidMoves)
}

func SearchEpd(ctx context.Context, epd Epd, options ...search.SearchOption) (EpdResult, Error) {
	result, err := search.NewSearcher(epd.Pos, epd.Player, options...).Search(ctx)
	if !IsNil(err) {
		return EpdResult{}, err
	}
	if result.Move.IsEmpty() {
		return EpdResult{}, Errorf("no moves found for %v", epd.Fen)
	}

	move := result.Move.Value().String()
	return EpdResult{
		Epd:     epd,
		Move:    move,
		Success: epd.Success(move),
		Depth:   result.Depth,
		Nodes:   result.Nodes,
		Source:  result.Source,
	}, NilError
}

// RunSuite searches every record, at most parallelism at a time. Results keep
// the order of epds.
func RunSuite(ctx context.Context, epds []Epd, parallelism int, progress ProgressBar, options ...search.SearchOption) ([]EpdResult, Error) {
	results := make([]EpdResult, len(epds))
	mutex := sync.Mutex{}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(Max(parallelism, 1))

	for i, epd := range epds {
		i, epd := i, epd
		group.Go(func() error {
			result, err := SearchEpd(ctx, epd, options...)
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

func Summary(results []EpdResult) string {
	successes := FilterSlice(results, func(r EpdResult) bool {
		return r.Success
	})
	nodes := 0
	for _, r := range results {
		nodes += r.Nodes
	}

	percent := 0.0
	if len(results) > 0 {
		percent = 100 * float64(len(successes)) / float64(len(results))
	}

	lines := []string{
		fmt.Sprintf("solved %v / %v (%.1f%%)", len(successes), len(results), percent),
		fmt.Sprintf("searched %v nodes", humanize.Comma(int64(nodes))),
	}
	return strings.Join(lines, "\n")
}
