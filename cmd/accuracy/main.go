package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/cricklet/chessworker/internal/accuracy"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
)

type cachedResult struct {
	Epd     string `json:"epd"`
	Move    string `json:"move"`
	Success bool   `json:"success"`
	Depth   int    `json:"depth"`
	Nodes   int    `json:"nodes"`
}

func marshalResults(jsonPath string, results []accuracy.EpdResult) Error {
	cache := MapSlice(results, func(r accuracy.EpdResult) cachedResult {
		return cachedResult{
			Epd:     r.Epd.Line,
			Move:    r.Move,
			Success: r.Success,
			Depth:   r.Depth,
			Nodes:   r.Nodes,
		}
	})
	output, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return Wrap(err)
	}
	return Wrap(os.WriteFile(jsonPath, output, 0644))
}

func loadSuite(path string) ([]accuracy.Epd, Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Wrap(err)
	}
	defer f.Close()
	return accuracy.LoadEpd(f)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
		}
	}()

	output := flag.String("o", "", "write per-position results as json")
	parallelism := flag.Int("parallel", 4, "positions searched at once")
	verbose := flag.Bool("v", false, "print every position")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("usage:")
		fmt.Println(" > accuracy [-o results.json] [-parallel n] <suite.epd> [search options]")
		fmt.Println("search options:")
		for _, option := range search.AllSearchOptions {
			fmt.Println("   ", option)
		}
		return
	}

	epds, err := loadSuite(args[0])
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	options, err := search.SearchOptionsFromArgs(args[1:]...)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	progress := CreateProgressBar(len(epds), "positions")
	results, err := accuracy.RunSuite(context.Background(), epds, *parallelism, progress, options...)
	progress.Close()
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if *verbose {
		for _, result := range results {
			fmt.Println(result)
		}
	}
	fmt.Println(accuracy.Summary(results))

	if *output != "" {
		err = marshalResults(*output, results)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}
}
