package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/cricklet/chessworker/internal/book"
	"github.com/cricklet/chessworker/internal/engine"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
	"github.com/cricklet/chessworker/internal/uci"
	"github.com/pkg/profile"
	"golang.org/x/term"
)

func loadBook(path string) (book.Book, Error) {
	if path == "" {
		return book.Default(), NilError
	}

	f, err := os.Open(path)
	if err != nil {
		return book.Book{}, Wrap(err)
	}
	defer f.Close()

	extra, parseErr := book.Parse(f)
	if !IsNil(parseErr) {
		return book.Book{}, parseErr
	}
	return book.Default().Merge(extra), NilError
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "recover()", r)
		}
	}()

	bookPath := flag.String("book", "", "extra opening book entries, one '<placement> <move>' per line")
	flag.Parse()
	args := flag.Args()

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath("."))
		defer p.Stop()
	}
	args = FilterSlice(args, func(arg string) bool {
		return arg != "profile"
	})

	if len(args) > 0 && args[0] == "options" {
		for _, option := range search.AllSearchOptions {
			fmt.Println(option)
		}
		return
	}

	searchOptions, err := search.SearchOptionsFromArgs(args...)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	openingBook, err := loadBook(*bookPath)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	colors := term.IsTerminal(int(os.Stdout.Fd()))
	var printLine = func(s string) {
		if !colors {
			s = stripansi.Strip(s)
		}
		fmt.Println(s)
	}

	e := engine.New(
		engine.WithSearchOptions(append([]search.SearchOption{search.WithBook(openingBook)}, searchOptions...)...),
		engine.WithLogger(FuncLogger(func(s string) {
			fmt.Fprintln(os.Stderr, "info string", strings.TrimRight(s, "\n"))
		})),
	)
	r := uci.NewUciRunner(e)

	go func() {
		for result := range e.Results() {
			if !IsNil(result.Err) {
				fmt.Fprintln(os.Stderr, "error:", result.Err)
			}
			printLine(uci.BestMoveString(result))
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := scanner.Text()
		if input == "quit" {
			e.Stop()
			break
		}
		result, err := r.HandleInput(input)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		for _, v := range result {
			printLine(v)
		}
	}
}
