package book

import (
	"bufio"
	"io"
	"sort"
	"strings"

	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
)

// Book maps a piece placement (the first FEN field) to a single reply in
// coordinate notation.
type Book struct {
	entries map[string]string
}

func New() Book {
	return Book{entries: map[string]string{}}
}

// Default holds the scripted replies to 1.e4 and 1.d4.
func Default() Book {
	b := New()
	b.Add("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", "e7e5")
	b.Add("rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR", "d7d5")
	return b
}

func (b Book) Add(placement string, move string) {
	b.entries[placement] = move
}

func (b Book) Len() int {
	return len(b.entries)
}

func (b Book) Lookup(board BoardArray) Optional[string] {
	if move, ok := b.entries[FenStringForBoard(board)]; ok {
		return Some(move)
	}
	return Empty[string]()
}

// Merge returns a book with the entries of b overridden by those of o.
func (b Book) Merge(o Book) Book {
	result := New()
	for k, v := range b.entries {
		result.entries[k] = v
	}
	for k, v := range o.entries {
		result.entries[k] = v
	}
	return result
}

func (b Book) String() string {
	lines := []string{}
	for placement, move := range b.entries {
		lines = append(lines, placement+" "+move)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// Parse reads one "<placement> <move>" entry per line. Blank lines and lines
// starting with '#' are skipped.
func Parse(r io.Reader) (Book, Error) {
	b := New()

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return Book{}, Errorf("line %v: expected '<placement> <move>', got '%v'", lineNumber, line)
		}

		board, err := BoardFromFenString(fields[0])
		if !IsNil(err) {
			return Book{}, Errorf("line %v: %w", lineNumber, err)
		}

		pos := Position{Board: board}
		if _, err := pos.MoveFromString(fields[1]); !IsNil(err) {
			return Book{}, Errorf("line %v: %w", lineNumber, err)
		}

		b.Add(FenStringForBoard(board), fields[1])
	}
	if err := scanner.Err(); err != nil {
		return Book{}, Wrap(err)
	}

	return b, NilError
}
