package search

import (
	"strconv"
	"strings"

	"github.com/cricklet/chessworker/internal/book"
	"github.com/cricklet/chessworker/internal/evaluation"
	. "github.com/cricklet/chessworker/internal/helpers"
)

type SearcherOptions struct {
	maxDepth   int
	richness   evaluation.Richness
	book       Optional[book.Book]
	nodeBudget int
	logger     Logger
}

type SearchOption func(*SearcherOptions)

func defaultSearcherOptions() SearcherOptions {
	return SearcherOptions{
		maxDepth: DefaultDepth,
		richness: evaluation.Strategic,
		book:     Some(book.Default()),
		logger:   &SilentLogger,
	}
}

// WithMaxDepth clamps depth into [MinDepth, MaxDepth].
func WithMaxDepth(depth int) SearchOption {
	return func(o *SearcherOptions) {
		o.maxDepth = ClampDepth(depth)
	}
}

func WithEvaluation(richness evaluation.Richness) SearchOption {
	return func(o *SearcherOptions) {
		o.richness = richness
	}
}

func WithBook(b book.Book) SearchOption {
	return func(o *SearcherOptions) {
		o.book = Some(b)
	}
}

func WithoutBook() SearchOption {
	return func(o *SearcherOptions) {
		o.book = Empty[book.Book]()
	}
}

// WithNodeBudget stops the search after n nodes. Zero means unlimited.
func WithNodeBudget(n int) SearchOption {
	return func(o *SearcherOptions) {
		o.nodeBudget = Max(n, 0)
	}
}

func WithLogger(logger Logger) SearchOption {
	return func(o *SearcherOptions) {
		o.logger = logger
	}
}

var AllSearchOptions = []string{
	"depth=<n>",
	"nodes=<n>",
	"material",
	"strategic",
	"nobook",
}

// SearchOptionsFromArgs parses the command line flavour of the options above,
// eg "depth=3 material nobook".
func SearchOptionsFromArgs(args ...string) ([]SearchOption, Error) {
	options := []SearchOption{}

	for _, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")
		switch key {
		case "depth", "nodes":
			if !hasValue {
				return nil, Errorf("option %v needs a value", key)
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, Errorf("invalid %v '%v': %w", key, value, err)
			}
			if key == "depth" {
				options = append(options, WithMaxDepth(n))
			} else {
				options = append(options, WithNodeBudget(n))
			}
		case "material", "strategic":
			richness, err := evaluation.RichnessFromString(key)
			if !IsNil(err) {
				return nil, err
			}
			options = append(options, WithEvaluation(richness))
		case "nobook":
			options = append(options, WithoutBook())
		default:
			return nil, Errorf("unknown option: %v", arg)
		}
	}

	return options, NilError
}
