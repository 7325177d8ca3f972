package engine

import (
	"context"
	"sync"

	. "github.com/cricklet/chessworker/internal/game"
	. "github.com/cricklet/chessworker/internal/helpers"
	"github.com/cricklet/chessworker/internal/search"
)

// StartRequest is a snapshot of the position to search. Player is the color
// the engine moves for.
// A zero Depth means the default depth.
type StartRequest struct {
	Board     BoardArray
	Castling  CastlingRights
	EnPassant Optional[FileRank]
	Depth     int
	Player    Player

	// Nodes caps the search when positive.
	Nodes int
}

func (r StartRequest) Position() Position {
	return Position{
		Board:           r.Board,
		CastlingRights:  r.Castling,
		EnPassantTarget: r.EnPassant,
	}
}

type Result struct {
	Move   Optional[Move]
	Score  int
	Depth  int
	Nodes  int
	Source search.Source

	// Err is set when the request could not be searched at all.
	Err Error
}

type Engine struct {
	logger        Logger
	searchOptions []search.SearchOption

	results chan Result

	mutex   sync.Mutex
	running bool
	cancel  context.CancelFunc
}

type EngineOption func(*Engine)

func WithLogger(logger Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSearchOptions applies to every search. The request depth always wins
// over a depth given here.
func WithSearchOptions(options ...search.SearchOption) EngineOption {
	return func(e *Engine) {
		e.searchOptions = append(e.searchOptions, options...)
	}
}

func New(options ...EngineOption) *Engine {
	e := &Engine{
		results: make(chan Result, 1),
	}
	for _, o := range options {
		o(e)
	}
	if e.logger == nil {
		e.logger = &SilentLogger
	}
	return e
}

// Results delivers exactly one Result per accepted Start.
func (e *Engine) Results() <-chan Result {
	return e.results
}

func (e *Engine) Running() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.running
}

// Start searches req on a new goroutine. Only one search may be in flight.
func (e *Engine) Start(req StartRequest) Error {
	if req.Player != White && req.Player != Black {
		return Errorf("invalid player %d", uint(req.Player))
	}

	e.mutex.Lock()
	if e.running {
		e.mutex.Unlock()
		return Errorf("search already in progress")
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.running = true
	e.cancel = cancel
	e.mutex.Unlock()

	// zero means unset, like a missing depth on the wire
	depth := req.Depth
	if depth == 0 {
		depth = search.DefaultDepth
	}

	options := append([]search.SearchOption{}, e.searchOptions...)
	options = append(options,
		search.WithLogger(e.logger),
		search.WithMaxDepth(depth))
	if req.Nodes > 0 {
		options = append(options, search.WithNodeBudget(req.Nodes))
	}

	searcher := search.NewSearcher(req.Position(), req.Player, options...)
	e.logger.Printf("searching %v for %v to depth %v", FenStringForBoard(req.Board), req.Player, searcher.MaxDepth())

	go func() {
		result, err := searcher.Search(ctx)

		e.mutex.Lock()
		e.running = false
		e.cancel = nil
		e.mutex.Unlock()
		cancel()

		if !IsNil(err) {
			e.logger.Println("search failed:", err)
		} else {
			e.logger.Println("search finished:", result.Source, result.Move)
		}

		e.results <- Result{
			Move:   result.Move,
			Score:  result.Score,
			Depth:  result.Depth,
			Nodes:  result.Nodes,
			Source: result.Source,
			Err:    err,
		}
	}()

	return NilError
}

// Stop cancels the in-flight search, if any. Its Result is still delivered.
func (e *Engine) Stop() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}
