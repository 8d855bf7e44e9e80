package search

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"termtactoe/types"
)

// Algorithm selects the move-selection engine.
type Algorithm int

const (
	// Minimax is the exhaustive engine, bounded by a depth budget.
	Minimax Algorithm = iota + 1
	// AlphaBeta is the pruned engine. It always searches to the end.
	AlphaBeta
)

func (a Algorithm) String() string {
	switch a {
	case Minimax:
		return "minimax"
	case AlphaBeta:
		return "alphabeta"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm accepts "minimax" and "alphabeta" (also "alpha-beta", "ab").
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimax", "exhaustive":
		return Minimax, nil
	case "alphabeta", "alpha-beta", "ab", "pruned":
		return AlphaBeta, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q", s)
}

// MarshalText encodes the algorithm by name.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an algorithm name.
func (a *Algorithm) UnmarshalText(text []byte) error {
	v, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// FullDepth asks Minimax to search until every cell is filled.
const FullDepth = -1

// Options configures BestMove.
type Options struct {
	Algorithm Algorithm
	// Depth is the Minimax depth budget; FullDepth (or any negative value)
	// means the number of empty cells. AlphaBeta ignores it.
	Depth int
}

// Result is a move and its score under perfect play: Win, Draw or Loss
// from the Max side's point of view. Move is NoMove at leaves.
type Result struct {
	Move  types.Move `json:"move"`
	Score int        `json:"score"`
}

func (r Result) String() string {
	return fmt.Sprintf("(%d,%d) score %+d", r.Move.Row, r.Move.Col, r.Score)
}

const (
	negInf = math.MinInt
	posInf = math.MaxInt

	// Nodes between two context polls.
	pollInterval = 4096
)

// searcher carries the state shared by one top-level search: the board being
// explored, the node counter and the cancellation signal.
type searcher struct {
	board   *types.Board
	stats   *Counter
	ctx     context.Context
	polls   uint64
	aborted bool
}

func newSearcher(ctx context.Context, b *types.Board, stats *Counter) *searcher {
	if stats == nil {
		stats = &Counter{}
	}
	return &searcher{board: b, stats: stats, ctx: ctx}
}

// enter counts a node and reports whether the search must unwind.
func (s *searcher) enter() bool {
	s.stats.visit()
	if s.aborted {
		return true
	}
	if s.ctx == nil {
		return false
	}
	s.polls++
	if s.polls%pollInterval == 0 && s.ctx.Err() != nil {
		s.aborted = true
	}
	return s.aborted
}

// explore plays side at m for the duration of fn. The cell is restored on
// every return path, panics included.
func (s *searcher) explore(m types.Move, side types.Side, fn func()) {
	restore := s.board.Place(m.Row, m.Col, side)
	defer restore()
	fn()
}

// worst is the starting best score for side.
func worst(side types.Side) int {
	if side == types.Max {
		return negInf
	}
	return posInf
}

// improves reports whether score strictly beats best for side. Ties keep the
// earlier move, which makes the choice deterministic and row-major biased.
func improves(side types.Side, score, best int) bool {
	if side == types.Max {
		return score > best
	}
	return score < best
}

// BestMove searches b for side with the chosen algorithm. The board is left
// unchanged. On a terminal board it returns NoMove and the evaluation.
// A cancelled ctx stops the search and returns ctx.Err().
func BestMove(ctx context.Context, b *types.Board, side types.Side, opts Options, stats *Counter) (Result, error) {
	if !side.Valid() {
		return Result{Move: types.NoMove}, fmt.Errorf("invalid side %d", side)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := newSearcher(ctx, b, stats)
	start := s.stats.Nodes()
	began := time.Now()

	var res Result
	switch opts.Algorithm {
	case Minimax:
		depth := opts.Depth
		if depth < 0 {
			depth = len(b.EmptyCells())
		}
		res = s.minimax(depth, side)
	case AlphaBeta:
		res = s.alphaBeta(negInf, posInf, side)
	default:
		return Result{Move: types.NoMove}, fmt.Errorf("unknown algorithm %d", int(opts.Algorithm))
	}

	if s.aborted {
		return Result{Move: types.NoMove}, fmt.Errorf("search aborted: %w", ctx.Err())
	}

	log.Debug().
		Str("algorithm", opts.Algorithm.String()).
		Stringer("side", side).
		Int("row", res.Move.Row).
		Int("col", res.Move.Col).
		Int("score", res.Score).
		Uint64("nodes", s.stats.Nodes()-start).
		Dur("elapsed", time.Since(began)).
		Msg("search done")
	return res, nil
}
