package search

import "termtactoe/types"

// MinimaxSearch runs the exhaustive engine on b with the given depth budget.
// The board is restored before returning.
func MinimaxSearch(b *types.Board, depth int, side types.Side, stats *Counter) Result {
	return newSearcher(nil, b, stats).minimax(depth, side)
}

// minimax returns the best result for side, exploring every empty cell in
// row-major order down to depth plies or a terminal position.
func (s *searcher) minimax(depth int, side types.Side) Result {
	if s.enter() {
		return Result{Move: types.NoMove}
	}
	if depth == 0 || IsTerminal(s.board) {
		return Result{Move: types.NoMove, Score: Evaluate(s.board)}
	}

	best := Result{Move: types.NoMove, Score: worst(side)}
	for _, m := range s.board.EmptyCells() {
		var child Result
		s.explore(m, side, func() {
			child = s.minimax(depth-1, side.Opponent())
		})
		if s.aborted {
			return best
		}
		if improves(side, child.Score, best.Score) {
			best = Result{Move: m, Score: child.Score}
		}
	}
	return best
}
