package search

import "termtactoe/types"

// AlphaBetaSearch runs the pruned engine on b. It has no depth limit and only
// suits boards small enough to be searched to the end.
func AlphaBetaSearch(b *types.Board, side types.Side, stats *Counter) Result {
	return newSearcher(nil, b, stats).alphaBeta(negInf, posInf, side)
}

// alphaBeta is both the maximizing and the minimizing step; side decides the
// comparison, the cutoff test and which bound moves.
// The Max step cuts once best >= beta and otherwise raises alpha.
// The Min step cuts once best <= alpha and otherwise lowers beta.
func (s *searcher) alphaBeta(alpha, beta int, side types.Side) Result {
	if s.enter() {
		return Result{Move: types.NoMove}
	}
	empties := s.board.EmptyCells()
	if len(empties) == 0 || GameOver(s.board) {
		return Result{Move: types.NoMove, Score: Evaluate(s.board)}
	}

	best := Result{Move: types.NoMove, Score: worst(side)}
	for _, m := range empties {
		var child Result
		s.explore(m, side, func() {
			child = s.alphaBeta(alpha, beta, side.Opponent())
		})
		if s.aborted {
			return best
		}
		if improves(side, child.Score, best.Score) {
			best = Result{Move: m, Score: child.Score}
		}

		if side == types.Max {
			if best.Score >= beta {
				return best
			}
			alpha = max(alpha, best.Score)
		} else {
			if best.Score <= alpha {
				return best
			}
			beta = min(beta, best.Score)
		}
	}
	return best
}
