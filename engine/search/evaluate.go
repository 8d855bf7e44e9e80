// Package search implements the game-tree search: terminal detection,
// scoring, exhaustive minimax and alpha-beta pruned minimax.
package search

import "termtactoe/types"

// Scores from the Max side's point of view.
const (
	Loss = -1
	Draw = 0
	Win  = +1
)

// Wins returns true if side owns every cell of a full row, column or one of
// the two main diagonals. Shorter runs never count, whatever the board size.
func Wins(b *types.Board, side types.Side) bool {
	return winningLine(b, side) != nil
}

// WinningLine returns the first line completed by either side, or nil.
func WinningLine(b *types.Board) (types.Side, []types.Move) {
	for _, side := range []types.Side{types.Max, types.Min} {
		if line := winningLine(b, side); line != nil {
			return side, line
		}
	}
	return 0, nil
}

func winningLine(b *types.Board, side types.Side) []types.Move {
	want := types.Cell(side)
	for _, line := range b.Lines() {
		owned := true
		for _, m := range line {
			if b.At(m.Row, m.Col) != want {
				owned = false
				break
			}
		}
		if owned {
			return line
		}
	}
	return nil
}

// GameOver returns true if either side has won.
func GameOver(b *types.Board) bool {
	return Wins(b, types.Max) || Wins(b, types.Min)
}

// IsTerminal returns true if a side has won or the board is full.
func IsTerminal(b *types.Board) bool {
	return GameOver(b) || b.Full()
}

// Evaluate returns Win if Max has won, Loss if Min has won and Draw
// otherwise. A non-terminal board also scores Draw; check IsTerminal before
// reading 0 as a drawn game.
func Evaluate(b *types.Board) int {
	switch {
	case Wins(b, types.Max):
		return Win
	case Wins(b, types.Min):
		return Loss
	}
	return Draw
}
