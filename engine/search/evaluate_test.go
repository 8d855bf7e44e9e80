package search

import (
	"testing"

	"termtactoe/types"
)

func mustBoard(t *testing.T, s string) *types.Board {
	t.Helper()
	b, err := types.ParseBoard(s)
	if err != nil {
		t.Fatalf("bad board %q: %v", s, err)
	}
	return b
}

func TestWins(t *testing.T) {
	tests := []struct {
		name    string
		board   string
		max     bool
		min     bool
		winSide types.Side
	}{
		{"empty", ".../.../...", false, false, 0},
		{"row", ".../xxx/o.o", true, false, types.Max},
		{"column", "o.x/o.x/o..", false, true, types.Min},
		{"diagonal", "x.o/.xo/..x", true, false, types.Max},
		{"anti-diagonal", "x.o/.o./ox.", false, true, types.Min},
		{"4x4 three in a row is not a win", "xxx./oo../..../....", false, false, 0},
		{"4x4 full row", "..../xxxx/o.o./o...", true, false, types.Max},
		{"4x4 anti-diagonal", "...o/..o./.o../o...", false, true, types.Min},
		{"5x5 partial diagonal", "x..../.x.../..x../...x./.....", false, false, 0},
	}
	for _, tc := range tests {
		b := mustBoard(t, tc.board)
		if got := Wins(b, types.Max); got != tc.max {
			t.Errorf("%s: Wins(max) = %v, want %v", tc.name, got, tc.max)
		}
		if got := Wins(b, types.Min); got != tc.min {
			t.Errorf("%s: Wins(min) = %v, want %v", tc.name, got, tc.min)
		}
		side, line := WinningLine(b)
		if side != tc.winSide {
			t.Errorf("%s: WinningLine side = %v, want %v", tc.name, side, tc.winSide)
		}
		if tc.winSide != 0 && len(line) != b.Size() {
			t.Errorf("%s: winning line has %d cells, want %d", tc.name, len(line), b.Size())
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		score    int
		terminal bool
	}{
		{"max wins", "xxx/oo./...", Win, true},
		{"min wins", "xx./ooo/x..", Loss, true},
		{"draw", "xox/xoo/oxx", Draw, true},
		{"in progress", "x../.o./...", Draw, false},
		{"empty", ".../.../...", Draw, false},
	}
	for _, tc := range tests {
		b := mustBoard(t, tc.board)
		if got := Evaluate(b); got != tc.score {
			t.Errorf("%s: Evaluate = %d, want %d", tc.name, got, tc.score)
		}
		if got := IsTerminal(b); got != tc.terminal {
			t.Errorf("%s: IsTerminal = %v, want %v", tc.name, got, tc.terminal)
		}
	}
}

func TestWinnerImpliesTerminal(t *testing.T) {
	for _, s := range []string{"xxx/.../oo.", "o../o.x/o.x", "..../oooo/xxx./...x"} {
		b := mustBoard(t, s)
		side, _ := WinningLine(b)
		if side == 0 {
			t.Fatalf("%q should have a winner", s)
		}
		if !IsTerminal(b) {
			t.Fatalf("%q should be terminal", s)
		}
		if Evaluate(b) != int(side) {
			t.Fatalf("%q: Evaluate = %d, want sign of %v", s, Evaluate(b), side)
		}
	}
}
