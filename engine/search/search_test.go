package search

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"termtactoe/types"
)

func bestMove(t *testing.T, b *types.Board, side types.Side, algo Algorithm) (Result, uint64) {
	t.Helper()
	var c Counter
	res, err := BestMove(context.Background(), b, side, Options{Algorithm: algo, Depth: FullDepth}, &c)
	if err != nil {
		t.Fatalf("%v search failed: %v", algo, err)
	}
	return res, c.Nodes()
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		board string
		move  types.Move
		score int
	}{
		// Perfect play draws; row-major order keeps the first cell.
		{"empty board", ".../.../...", types.Move{Row: 0, Col: 0}, Draw},
		{"take the win", "xx./.../...", types.Move{Row: 0, Col: 2}, Win},
		// Min already owns two extra stones and forks after the block, so
		// every move loses and the first one is kept.
		{"two stones down", "oo./.../...", types.Move{Row: 0, Col: 2}, Loss},
		{"block to draw", "oo./.x./...", types.Move{Row: 0, Col: 2}, Draw},
	}
	for _, tc := range tests {
		for _, algo := range []Algorithm{Minimax, AlphaBeta} {
			b := mustBoard(t, tc.board)
			res, _ := bestMove(t, b, types.Max, algo)
			if res.Move != tc.move || res.Score != tc.score {
				t.Errorf("%s/%v: got %v, want (%d,%d) score %+d",
					tc.name, algo, res, tc.move.Row, tc.move.Col, tc.score)
			}
			if b.String() != mustBoard(t, tc.board).String() {
				t.Errorf("%s/%v: board changed by search:\n%s", tc.name, algo, b)
			}
		}
	}
}

func TestTerminalBoardReturnsNoMove(t *testing.T) {
	boards := map[string]int{
		"xox/xoo/oxx": Draw,
		"xxx/oo./...": Win,
		"x.x/ooo/x..": Loss,
	}
	for s, score := range boards {
		for _, algo := range []Algorithm{Minimax, AlphaBeta} {
			for _, side := range []types.Side{types.Max, types.Min} {
				res, nodes := bestMove(t, mustBoard(t, s), side, algo)
				if !res.Move.IsNone() || res.Score != score {
					t.Errorf("%q %v %v: got %v, want no move score %+d", s, algo, side, res, score)
				}
				if nodes != 1 {
					t.Errorf("%q %v: expected 1 node, got %d", s, algo, nodes)
				}
			}
		}
	}
}

func TestMinimaxDepthZeroIsLeaf(t *testing.T) {
	b := mustBoard(t, "xx./.../...")
	var c Counter
	res := MinimaxSearch(b, 0, types.Max, &c)
	if !res.Move.IsNone() || res.Score != Draw {
		t.Fatalf("depth 0 should evaluate in place, got %v", res)
	}
	if c.Nodes() != 1 {
		t.Fatalf("expected 1 node, got %d", c.Nodes())
	}
}

func TestMinimaxCountsEveryCall(t *testing.T) {
	b := mustBoard(t, ".../.../...")
	var c Counter
	MinimaxSearch(b, 1, types.Max, &c)
	// root + one leaf per empty cell
	if c.Nodes() != 10 {
		t.Fatalf("expected 10 nodes, got %d", c.Nodes())
	}
	MinimaxSearch(b, 2, types.Max, &c)
	// counters accumulate until reset: 10 + (1 + 9 + 9*8)
	if c.Nodes() != 92 {
		t.Fatalf("expected 92 nodes, got %d", c.Nodes())
	}
	c.Reset()
	if c.Nodes() != 0 {
		t.Fatalf("reset should zero the counter, got %d", c.Nodes())
	}
}

func TestShallowMinimaxBlocks(t *testing.T) {
	// 10x10 board, Min one stone short of the bottom row. Too large for a
	// full search, but depth 2 sees the threat.
	rows := make([]string, 10)
	for i := range rows {
		rows[i] = strings.Repeat(".", 10)
	}
	rows[9] = strings.Repeat("o", 9) + "."
	b := mustBoard(t, strings.Join(rows, "/"))

	res := MinimaxSearch(b, 1, types.Max, nil)
	if res.Move != (types.Move{Row: 0, Col: 0}) || res.Score != Draw {
		t.Fatalf("depth 1 cannot see the threat, expected (0,0), got %v", res)
	}
	res = MinimaxSearch(b, 2, types.Max, nil)
	if res.Move != (types.Move{Row: 9, Col: 9}) || res.Score != Draw {
		t.Fatalf("depth 2 should block at (9,9), got %v", res)
	}
}

// reachable walks every position reachable from b in up to plies moves,
// with side to move first, and calls fn on each non-terminal one.
func reachable(b *types.Board, side types.Side, plies int, fn func(types.Side)) {
	if IsTerminal(b) {
		return
	}
	fn(side)
	if plies == 0 {
		return
	}
	for _, m := range b.EmptyCells() {
		restore := b.Place(m.Row, m.Col, side)
		reachable(b, side.Opponent(), plies-1, fn)
		restore()
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	for _, first := range []types.Side{types.Max, types.Min} {
		b := mustBoard(t, ".../.../...")
		positions := 0
		reachable(b, first, 3, func(side types.Side) {
			positions++
			before := b.String()

			var mc, ac Counter
			mm := MinimaxSearch(b, len(b.EmptyCells()), side, &mc)
			ab := AlphaBetaSearch(b, side, &ac)
			if mm.Score != ab.Score {
				t.Fatalf("score mismatch on\n%s\n%v to move: minimax %v, alphabeta %v", b, side, mm, ab)
			}
			if ac.Nodes() > mc.Nodes() {
				t.Fatalf("alphabeta visited %d nodes, minimax %d on\n%s", ac.Nodes(), mc.Nodes(), b)
			}
			if b.String() != before {
				t.Fatalf("board not restored:\n%s\nwant\n%s", b, before)
			}
		})
		if positions != 1+9+72+504 {
			t.Fatalf("expected 586 positions, visited %d", positions)
		}
	}
}

func TestAlphaBetaVisitsFewerNodes(t *testing.T) {
	b := mustBoard(t, ".../.../...")
	_, mm := bestMove(t, b, types.Max, Minimax)
	_, ab := bestMove(t, b, types.Max, AlphaBeta)
	if ab >= mm {
		t.Fatalf("alphabeta should prune on the empty board: %d vs %d nodes", ab, mm)
	}
	// 1 + 9 + 9*8 + ... over every game; the classic count for full
	// tic-tac-toe minimax from the empty board.
	if mm != 549946 {
		t.Fatalf("expected 549946 minimax nodes, got %d", mm)
	}
}

func TestBestMoveIsDeterministic(t *testing.T) {
	for _, s := range []string{".../.../...", "x../.o./...", "xo./.../..."} {
		for _, algo := range []Algorithm{Minimax, AlphaBeta} {
			b := mustBoard(t, s)
			first, n1 := bestMove(t, b, types.Min, algo)
			second, n2 := bestMove(t, b, types.Min, algo)
			if first != second || n1 != n2 {
				t.Fatalf("%q %v: %v/%d then %v/%d", s, algo, first, n1, second, n2)
			}
		}
	}
}

func TestFourByFourSlice(t *testing.T) {
	// Seven empty cells: small enough for the exhaustive engine.
	b := mustBoard(t, "xox./.o.x/o.x./.x.o")
	for _, side := range []types.Side{types.Max, types.Min} {
		mm, mmNodes := bestMove(t, b, side, Minimax)
		ab, abNodes := bestMove(t, b, side, AlphaBeta)
		if mm.Score != ab.Score {
			t.Fatalf("%v: minimax %v, alphabeta %v", side, mm, ab)
		}
		if abNodes > mmNodes {
			t.Fatalf("%v: alphabeta %d nodes > minimax %d", side, abNodes, mmNodes)
		}
	}
}

func TestFourByFourEmptyIsDraw(t *testing.T) {
	if os.Getenv("TERMTACTOE_SLOW_TESTS") == "" {
		t.Skip("full 4x4 search; set TERMTACTOE_SLOW_TESTS=1 to run")
	}
	b, _ := types.NewBoard(4)
	res, _ := bestMove(t, b, types.Max, AlphaBeta)
	if res.Score != Draw {
		t.Fatalf("expected a draw on the empty 4x4 board, got %v", res)
	}
	if len(b.EmptyCells()) != 16 {
		t.Fatal("board not restored after search")
	}
}

func TestBestMoveCancelled(t *testing.T) {
	b, _ := types.NewBoard(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c Counter
	_, err := BestMove(ctx, b, types.Max, Options{Algorithm: Minimax, Depth: FullDepth}, &c)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(b.EmptyCells()) != 16 {
		t.Fatalf("board not restored after cancel:\n%s", b)
	}
	if c.Nodes() > 2*pollInterval {
		t.Fatalf("search kept going after cancel: %d nodes", c.Nodes())
	}
}

func TestBestMoveRejectsBadInput(t *testing.T) {
	b, _ := types.NewBoard(3)
	if _, err := BestMove(context.Background(), b, types.Side(0), Options{Algorithm: Minimax}, nil); err == nil {
		t.Fatal("zero side should be rejected")
	}
	if _, err := BestMove(context.Background(), b, types.Max, Options{}, nil); err == nil {
		t.Fatal("missing algorithm should be rejected")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := map[string]Algorithm{
		"minimax":    Minimax,
		"Minimax":    Minimax,
		"alphabeta":  AlphaBeta,
		"alpha-beta": AlphaBeta,
		" ab ":       AlphaBeta,
	}
	for in, want := range tests {
		got, err := ParseAlgorithm(in)
		if err != nil || got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseAlgorithm("mcts"); err == nil {
		t.Error("unknown algorithm should fail")
	}
}
