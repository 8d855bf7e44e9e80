package types

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestNewBoardSizes(t *testing.T) {
	for n := MinBoardSize; n <= MaxBoardSize; n++ {
		b, err := NewBoard(n)
		if err != nil {
			t.Fatalf("NewBoard(%d) failed: %v", n, err)
		}
		if b.Size() != n {
			t.Fatalf("expected size %d, got %d", n, b.Size())
		}
		if len(b.EmptyCells()) != n*n {
			t.Fatalf("expected %d empty cells, got %d", n*n, len(b.EmptyCells()))
		}
		if len(b.Lines()) != 2*n+2 {
			t.Fatalf("expected %d lines, got %d", 2*n+2, len(b.Lines()))
		}
	}
	for _, n := range []int{-1, 0, 2, 11} {
		if _, err := NewBoard(n); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("NewBoard(%d): expected ErrInvalidSize, got %v", n, err)
		}
	}
}

func TestEmptyCellsRowMajor(t *testing.T) {
	b, err := ParseBoard("x.o/.x./o..")
	if err != nil {
		t.Fatal(err)
	}
	want := []Move{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}
	got := b.EmptyCells()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestApply(t *testing.T) {
	b, _ := NewBoard(3)
	if !b.Apply(1, 1, Max) {
		t.Fatal("apply on empty cell should succeed")
	}
	if b.At(1, 1) != Cell(Max) {
		t.Fatalf("expected max at (1,1), got %d", b.At(1, 1))
	}

	before := b.String()
	cases := []struct {
		name     string
		row, col int
		side     Side
	}{
		{"occupied", 1, 1, Min},
		{"row below", -1, 0, Min},
		{"row above", 3, 0, Min},
		{"col above", 0, 3, Min},
		{"bad side", 0, 0, Side(0)},
	}
	for _, tc := range cases {
		if b.Apply(tc.row, tc.col, tc.side) {
			t.Errorf("%s: apply should fail", tc.name)
		}
		if b.String() != before {
			t.Errorf("%s: board mutated on failed apply", tc.name)
		}
	}
}

func TestPlaceRestores(t *testing.T) {
	b, _ := ParseBoard("x../.../...")
	restore := b.Place(2, 2, Min)
	if b.At(2, 2) != Cell(Min) {
		t.Fatal("place should set the cell")
	}
	restore()
	if b.At(2, 2) != Empty {
		t.Fatal("restore should empty the cell")
	}
	if b.String() != "x..\n...\n..." {
		t.Fatalf("unexpected board after restore:\n%s", b)
	}
}

func TestLineExtraction(t *testing.T) {
	b, _ := ParseBoard("xo./.x./o.x")
	row := b.Row(0)
	if row[0] != Cell(Max) || row[1] != Cell(Min) || row[2] != Empty {
		t.Fatalf("unexpected row 0: %v", row)
	}
	col := b.Column(0)
	if col[0] != Cell(Max) || col[1] != Empty || col[2] != Cell(Min) {
		t.Fatalf("unexpected column 0: %v", col)
	}
	for i, c := range b.Diagonal() {
		if c != Cell(Max) {
			t.Fatalf("diagonal cell %d: expected max, got %d", i, c)
		}
	}
	anti := b.AntiDiagonal()
	if anti[0] != Empty || anti[1] != Cell(Max) || anti[2] != Cell(Min) {
		t.Fatalf("unexpected anti-diagonal: %v", anti)
	}

	// Row copies must not alias the board.
	row[2] = Cell(Max)
	if b.At(0, 2) != Empty {
		t.Fatal("Row returned an aliased slice")
	}
}

func TestFullAndClone(t *testing.T) {
	b, _ := ParseBoard("xox/oxo/oxo")
	if !b.Full() {
		t.Fatal("board should be full")
	}
	c := b.Clone()
	c.Clear(0, 0)
	if b.At(0, 0) != Cell(Max) {
		t.Fatal("clone should not share cells")
	}
	if reflect.DeepEqual(b.Rows(), c.Rows()) {
		t.Fatal("boards should differ after clearing the clone")
	}
}

func TestBoardJSON(t *testing.T) {
	b, _ := ParseBoard("x../.o./...")
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[[1,0,0],[0,-1,0],[0,0,0]]" {
		t.Fatalf("unexpected json %s", data)
	}
	var back Board
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Rows(), b.Rows()) {
		t.Fatalf("round trip mismatch:\n%s", &back)
	}
	if err := json.Unmarshal([]byte("[[1,0],[0,0]]"), &back); err == nil {
		t.Fatal("2x2 board should be rejected")
	}
	if err := json.Unmarshal([]byte("[[2,0,0],[0,0,0],[0,0,0]]"), &back); err == nil {
		t.Fatal("cell value 2 should be rejected")
	}
}

func TestMoveUnmarshal(t *testing.T) {
	var m Move
	if err := json.Unmarshal([]byte("[1, 2]"), &m); err != nil || m != (Move{1, 2}) {
		t.Fatalf("array form: got %v, %v", m, err)
	}
	if err := json.Unmarshal([]byte(`{"row":2,"col":0}`), &m); err != nil || m != (Move{2, 0}) {
		t.Fatalf("object form: got %v, %v", m, err)
	}
	if err := json.Unmarshal([]byte("[1]"), &m); err == nil {
		t.Fatal("short array should fail")
	}
}

func TestSideOpponent(t *testing.T) {
	if Max.Opponent() != Min || Min.Opponent() != Max {
		t.Fatal("opponent should negate the side")
	}
	if Side(0).Valid() {
		t.Fatal("zero side should be invalid")
	}
}
